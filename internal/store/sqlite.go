package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS fdd_documents (
	id TEXT PRIMARY KEY,
	franchise_name TEXT,
	source_uri TEXT,
	total_pages INTEGER NOT NULL,
	processing_status TEXT NOT NULL,
	created_at TEXT NOT NULL,
	completed_at TEXT
);

CREATE TABLE IF NOT EXISTS fdd_sections (
	fdd_id TEXT NOT NULL,
	item_no INTEGER NOT NULL,
	item_name TEXT NOT NULL,
	start_page INTEGER NOT NULL,
	end_page INTEGER NOT NULL,
	bytes BLOB,
	is_valid INTEGER NOT NULL,
	quality_score REAL NOT NULL,
	page_count INTEGER NOT NULL,
	byte_size INTEGER NOT NULL,
	has_text INTEGER NOT NULL,
	text_sample TEXT,
	needs_review INTEGER NOT NULL,
	extraction_status TEXT NOT NULL,
	extraction_attempts INTEGER NOT NULL DEFAULT 0,
	extraction_model TEXT,
	extraction_error TEXT,
	created_at TEXT NOT NULL,
	extracted_at TEXT,
	PRIMARY KEY (fdd_id, item_no)
);
`

// SQLiteSectionStore is a database/sql-backed SectionStore over the cgo
// SQLite driver github.com/mattn/go-sqlite3, following the teacher's narrow DB-interface + ?-
// placeholder repository pattern.
type SQLiteSectionStore struct {
	db *sql.DB
}

// OpenSQLiteSectionStore opens (creating if absent) a SQLite database at
// dsn and ensures the schema exists.
func OpenSQLiteSectionStore(dsn string) (*SQLiteSectionStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteSectionStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteSectionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSectionStore) UpsertFDD(ctx context.Context, fdd FDDRecord) error {
	if fdd.CreatedAt.IsZero() {
		fdd.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fdd_documents (id, franchise_name, source_uri, total_pages, processing_status, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			franchise_name = excluded.franchise_name,
			source_uri = excluded.source_uri,
			total_pages = excluded.total_pages,
			processing_status = excluded.processing_status,
			completed_at = excluded.completed_at
	`, fdd.ID, fdd.FranchiseName, fdd.SourceURI, fdd.TotalPages, fdd.ProcessingStatus,
		fdd.CreatedAt.Format(time.RFC3339), formatNullableTime(fdd.CompletedAt))
	return err
}

func (s *SQLiteSectionStore) UpdateFDDStatus(ctx context.Context, fddID string, status ProcessingStatus, completedAt *time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE fdd_documents SET processing_status = ?, completed_at = ? WHERE id = ?
	`, status, formatNullableTime(completedAt), fddID)
	if err != nil {
		return err
	}
	return checkRowsAffected(result)
}

func (s *SQLiteSectionStore) GetFDD(ctx context.Context, fddID string) (*FDDRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, franchise_name, source_uri, total_pages, processing_status, created_at, completed_at
		FROM fdd_documents WHERE id = ?
	`, fddID)

	var fdd FDDRecord
	var createdAt string
	var completedAt sql.NullString
	if err := row.Scan(&fdd.ID, &fdd.FranchiseName, &fdd.SourceURI, &fdd.TotalPages,
		&fdd.ProcessingStatus, &createdAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	fdd.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		fdd.CompletedAt = &t
	}
	return &fdd, nil
}

func (s *SQLiteSectionStore) UpsertArtifact(ctx context.Context, r SectionRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.ExtractionStatus == "" {
		r.ExtractionStatus = StatusPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fdd_sections (
			fdd_id, item_no, item_name, start_page, end_page, bytes,
			is_valid, quality_score, page_count, byte_size, has_text, text_sample,
			needs_review, extraction_status, extraction_attempts, extraction_model, extraction_error,
			created_at, extracted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NULL, NULL, ?, NULL)
		ON CONFLICT(fdd_id, item_no) DO UPDATE SET
			item_name = excluded.item_name,
			start_page = excluded.start_page,
			end_page = excluded.end_page,
			bytes = excluded.bytes,
			is_valid = excluded.is_valid,
			quality_score = excluded.quality_score,
			page_count = excluded.page_count,
			byte_size = excluded.byte_size,
			has_text = excluded.has_text,
			text_sample = excluded.text_sample,
			needs_review = excluded.needs_review
	`, r.FDDID, r.ItemNo, r.ItemName, r.StartPage, r.EndPage, r.Bytes,
		boolToInt(r.IsValid), r.QualityScore, r.PageCount, r.ByteSize, boolToInt(r.HasText), r.TextSample,
		boolToInt(r.NeedsReview), r.ExtractionStatus, r.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *SQLiteSectionStore) UpdateStatus(ctx context.Context, fddID string, itemNo int, status ExtractionStatus, model, errMsg *string, extractedAt *time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE fdd_sections SET
			extraction_status = ?,
			extraction_attempts = extraction_attempts + 1,
			extraction_model = COALESCE(?, extraction_model),
			extraction_error = ?,
			extracted_at = COALESCE(?, extracted_at)
		WHERE fdd_id = ? AND item_no = ?
	`, status, model, errMsg, formatNullableTime(extractedAt), fddID, itemNo)
	if err != nil {
		return err
	}
	return checkRowsAffected(result)
}

func (s *SQLiteSectionStore) GetByFDD(ctx context.Context, fddID string) ([]SectionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fdd_id, item_no, item_name, start_page, end_page, bytes,
			is_valid, quality_score, page_count, byte_size, has_text, text_sample,
			needs_review, extraction_status, extraction_attempts, extraction_model, extraction_error,
			created_at, extracted_at
		FROM fdd_sections WHERE fdd_id = ? ORDER BY item_no
	`, fddID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SectionRecord
	for rows.Next() {
		var r SectionRecord
		var isValid, hasText, needsReview int
		var createdAt string
		var extractedAt sql.NullString
		if err := rows.Scan(&r.FDDID, &r.ItemNo, &r.ItemName, &r.StartPage, &r.EndPage, &r.Bytes,
			&isValid, &r.QualityScore, &r.PageCount, &r.ByteSize, &hasText, &r.TextSample,
			&needsReview, &r.ExtractionStatus, &r.ExtractionAttempts, &r.ExtractionModel, &r.ExtractionError,
			&createdAt, &extractedAt); err != nil {
			return nil, err
		}
		r.IsValid = isValid != 0
		r.HasText = hasText != 0
		r.NeedsReview = needsReview != 0
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if extractedAt.Valid {
			t, _ := time.Parse(time.RFC3339, extractedAt.String)
			r.ExtractedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatNullableTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func checkRowsAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

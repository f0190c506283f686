package store

import "time"

// ExtractionStatus tracks a section artifact through the extraction state
// machine: pending -> processing -> (success | failed | skipped | cancelled).
type ExtractionStatus string

const (
	StatusPending    ExtractionStatus = "pending"
	StatusProcessing ExtractionStatus = "processing"
	StatusSuccess    ExtractionStatus = "success"
	StatusFailed     ExtractionStatus = "failed"
	StatusSkipped    ExtractionStatus = "skipped"
	StatusCancelled  ExtractionStatus = "cancelled"
)

// ProcessingStatus tracks an FDD document's overall run status.
type ProcessingStatus string

const (
	FDDPending    ProcessingStatus = "pending"
	FDDProcessing ProcessingStatus = "processing"
	FDDCompleted  ProcessingStatus = "completed"
	FDDPartial    ProcessingStatus = "partial"
	FDDFailed     ProcessingStatus = "failed"
)

// FDDRecord is the minimal document-level record C8 attaches sections to.
type FDDRecord struct {
	ID              string
	FranchiseName   *string
	SourceURI       *string
	TotalPages      int
	ProcessingStatus ProcessingStatus
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// SectionRecord is the store's persisted view of one SectionArtifact plus
// its extraction state, keyed by (fdd_id, item_no).
type SectionRecord struct {
	FDDID     string
	ItemNo    int
	ItemName  string
	StartPage int
	EndPage   int
	Bytes     []byte

	IsValid      bool
	QualityScore float64
	PageCount    int
	ByteSize     int
	HasText      bool
	TextSample   string

	NeedsReview bool

	ExtractionStatus   ExtractionStatus
	ExtractionAttempts int
	ExtractionModel    *string
	ExtractionError    *string

	CreatedAt   time.Time
	ExtractedAt *time.Time
}

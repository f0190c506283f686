package segment

import (
	"github.com/spherical-ai/fdd-pipeline/internal/observability"
	"github.com/spherical-ai/fdd-pipeline/internal/section"
)

// Segmenter splits a source PDF into one byte-exact PDF per section
// boundary and validates each result.
type Segmenter struct {
	logger *observability.Logger
}

// NewSegmenter builds a Segmenter. logger must not be nil.
func NewSegmenter(logger *observability.Logger) *Segmenter {
	return &Segmenter{logger: logger}
}

// Segment produces one Artifact per boundary, in item_no order. A split
// failure for one boundary does not abort the others; instead, an
// Artifact with a synthetic invalid ValidationReport is emitted for it,
// consistent with C3 never raising for whole-document input (only per-
// item InvalidRange/InvalidPDF conditions are local failures the
// coordinator surfaces via the artifact's NeedsReview flag).
func (s *Segmenter) Segment(sourceBytes []byte, totalPages int, boundaries []section.Boundary) []Artifact {
	log := s.logger.WithStage("segment")
	artifacts := make([]Artifact, 0, len(boundaries))

	for _, b := range boundaries {
		itemLog := log.WithItem(b.ItemNo)

		pdfBytes, clamped, err := Split(sourceBytes, b.StartPage, b.EndPage, totalPages)
		if err != nil {
			itemLog.Error().Err(err).Msg("section split failed")
			report := &ValidationReport{IsValid: false, Errors: []string{err.Error()}}
			artifacts = append(artifacts, Artifact{
				ItemNo:      b.ItemNo,
				StartPage:   b.StartPage,
				EndPage:     b.EndPage,
				Validation:  report,
				NeedsReview: true,
			})
			continue
		}
		if clamped {
			itemLog.Warn().Int("end_page", b.EndPage).Int("total_pages", totalPages).
				Msg("end_page clamped to document length")
		}

		report := Validate(pdfBytes)
		artifacts = append(artifacts, Artifact{
			ItemNo:      b.ItemNo,
			StartPage:   b.StartPage,
			EndPage:     b.EndPage,
			Bytes:       pdfBytes,
			Validation:  report,
			NeedsReview: report.NeedsReview(),
		})
	}

	return artifacts
}

package section

import (
	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
	"github.com/spherical-ai/fdd-pipeline/internal/layout"
	"github.com/spherical-ai/fdd-pipeline/internal/observability"
)

// Detector maps a LayoutDocument to section boundaries for all 25 FDD
// items, using the four pooled evidence methods, sequential assignment,
// and minimum-length post-adjustment.
type Detector struct {
	logger *observability.Logger
}

// NewDetector builds a Detector. logger must not be nil.
func NewDetector(logger *observability.Logger) *Detector {
	return &Detector{logger: logger}
}

// Detect produces exactly 25 SectionBoundary records, one per item_no,
// satisfying the ordering, overlap, and minimum-length invariants. It
// never fails on bad or absent evidence; worst case is even distribution
// across the whole document.
func (d *Detector) Detect(doc *layout.Document) ([]Boundary, error) {
	if doc == nil || doc.TotalPages < 1 {
		return nil, domainerr.NewInvalidLayoutInput("document has no pages", nil)
	}

	log := d.logger.WithStage("section_detect")

	candidates := generateCandidates(doc)
	log.Debug().Int("candidate_count", len(candidates)).Msg("pooled section evidence")

	assigned := assignSections(doc.TotalPages, candidates)
	adjusted := applyMinLength(doc.TotalPages, assigned)

	for i := range adjusted {
		before := assigned[i]
		after := adjusted[i]
		if before.StartPage != after.StartPage || before.EndPage != after.EndPage {
			log.Warn().
				Int("item_no", after.ItemNo).
				Int("start_page", after.StartPage).
				Int("end_page", after.EndPage).
				Msg("minimum-length adjustment repaired section boundary")
		}
	}

	if err := validateBoundaries(adjusted, doc.TotalPages); err != nil {
		log.Error().Err(err).Msg("section boundaries failed invariant check after adjustment")
		return nil, err
	}

	return adjusted, nil
}

// validateBoundaries re-verifies §3's invariants after adjustment: exactly
// 25 boundaries ordered by item_no, non-decreasing start pages, item 0
// starting on page 1, and the final end_page matching total_pages.
func validateBoundaries(boundaries []Boundary, totalPages int) error {
	if len(boundaries) != totalItems {
		return domainerr.NewValidation("expected 25 section boundaries", nil)
	}
	if boundaries[0].StartPage != 1 {
		return domainerr.NewValidation("item 0 must start on page 1", nil)
	}
	for i := 0; i < len(boundaries); i++ {
		if boundaries[i].ItemNo != i {
			return domainerr.NewValidation("boundaries must be ordered by item_no", nil)
		}
		if boundaries[i].EndPage < boundaries[i].StartPage {
			return domainerr.NewValidation("end_page must not precede start_page", nil)
		}
		if i > 0 && boundaries[i].StartPage < boundaries[i-1].StartPage {
			return domainerr.NewValidation("start pages must be non-decreasing", nil)
		}
	}
	if boundaries[totalItems-1].EndPage != totalPages {
		return domainerr.NewValidation("final section must end on the last page", nil)
	}
	return nil
}

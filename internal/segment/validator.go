package segment

import (
	"strings"

	"github.com/gen2brain/go-fitz"
)

const (
	textSampleLen        = 200
	needsReviewQuality   = 0.7
	tinyFileBytes        = 1000
	smallFileBytes       = 5000
	errorPenalty         = 0.3
	tinyFilePenalty      = 0.4
	smallFilePenalty     = 0.2
	zeroPagesPenalty     = 0.5
	noExtractTextPenalty = 0.3
)

// Validate parses section PDF bytes with go-fitz and reports page count,
// byte size, whether the first page yields extractable text, and a
// heuristic quality score.
func Validate(pdfBytes []byte) *ValidationReport {
	report := &ValidationReport{IsValid: true, ByteSize: len(pdfBytes)}

	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		report.IsValid = false
		report.Errors = append(report.Errors, err.Error())
		report.QualityScore = scoreQuality(report)
		return report
	}
	defer doc.Close()

	report.PageCount = doc.NumPage()
	if report.PageCount == 0 {
		report.Errors = append(report.Errors, "pdf has zero pages")
	} else if text, err := doc.Text(0); err != nil {
		report.Errors = append(report.Errors, err.Error())
	} else {
		trimmed := strings.TrimSpace(text)
		report.HasText = trimmed != ""
		if len(trimmed) > textSampleLen {
			trimmed = trimmed[:textSampleLen]
		}
		report.TextSample = trimmed
	}

	report.QualityScore = scoreQuality(report)
	return report
}

// NeedsReview reports whether a section should be flagged for manual
// review: the document failed to parse, or its quality score is below
// threshold.
func (r *ValidationReport) NeedsReview() bool {
	return !r.IsValid || r.QualityScore < needsReviewQuality
}

func scoreQuality(r *ValidationReport) float64 {
	score := 1.0
	score -= errorPenalty * float64(len(r.Errors))

	switch {
	case r.ByteSize < tinyFileBytes:
		score -= tinyFilePenalty
	case r.ByteSize < smallFileBytes:
		score -= smallFilePenalty
	}

	if r.PageCount == 0 {
		score -= zeroPagesPenalty
	}
	if !r.HasText {
		score -= noExtractTextPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

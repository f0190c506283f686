package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreQuality_CleanDocumentScoresOne(t *testing.T) {
	r := &ValidationReport{IsValid: true, ByteSize: 50000, PageCount: 5, HasText: true}
	assert.InDelta(t, 1.0, scoreQuality(r), 0.0001)
	assert.False(t, r.NeedsReview())
}

func TestScoreQuality_TinyFilePenalized(t *testing.T) {
	r := &ValidationReport{IsValid: true, ByteSize: 500, PageCount: 1, HasText: true}
	assert.InDelta(t, 0.6, scoreQuality(r), 0.0001)
}

func TestScoreQuality_ZeroPagesAndNoTextCompound(t *testing.T) {
	r := &ValidationReport{IsValid: true, ByteSize: 50000, PageCount: 0, HasText: false}
	assert.InDelta(t, 0.2, scoreQuality(r), 0.0001)
}

func TestScoreQuality_ClampedToZero(t *testing.T) {
	r := &ValidationReport{
		IsValid:   false,
		ByteSize:  100,
		PageCount: 0,
		HasText:   false,
		Errors:    []string{"parse error", "another error"},
	}
	r.QualityScore = scoreQuality(r)
	assert.Equal(t, 0.0, r.QualityScore)
	assert.True(t, r.NeedsReview())
}

func TestNeedsReview_LowQualityButValid(t *testing.T) {
	r := &ValidationReport{IsValid: true, QualityScore: 0.5}
	assert.True(t, r.NeedsReview())
}

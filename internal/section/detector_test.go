package section

import (
	"testing"

	"github.com/spherical-ai/fdd-pipeline/internal/layout"
	"github.com/spherical-ai/fdd-pipeline/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titleBlock(text string) layout.Block {
	return layout.Block{Kind: layout.KindTitle, Text: text}
}

func textBlock(text string) layout.Block {
	return layout.Block{Kind: layout.KindText, Text: text}
}

func newDoc(totalPages int, pageBlocks map[int][]layout.Block) *layout.Document {
	doc := &layout.Document{TotalPages: totalPages}
	for i := 0; i < totalPages; i++ {
		doc.Pages = append(doc.Pages, layout.Page{PageIndex: i, Blocks: pageBlocks[i]})
	}
	return doc
}

func newTestDetector() *Detector {
	return NewDetector(observability.Default())
}

func TestDetect_ExactlyTwentyFiveBoundariesOrdered(t *testing.T) {
	doc := newDoc(30, map[int][]layout.Block{
		0: {titleBlock("Table of Contents")},
	})

	boundaries, err := newTestDetector().Detect(doc)
	require.NoError(t, err)
	require.Len(t, boundaries, 25)
	for i, b := range boundaries {
		assert.Equal(t, i, b.ItemNo)
		if i > 0 {
			assert.GreaterOrEqual(t, b.StartPage, boundaries[i-1].StartPage)
		}
	}
	assert.Equal(t, 1, boundaries[0].StartPage)
	assert.Equal(t, 30, boundaries[24].EndPage)
}

func TestDetect_TitleEvidenceWins(t *testing.T) {
	doc := newDoc(40, map[int][]layout.Block{
		0:  {titleBlock("Table of Contents")},
		9:  {titleBlock("Item 5: Initial Fees")},
		14: {titleBlock("Item 6: Other Fees")},
	})

	boundaries, err := newTestDetector().Detect(doc)
	require.NoError(t, err)
	assert.Equal(t, 10, boundaries[5].StartPage)
	assert.Equal(t, MethodTitle, boundaries[5].Method)
}

func TestDetect_MinimumLengthEnforced(t *testing.T) {
	doc := newDoc(40, map[int][]layout.Block{
		0:  {titleBlock("Table of Contents")},
		19: {titleBlock("Item 7: Estimated Initial Investment")},
		20: {titleBlock("Item 8: Restrictions on Sources of Products and Services")},
	})

	boundaries, err := newTestDetector().Detect(doc)
	require.NoError(t, err)
	item7 := boundaries[7]
	length := item7.EndPage - item7.StartPage + 1
	assert.GreaterOrEqual(t, length, MinPageRequirements[7])
}

func TestDetect_NoEvidenceFallsBackToEvenDistribution(t *testing.T) {
	doc := newDoc(50, map[int][]layout.Block{
		5: {textBlock("unrelated filler content")},
	})

	boundaries, err := newTestDetector().Detect(doc)
	require.NoError(t, err)
	require.Len(t, boundaries, 25)
	assert.Equal(t, MethodFallback, boundaries[10].Method)
	assert.InDelta(t, 0.1, boundaries[10].Confidence, 0.001)
}

func TestDetect_RejectsEmptyDocument(t *testing.T) {
	_, err := newTestDetector().Detect(&layout.Document{TotalPages: 0})
	assert.Error(t, err)
}

func TestDetect_ItemValidationRejectsDisqualifyingText(t *testing.T) {
	doc := newDoc(30, map[int][]layout.Block{
		0: {titleBlock("Table of Contents")},
		9: {titleBlock("Item 5: Royalty Fee schedule and adjusted gross revenue")},
	})

	boundaries, err := newTestDetector().Detect(doc)
	require.NoError(t, err)
	assert.NotEqual(t, 10, boundaries[5].StartPage)
}

func TestPartialRatio_Basic(t *testing.T) {
	score := partialRatio("Item 19", "Financial Performance Representations")
	assert.Less(t, score, 50.0)

	score2 := partialRatio("Financial Performance Representations", "Financial Performance Representations")
	assert.Equal(t, 100.0, score2)
}

func TestCosineSimilarity_IdenticalVectorsScoreOne(t *testing.T) {
	v := newTFIDFVectorizer(100)
	v.fit(referenceCorpus())
	vec := v.transform("Financial Performance Representations")
	assert.InDelta(t, 1.0, cosineSimilarity(vec, vec), 0.0001)
}

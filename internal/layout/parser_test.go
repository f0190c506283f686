package layout

import (
	"testing"

	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Basic(t *testing.T) {
	input := []byte(`{
		"pdf_info": [
			{"page_idx": 0, "para_blocks": [
				{"type": "title", "bbox": [0,0,100,20], "lines": [{"spans": [{"content": "Item 1"}]}]},
				{"type": "text", "bbox": [0,20,100,40], "lines": [{"spans": [{"content": ""}]}]}
			]},
			{"page_idx": 1, "para_blocks": [
				{"type": "text", "bbox": [0,0,100,20], "lines": [{"spans": [{"content": "hello"}, {"content": "world"}]}]}
			]}
		]
	}`)

	doc, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.TotalPages)
	require.Len(t, doc.Pages[0].Blocks, 1, "empty-text block must be skipped")
	assert.Equal(t, "Item 1", doc.Pages[0].Blocks[0].Text)
	assert.Equal(t, KindTitle, doc.Pages[0].Blocks[0].Kind)
	require.Len(t, doc.Pages[1].Blocks, 1)
	assert.Equal(t, "hello world", doc.Pages[1].Blocks[0].Text)
}

func TestParse_NestedBlocks(t *testing.T) {
	input := []byte(`{
		"pdf_info": [
			{"page_idx": 0, "para_blocks": [
				{"type": "text", "lines": [{"spans": [{"content": "outer"}]}],
				 "blocks": [{"type": "title", "lines": [{"spans": [{"content": "Item 5"}]}]}]}
			]}
		]
	}`)

	doc, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, doc.Pages[0].Blocks, 2)
	assert.Equal(t, "outer", doc.Pages[0].Blocks[0].Text)
	assert.Equal(t, "Item 5", doc.Pages[0].Blocks[1].Text)
	assert.Equal(t, KindTitle, doc.Pages[0].Blocks[1].Kind)
}

func TestParse_MissingPdfInfo(t *testing.T) {
	_, err := Parse([]byte(`{"something_else": []}`))
	require.Error(t, err)
	assert.True(t, domainerr.IsType(err, domainerr.InvalidLayoutInput))
}

func TestParse_MissingPageIdx(t *testing.T) {
	_, err := Parse([]byte(`{"pdf_info": [{"para_blocks": []}]}`))
	require.Error(t, err)
	assert.True(t, domainerr.IsType(err, domainerr.InvalidLayoutInput))
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	require.Error(t, err)
	assert.True(t, domainerr.IsType(err, domainerr.InvalidLayoutInput))
}

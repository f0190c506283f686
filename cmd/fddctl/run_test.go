package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemList_Empty(t *testing.T) {
	items, err := parseItemList("")
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestParseItemList_ParsesCommaSeparated(t *testing.T) {
	items, err := parseItemList("5, 6,20")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 20}, items)
}

func TestParseItemList_RejectsNonNumeric(t *testing.T) {
	_, err := parseItemList("5,abc")
	assert.Error(t, err)
}

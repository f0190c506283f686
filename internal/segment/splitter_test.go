package segment

import (
	"testing"

	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
	"github.com/stretchr/testify/assert"
)

func TestSplit_RejectsStartPageBelowOne(t *testing.T) {
	_, _, err := Split([]byte("dummy"), 0, 5, 10)
	assert.True(t, domainerr.IsType(err, domainerr.InvalidRange))
}

func TestSplit_RejectsEndBeforeStart(t *testing.T) {
	_, _, err := Split([]byte("dummy"), 5, 3, 10)
	assert.True(t, domainerr.IsType(err, domainerr.InvalidRange))
}

func TestSplit_RejectsStartBeyondTotalPages(t *testing.T) {
	_, _, err := Split([]byte("dummy"), 20, 25, 10)
	assert.True(t, domainerr.IsType(err, domainerr.InvalidRange))
}

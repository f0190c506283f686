package segment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
)

// Split extracts the inclusive 1-based page range [startPage, endPage]
// from sourceBytes as a standalone PDF, via pdfcpu's trim operation
// (the pack's only page-range-manipulation library, staged through temp
// files the way the pack's sole pdfcpu consumer does).
//
// A range below page 1, an end before the start, or a start beyond
// total_pages fails with InvalidRange. An end beyond total_pages is
// clamped; the caller is told via the returned clamped flag so it can log
// a warning rather than fail.
func Split(sourceBytes []byte, startPage, endPage, totalPages int) ([]byte, bool, error) {
	if startPage < 1 {
		return nil, false, domainerr.NewInvalidRange(fmt.Sprintf("start_page %d is below 1", startPage), nil)
	}
	if endPage < startPage {
		return nil, false, domainerr.NewInvalidRange(fmt.Sprintf("end_page %d precedes start_page %d", endPage, startPage), nil)
	}
	if startPage > totalPages {
		return nil, false, domainerr.NewInvalidRange(fmt.Sprintf("start_page %d exceeds total_pages %d", startPage, totalPages), nil)
	}

	clamped := false
	if endPage > totalPages {
		endPage = totalPages
		clamped = true
	}

	tmpDir, err := os.MkdirTemp("", "fdd-segment-*")
	if err != nil {
		return nil, false, domainerr.NewIO("failed to create temp directory for segmentation", err)
	}
	defer os.RemoveAll(tmpDir)

	inFile := filepath.Join(tmpDir, "in.pdf")
	outFile := filepath.Join(tmpDir, "out.pdf")
	if err := os.WriteFile(inFile, sourceBytes, 0o644); err != nil {
		return nil, false, domainerr.NewIO("failed to write source PDF to temp file", err)
	}

	selection := []string{fmt.Sprintf("%d-%d", startPage, endPage)}
	conf := model.NewDefaultConfiguration()
	if err := api.TrimFile(inFile, outFile, selection, conf); err != nil {
		return nil, false, domainerr.NewInvalidPDF("pdfcpu failed to trim page range", err)
	}

	out, err := os.ReadFile(outFile)
	if err != nil {
		return nil, false, domainerr.NewIO("failed to read trimmed PDF", err)
	}
	return out, clamped, nil
}

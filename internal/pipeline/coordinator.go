// Package pipeline implements the C8 Pipeline Coordinator: one document
// through layout parsing, section detection, segmentation, persistence,
// and parallel per-section extraction.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
	"github.com/spherical-ai/fdd-pipeline/internal/extract"
	"github.com/spherical-ai/fdd-pipeline/internal/layout"
	"github.com/spherical-ai/fdd-pipeline/internal/monitor"
	"github.com/spherical-ai/fdd-pipeline/internal/observability"
	"github.com/spherical-ai/fdd-pipeline/internal/schema"
	"github.com/spherical-ai/fdd-pipeline/internal/section"
	"github.com/spherical-ai/fdd-pipeline/internal/segment"
	"github.com/spherical-ai/fdd-pipeline/internal/store"
)

const defaultMaxWorkers = 5

// SectionOutcome is one item's final extraction result within a run.
type SectionOutcome struct {
	ItemNo      int
	Status      store.ExtractionStatus
	ModelUsed   string
	NeedsReview bool
	Err         error
}

// RunResult is the coordinator's output for one document.
type RunResult struct {
	FDDID    string
	Status   store.ProcessingStatus
	Sections []SectionOutcome
	Summary  monitor.Snapshot
}

// Request is one document run's inputs.
type Request struct {
	FDDID         string
	FranchiseName string
	LayoutJSON    []byte
	SourcePDF     []byte
	// TargetItems restricts extraction to this set of item numbers; a
	// nil/empty slice means every item with a registered schema.
	TargetItems []int
}

// Coordinator wires C1 (via layout.Parse) through C7 into one document
// run: detect → segment → persist → fan out extraction.
type Coordinator struct {
	logger     *observability.Logger
	detector   *section.Detector
	segmenter  *segment.Segmenter
	store      store.SectionStore
	engine     *extract.Engine
	monitor    *monitor.Monitor
	maxWorkers int
}

// NewCoordinator builds a Coordinator from its component stages.
func NewCoordinator(logger *observability.Logger, detector *section.Detector, segmenter *segment.Segmenter, st store.SectionStore, engine *extract.Engine, mon *monitor.Monitor) *Coordinator {
	return &Coordinator{
		logger:     logger,
		detector:   detector,
		segmenter:  segmenter,
		store:      st,
		engine:     engine,
		monitor:    mon,
		maxWorkers: defaultMaxWorkers,
	}
}

// Run executes C1→C8 for one document. Stage-level errors before
// extraction abort the whole run; per-section extraction failures are
// recovered and reflected in the returned status (partial vs completed).
func (c *Coordinator) Run(ctx context.Context, req Request) (RunResult, error) {
	log := c.logger.WithFDD(req.FDDID)
	result := RunResult{FDDID: req.FDDID, Status: store.FDDFailed}

	doc, err := layout.Parse(req.LayoutJSON)
	if err != nil {
		log.Error().Err(err).Msg("layout parse failed")
		return result, fmt.Errorf("parse layout: %w", err)
	}

	boundaries, err := c.detector.Detect(doc)
	if err != nil {
		log.Error().Err(err).Msg("section detection failed")
		return result, fmt.Errorf("detect sections: %w", err)
	}

	artifacts := c.segmenter.Segment(req.SourcePDF, doc.TotalPages, boundaries)

	if err := c.persistFDD(ctx, req, doc.TotalPages); err != nil {
		return result, fmt.Errorf("persist fdd record: %w", err)
	}
	if err := c.persistArtifacts(ctx, req.FDDID, artifacts); err != nil {
		return result, fmt.Errorf("persist artifacts: %w", err)
	}

	targets := filterTargets(artifacts, req.TargetItems)
	sections := c.runExtractions(ctx, req, targets)

	status := finalStatus(sections)
	completedAt := time.Now()
	if err := c.store.UpdateFDDStatus(ctx, req.FDDID, status, &completedAt); err != nil {
		log.Warn().Err(err).Msg("failed to persist final fdd status")
	}

	result.Status = status
	result.Sections = sections
	result.Summary = c.monitor.Metrics().SessionSummary()
	return result, nil
}

func (c *Coordinator) persistFDD(ctx context.Context, req Request, totalPages int) error {
	var namePtr *string
	if req.FranchiseName != "" {
		namePtr = &req.FranchiseName
	}
	return c.store.UpsertFDD(ctx, store.FDDRecord{
		ID:               req.FDDID,
		FranchiseName:    namePtr,
		TotalPages:       totalPages,
		ProcessingStatus: store.FDDProcessing,
		CreatedAt:        time.Now(),
	})
}

func (c *Coordinator) persistArtifacts(ctx context.Context, fddID string, artifacts []segment.Artifact) error {
	for _, a := range artifacts {
		record := store.SectionRecord{
			FDDID:            fddID,
			ItemNo:           a.ItemNo,
			StartPage:        a.StartPage,
			EndPage:          a.EndPage,
			Bytes:            a.Bytes,
			NeedsReview:      a.NeedsReview,
			ExtractionStatus: store.StatusPending,
			CreatedAt:        time.Now(),
		}
		if a.Validation != nil {
			record.IsValid = a.Validation.IsValid
			record.QualityScore = a.Validation.QualityScore
			record.PageCount = a.Validation.PageCount
			record.ByteSize = a.Validation.ByteSize
			record.HasText = a.Validation.HasText
			record.TextSample = a.Validation.TextSample
		}
		if err := c.store.UpsertArtifact(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func filterTargets(artifacts []segment.Artifact, targetItems []int) []segment.Artifact {
	wanted := make(map[int]bool, len(targetItems))
	for _, n := range targetItems {
		wanted[n] = true
	}
	restrict := len(targetItems) > 0

	out := make([]segment.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if !schema.HasSchema(a.ItemNo) {
			continue
		}
		if restrict && !wanted[a.ItemNo] {
			continue
		}
		out = append(out, a)
	}
	return out
}

// runExtractions fans out one worker per artifact up to maxWorkers,
// following the teacher's buffered work-channel + sync.WaitGroup +
// mutex-guarded results shape.
func (c *Coordinator) runExtractions(ctx context.Context, req Request, targets []segment.Artifact) []SectionOutcome {
	if len(targets) == 0 {
		return nil
	}

	workChan := make(chan segment.Artifact, len(targets))
	for _, a := range targets {
		workChan <- a
	}
	close(workChan)

	results := make([]SectionOutcome, 0, len(targets))
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := c.maxWorkers
	if workers > len(targets) {
		workers = len(targets)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for artifact := range workChan {
				var outcome SectionOutcome
				if ctx.Err() != nil {
					outcome = c.cancelOne(req, artifact, ctx.Err())
				} else {
					outcome = c.runOne(ctx, req, artifact)
				}
				mu.Lock()
				results = append(results, outcome)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return results
}

// cancelOne marks a queued-but-unstarted artifact as cancelled without
// attempting extraction. The persisted status write uses a fresh
// background context since ctx is already done.
func (c *Coordinator) cancelOne(req Request, artifact segment.Artifact, cause error) SectionOutcome {
	outcome := SectionOutcome{
		ItemNo:      artifact.ItemNo,
		NeedsReview: artifact.NeedsReview,
		Status:      store.StatusCancelled,
		Err:         domainerr.NewCancelled("run cancelled before section started", cause),
	}
	_ = c.recordStatus(context.Background(), req.FDDID, artifact.ItemNo, store.StatusCancelled, nil, outcome.Err)
	return outcome
}

func (c *Coordinator) runOne(ctx context.Context, req Request, artifact segment.Artifact) SectionOutcome {
	outcome := SectionOutcome{ItemNo: artifact.ItemNo, NeedsReview: artifact.NeedsReview}

	if ctx.Err() != nil {
		return c.cancelOne(req, artifact, ctx.Err())
	}

	text, err := segment.ExtractText(artifact.Bytes)
	if err != nil {
		outcome.Status = store.StatusFailed
		outcome.Err = err
		_ = c.recordStatus(ctx, req.FDDID, artifact.ItemNo, store.StatusFailed, nil, err)
		return outcome
	}

	extraction := c.monitor.Measure(ctx, req.FDDID, artifact.ItemNo, func() monitor.Extraction {
		res := c.engine.Extract(ctx, extract.Input{
			FDDID:          req.FDDID,
			ItemNo:         artifact.ItemNo,
			SectionContent: text,
			FranchiseName:  req.FranchiseName,
		})
		return monitor.Extraction{ModelUsed: res.ModelUsed, Status: res.Status, RawContent: res.RawContent, Err: res.Err}
	})

	outcome.Status = extraction.Status
	outcome.Err = extraction.Err
	if extraction.ModelUsed != nil {
		outcome.ModelUsed = string(*extraction.ModelUsed)
	}

	var modelPtr *string
	if extraction.ModelUsed != nil {
		s := string(*extraction.ModelUsed)
		modelPtr = &s
	}
	var errMsg *string
	if extraction.Err != nil {
		s := extraction.Err.Error()
		errMsg = &s
	}
	extractedAt := time.Now()
	if err := c.store.UpdateStatus(ctx, req.FDDID, artifact.ItemNo, extraction.Status, modelPtr, errMsg, &extractedAt); err != nil {
		c.logger.WithFDD(req.FDDID).WithItem(artifact.ItemNo).Warn().Err(err).Msg("failed to persist section status")
	}
	return outcome
}

func (c *Coordinator) recordStatus(ctx context.Context, fddID string, itemNo int, status store.ExtractionStatus, model *string, err error) error {
	var errMsg *string
	if err != nil {
		s := err.Error()
		errMsg = &s
	}
	now := time.Now()
	return c.store.UpdateStatus(ctx, fddID, itemNo, status, model, errMsg, &now)
}

// finalStatus applies §4.8's partial-failure semantics: completed if
// every targeted section succeeded, partial if some failed, failed only
// if none succeeded (skipped sections don't count against completion).
// Cancelled sections count against completion the same as failed ones.
func finalStatus(sections []SectionOutcome) store.ProcessingStatus {
	if len(sections) == 0 {
		return store.FDDCompleted
	}

	var succeeded, failed int
	for _, s := range sections {
		switch s.Status {
		case store.StatusSuccess:
			succeeded++
		case store.StatusFailed, store.StatusCancelled:
			failed++
		}
	}

	switch {
	case failed == 0:
		return store.FDDCompleted
	case succeeded == 0:
		return store.FDDFailed
	default:
		return store.FDDPartial
	}
}

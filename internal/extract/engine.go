// Package extract implements the C6 Extraction Engine: prompt assembly,
// model invocation across a fallback chain, and schema validation.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
	"github.com/spherical-ai/fdd-pipeline/internal/modelclient"
	"github.com/spherical-ai/fdd-pipeline/internal/observability"
	"github.com/spherical-ai/fdd-pipeline/internal/prompt"
	"github.com/spherical-ai/fdd-pipeline/internal/router"
	"github.com/spherical-ai/fdd-pipeline/internal/schema"
	"github.com/spherical-ai/fdd-pipeline/internal/store"
)

const (
	defaultTemperature = 0.1
	defaultCallTimeout = 60 * time.Second
)

// Input is one section's extraction request.
type Input struct {
	FDDID          string
	ItemNo         int
	SectionContent string
	FranchiseName  string
}

// Result is the outcome of one extraction attempt chain for a section.
type Result struct {
	ItemNo     int
	Status     store.ExtractionStatus
	ModelUsed  *router.ModelHandle
	Parsed     any
	RawContent string
	Err        error
}

// Engine ties the prompt catalog, router, and model backends together
// to produce a typed ExtractionResult per section.
type Engine struct {
	logger      *observability.Logger
	catalog     *prompt.Catalog
	router      *router.Router
	backends    map[router.ModelHandle]modelclient.Backend
	callTimeout time.Duration
}

// NewEngine builds an Engine. backends must contain one entry per
// handle the router can select; a handle the router selects with no
// matching backend is treated as unreachable for that attempt.
func NewEngine(logger *observability.Logger, catalog *prompt.Catalog, r *router.Router, backends map[router.ModelHandle]modelclient.Backend) *Engine {
	return &Engine{logger: logger, catalog: catalog, router: r, backends: backends, callTimeout: defaultCallTimeout}
}

// Extract runs the full per-item invocation contract (§4.6): prompt
// assembly, ordered fallback-chain attempts, schema validation. The
// per-section timeout is 3x the per-model call timeout.
func (e *Engine) Extract(ctx context.Context, in Input) Result {
	res := Result{ItemNo: in.ItemNo, Status: store.StatusSkipped}

	scoped := e.logger.With().Int("item_no", in.ItemNo).Str("fdd_id", in.FDDID).Logger()

	if ctx.Err() != nil {
		res.Status = store.StatusCancelled
		res.Err = domainerr.NewCancelled("extraction cancelled before starting", ctx.Err())
		return res
	}

	if !schema.HasSchema(in.ItemNo) || !e.catalog.Has(in.ItemNo) {
		scoped.Info().Msg("skipping item with no registered schema or template")
		return res
	}
	if strings.TrimSpace(in.SectionContent) == "" {
		scoped.Warn().Msg("no text content")
		res.Status = store.StatusFailed
		res.Err = domainerr.NewValidation("no text content", nil)
		return res
	}

	systemPrompt, userPrompt, err := e.catalog.Render(in.ItemNo, prompt.Variables{
		SectionContent: in.SectionContent,
		FranchiseName:  in.FranchiseName,
	})
	if err != nil {
		res.Status = store.StatusFailed
		res.Err = err
		return res
	}

	sectionCtx, cancel := context.WithTimeout(ctx, 3*e.callTimeout)
	defer cancel()

	chain := e.router.FallbackChain(in.ItemNo)
	var lastErr error
	for _, handle := range chain {
		if ctx.Err() != nil {
			res.Status = store.StatusCancelled
			res.Err = domainerr.NewCancelled("extraction cancelled", ctx.Err())
			return res
		}

		backend, ok := e.backends[handle]
		if !ok {
			continue
		}

		if err := e.router.Acquire(sectionCtx); err != nil {
			if ctx.Err() != nil {
				res.Status = store.StatusCancelled
				res.Err = domainerr.NewCancelled("extraction cancelled while acquiring router slot", ctx.Err())
				return res
			}
			res.Status = store.StatusFailed
			res.Err = err
			return res
		}

		resp, attemptErr := backend.Extract(sectionCtx, modelclient.Request{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Temperature:  defaultTemperature,
		})
		e.router.Release()

		if attemptErr != nil {
			if ctx.Err() != nil {
				res.Status = store.StatusCancelled
				res.Err = domainerr.NewCancelled("extraction cancelled", ctx.Err())
				return res
			}
			e.router.RecordFailure(handle)
			lastErr = attemptErr
			continue
		}

		parsed, validateErr := schema.ParseAndValidate(in.ItemNo, resp.Content)
		if validateErr != nil {
			e.router.RecordFailure(handle)
			lastErr = validateErr
			continue
		}

		e.router.RecordSuccess(handle)
		h := handle
		res.Status = store.StatusSuccess
		res.ModelUsed = &h
		res.Parsed = parsed
		res.RawContent = resp.Content
		return res
	}

	res.Status = store.StatusFailed
	res.Err = lastErr
	return res
}

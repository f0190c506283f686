package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spherical-ai/fdd-pipeline/internal/monitor"
	"github.com/spherical-ai/fdd-pipeline/internal/pipeline"
	"github.com/spherical-ai/fdd-pipeline/internal/prompt"
	"github.com/spherical-ai/fdd-pipeline/internal/router"
	"github.com/spherical-ai/fdd-pipeline/internal/section"
	"github.com/spherical-ai/fdd-pipeline/internal/segment"
	"github.com/spherical-ai/fdd-pipeline/internal/store"
)

// newRunCmd creates the run subcommand.
func newRunCmd() *cobra.Command {
	var (
		franchiseName string
		itemsFlag     string
		fddID         string
	)

	cmd := &cobra.Command{
		Use:   "run <pdf> <layout-json>",
		Short: "Run one FDD through layout parsing, segmentation, and extraction",
		Long: `Run executes C1 through C8 for a single document: parses the
layout JSON produced by upstream OCR, detects item boundaries, segments
the source PDF, persists sections, and extracts every targeted item
across the model fallback chain.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ui.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			pdfPath, layoutPath := args[0], args[1]

			ui.Section("FDD Extraction")
			ui.Step("Reading input files")
			sourcePDF, err := os.ReadFile(pdfPath)
			if err != nil {
				ui.Error("failed to read PDF: %v", err)
				return fmt.Errorf("read pdf: %w", err)
			}
			layoutJSON, err := os.ReadFile(layoutPath)
			if err != nil {
				ui.Error("failed to read layout JSON: %v", err)
				return fmt.Errorf("read layout json: %w", err)
			}
			ui.Info("PDF: %s", FormatBytes(int64(len(sourcePDF))))
			ui.Info("Layout: %s", FormatBytes(int64(len(layoutJSON))))

			if fddID == "" {
				fddID = uuid.New().String()
			}

			targetItems, err := parseItemList(itemsFlag)
			if err != nil {
				ui.Error("invalid --items: %v", err)
				return err
			}

			ui.Step("Initializing pipeline components")
			coordinator, closeFn, err := buildCoordinator(ctx)
			if err != nil {
				ui.Error("failed to initialize pipeline: %v", err)
				return fmt.Errorf("build coordinator: %w", err)
			}
			defer closeFn()
			ui.Success("Pipeline ready")

			logger.Info().
				Str("fdd_id", fddID).
				Str("pdf", pdfPath).
				Str("layout", layoutPath).
				Msg("starting run")

			ui.Newline()
			spinner := ui.Spinner("Extracting")
			result, err := coordinator.Run(ctx, pipeline.Request{
				FDDID:         fddID,
				FranchiseName: franchiseName,
				LayoutJSON:    layoutJSON,
				SourcePDF:     sourcePDF,
				TargetItems:   targetItems,
			})
			if spinner != nil {
				spinner.SetCurrent(100)
			}
			if err != nil {
				ui.Error("run failed: %v", err)
				return fmt.Errorf("run: %w", err)
			}

			return renderResult(result)
		},
	}

	cmd.Flags().StringVar(&franchiseName, "franchise-name", "", "franchise name, recorded with the FDD")
	cmd.Flags().StringVar(&itemsFlag, "items", "", "comma-separated item numbers to extract (default: every item with a schema)")
	cmd.Flags().StringVar(&fddID, "fdd-id", "", "FDD identifier (default: generated UUID)")

	return cmd
}

func parseItemList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	items := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid item number %q: %w", p, err)
		}
		items = append(items, n)
	}
	return items, nil
}

// buildCoordinator wires every component stage from the loaded config,
// returning a cleanup func that closes the store and any monitor cache.
func buildCoordinator(ctx context.Context) (*pipeline.Coordinator, func(), error) {
	var sectionStore store.SectionStore
	var closeStore func() error

	switch cfg.Store.Driver {
	case "sqlite":
		sqliteStore, err := store.OpenSQLiteSectionStore(cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		sectionStore = sqliteStore
		closeStore = sqliteStore.Close
	default:
		sectionStore = store.NewMemorySectionStore()
		closeStore = func() error { return nil }
	}

	catalog, err := prompt.LoadCatalog(cfg.PromptCatalog)
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("load prompt catalog: %w", err)
	}

	backends := buildBackends(cfg)
	rtr := router.NewRouter(routerConfig(cfg), availability(backends))

	var snapshotCache monitor.SnapshotCache
	var closeCache func() error
	if cfg.Observability.RedisURL != "" {
		redisCache, err := monitor.NewRedisSnapshotCache(cfg.Observability.RedisURL, "", 0)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis snapshot cache, continuing without it")
		} else {
			snapshotCache = redisCache
			closeCache = redisCache.Close
		}
	}

	mon := monitor.NewMonitor(logger, snapshotCache)
	eng := newEngine(catalog, rtr, backends)
	detector := section.NewDetector(logger)
	segmenter := segment.NewSegmenter(logger)

	coordinator := pipeline.NewCoordinator(logger, detector, segmenter, sectionStore, eng, mon)

	cleanup := func() {
		if err := closeStore(); err != nil {
			logger.Warn().Err(err).Msg("error closing section store")
		}
		if closeCache != nil {
			if err := closeCache(); err != nil {
				logger.Warn().Err(err).Msg("error closing snapshot cache")
			}
		}
	}
	return coordinator, cleanup, nil
}

func renderResult(result pipeline.RunResult) error {
	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"fddId":    result.FDDID,
			"status":   string(result.Status),
			"sections": sectionRows(result.Sections),
			"summary": map[string]interface{}{
				"totalCalls":   result.Summary.TotalCalls,
				"successCount": result.Summary.SuccessCount,
				"failedCount":  result.Summary.FailedCount,
				"skippedCount": result.Summary.SkippedCount,
				"meanLatencyMs": result.Summary.MeanLatencyMS,
			},
		})
	}

	ui.Newline()
	ui.Section("Results")
	switch result.Status {
	case "completed":
		ui.Success("Run completed: %s", result.FDDID)
	case "partial":
		ui.Warning("Run partially completed: %s", result.FDDID)
	default:
		ui.Error("Run failed: %s", result.FDDID)
	}
	ui.Newline()

	rows := make([][]string, 0, len(result.Sections))
	for _, s := range result.Sections {
		review := ""
		if s.NeedsReview {
			review = "yes"
		}
		errMsg := ""
		if s.Err != nil {
			errMsg = s.Err.Error()
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.ItemNo),
			string(s.Status),
			s.ModelUsed,
			review,
			errMsg,
		})
	}
	ui.Table([]string{"Item", "Status", "Model", "Needs Review", "Error"}, rows)

	ui.Newline()
	ui.Info("Total calls: %d, successes: %d, failed: %d, skipped: %d, mean latency: %dms",
		result.Summary.TotalCalls, result.Summary.SuccessCount, result.Summary.FailedCount,
		result.Summary.SkippedCount, result.Summary.MeanLatencyMS)

	return nil
}

func sectionRows(sections []pipeline.SectionOutcome) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(sections))
	for _, s := range sections {
		row := map[string]interface{}{
			"itemNo":      s.ItemNo,
			"status":      string(s.Status),
			"modelUsed":   s.ModelUsed,
			"needsReview": s.NeedsReview,
		}
		if s.Err != nil {
			row["error"] = s.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spherical-ai/fdd-pipeline/internal/observability"
	"github.com/spherical-ai/fdd-pipeline/internal/pipeline"
)

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve exposes the pipeline through a small HTTP API: submit a
run with its PDF and layout JSON, then poll for its status and results.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = fmt.Sprintf(":%d", cfg.Server.Port)
			}

			handler, err := newAPIHandler()
			if err != nil {
				return fmt.Errorf("build api handler: %w", err)
			}

			logger.Info().Str("addr", addr).Msg("starting fddctl server")
			srv := &http.Server{Addr: addr, Handler: handler}
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: :<server.port> from config)")
	return cmd
}

// runJob tracks one submitted run's lifecycle for polling.
type runJob struct {
	ID        string              `json:"id"`
	Status    string              `json:"status"` // queued, running, completed, partial, failed
	Result    *pipeline.RunResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

// jobStore is an in-memory registry of submitted runs, mirroring the
// knowledge-engine API's typed-handler-holds-its-dependencies shape but
// scoped to this process's lifetime only.
type jobStore struct {
	mu   sync.Mutex
	jobs map[string]*runJob
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]*runJob)}
}

func (s *jobStore) put(job *runJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *jobStore) get(id string) (*runJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	return j, ok
}

// runsHandler handles /v1/runs submission and polling.
type runsHandler struct {
	logger *observability.Logger
	jobs   *jobStore
}

type submitRunRequest struct {
	FDDID         string `json:"fddId"`
	FranchiseName string `json:"franchiseName"`
	LayoutJSON    string `json:"layoutJson"` // raw JSON text, not base64
	SourcePDFB64  string `json:"sourcePdfBase64"`
	TargetItems   []int  `json:"targetItems,omitempty"`
}

func (h *runsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.LayoutJSON == "" || req.SourcePDFB64 == "" {
		writeError(w, http.StatusBadRequest, "layoutJson and sourcePdfBase64 are required", "")
		return
	}

	fddID := req.FDDID
	if fddID == "" {
		fddID = uuid.New().String()
	}

	job := &runJob{ID: fddID, Status: "queued", CreatedAt: time.Now()}
	h.jobs.put(job)

	go h.execute(job, req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(job)
}

func (h *runsHandler) execute(job *runJob, req submitRunRequest) {
	job.Status = "running"

	sourcePDF, err := decodeBase64(req.SourcePDFB64)
	if err != nil {
		job.Status = "failed"
		job.Error = fmt.Sprintf("decode source pdf: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	coordinator, cleanup, err := buildCoordinator(ctx)
	if err != nil {
		job.Status = "failed"
		job.Error = fmt.Sprintf("build coordinator: %v", err)
		return
	}
	defer cleanup()

	result, err := coordinator.Run(ctx, pipeline.Request{
		FDDID:         job.ID,
		FranchiseName: req.FranchiseName,
		LayoutJSON:    []byte(req.LayoutJSON),
		SourcePDF:     sourcePDF,
		TargetItems:   req.TargetItems,
	})
	if err != nil {
		job.Status = "failed"
		job.Error = err.Error()
		return
	}

	job.Status = string(result.Status)
	job.Result = &result
}

func (h *runsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := h.jobs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "run not found", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(job)
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// newAPIHandler builds the chi router, mirroring the knowledge-engine
// API's middleware stack and route-grouping style.
func newAPIHandler() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"fddctl"}`))
	})

	runs := &runsHandler{logger: logger, jobs: newJobStore()}
	r.Route("/v1/runs", func(r chi.Router) {
		r.Post("/", runs.Submit)
		r.Get("/{id}", runs.Get)
	})

	return r, nil
}

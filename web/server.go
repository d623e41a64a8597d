// Package web exposes the lead pipeline over HTTP: a synchronous
// pipeline endpoint plus run history with JSON and CSV views.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow/leads"
	"github.com/leadflow/leadflow/scraper"
	"github.com/leadflow/leadflow/store"
)

// maxBodyBytes caps request bodies, matching MaxHeaderBytes.
const maxBodyBytes = 1 << 20

// Pipeline enriches a scraped batch in place.
type Pipeline interface {
	Run(ctx context.Context, st *leads.State)
}

// Server hosts the HTTP API.
type Server struct {
	srv      *http.Server
	scraper  scraper.Scraper
	pipeline Pipeline
	runs     *store.Store
}

// New builds the server with its routes mounted.
func New(scr scraper.Scraper, pipeline Pipeline, runs *store.Store, addr string) *Server {
	s := &Server{
		scraper:  scr,
		pipeline: pipeline,
		runs:     runs,
		srv: &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      15 * time.Minute,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/pipeline", s.runPipeline)
		r.Get("/runs", s.listRuns)
		r.Get("/runs/{id}", s.getRun)
		r.Delete("/runs/{id}", s.deleteRun)
		r.Get("/runs/{id}/csv", s.runCSV)
	})

	s.srv.Handler = r

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.srv.Shutdown(context.Background()); err != nil {
			zap.L().Error("server shutdown", zap.Error(err))

			return
		}

		zap.L().Info("server stopped")
	}()

	zap.L().Info("server listening", zap.String("addr", s.srv.Addr))

	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type pipelineRequest struct {
	SearchQuery string `json:"search_query"`
	MaxLinks    int    `json:"max_links"`
}

type pipelineResponse struct {
	RunID      string           `json:"run_id"`
	Businesses []leads.Business `json:"businesses"`
}

// runPipeline executes scrape plus enrichment synchronously and
// persists the result as a run. A scraper failure is fatal for the
// request; enrichment failures degrade individual records instead.
func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request) {
	var req pipelineRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, apiError{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})

		return
	}

	if req.SearchQuery == "" {
		renderJSON(w, http.StatusUnprocessableEntity, apiError{
			Code:    http.StatusUnprocessableEntity,
			Message: "search_query is required",
		})

		return
	}

	if req.MaxLinks <= 0 {
		req.MaxLinks = 10
	}

	ctx := r.Context()

	businesses, err := s.scraper.Scrape(ctx, req.SearchQuery, req.MaxLinks)
	if err != nil {
		renderJSON(w, http.StatusBadGateway, apiError{
			Code:    http.StatusBadGateway,
			Message: fmt.Sprintf("scrape failed: %s", err),
		})

		return
	}

	st := &leads.State{
		SearchQuery: req.SearchQuery,
		MaxLinks:    req.MaxLinks,
		Businesses:  businesses,
	}

	s.pipeline.Run(ctx, st)

	run := store.Run{
		ID:         uuid.New().String(),
		Query:      req.SearchQuery,
		MaxLinks:   req.MaxLinks,
		Status:     store.StatusDone,
		CreatedAt:  time.Now().UTC(),
		Businesses: st.Businesses,
	}

	if err := s.runs.Save(ctx, run); err != nil {
		zap.L().Error("run persist failed", zap.String("run", run.ID), zap.Error(err))
	}

	renderJSON(w, http.StatusOK, pipelineResponse{
		RunID:      run.ID,
		Businesses: st.Businesses,
	})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.All(r.Context())
	if err != nil {
		renderJSON(w, http.StatusInternalServerError, apiError{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})

		return
	}

	if runs == nil {
		runs = []store.Run{}
	}

	renderJSON(w, http.StatusOK, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.fetchRun(w, r)
	if !ok {
		return
	}

	renderJSON(w, http.StatusOK, run)
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	id, ok := parseRunID(w, r)
	if !ok {
		return
	}

	err := s.runs.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		renderJSON(w, http.StatusNotFound, apiError{
			Code:    http.StatusNotFound,
			Message: http.StatusText(http.StatusNotFound),
		})

		return
	}

	if err != nil {
		renderJSON(w, http.StatusInternalServerError, apiError{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) runCSV(w http.ResponseWriter, r *http.Request) {
	run, ok := s.fetchRun(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", run.ID))
	w.Header().Set("Content-Type", "text/csv")

	if err := leads.WriteCSV(w, run.Businesses); err != nil {
		zap.L().Error("csv export failed", zap.String("run", run.ID), zap.Error(err))
	}
}

func (s *Server) fetchRun(w http.ResponseWriter, r *http.Request) (store.Run, bool) {
	id, ok := parseRunID(w, r)
	if !ok {
		return store.Run{}, false
	}

	run, err := s.runs.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		renderJSON(w, http.StatusNotFound, apiError{
			Code:    http.StatusNotFound,
			Message: http.StatusText(http.StatusNotFound),
		})

		return store.Run{}, false
	}

	if err != nil {
		renderJSON(w, http.StatusInternalServerError, apiError{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})

		return store.Run{}, false
	}

	return run, true
}

func parseRunID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")

	parsed, err := uuid.Parse(id)
	if err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, apiError{
			Code:    http.StatusUnprocessableEntity,
			Message: "Invalid ID",
		})

		return "", false
	}

	return parsed.String(), true
}

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(data)
}

// Package api exposes the rank tracker over HTTP.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rankwatch/internal/domain"
	"rankwatch/internal/report"
	"rankwatch/internal/stats"
)

// Service is the subset of service.Tracker the handlers call.
type Service interface {
	CheckNow(ctx context.Context) (*domain.CheckResult, error)
	RecordManual(ctx context.Context, in domain.RankInput) (*domain.RecordResult, error)
	Harvest(ctx context.Context, in domain.RankInput) (*domain.RecordResult, error)
	Current(ctx context.Context) (*domain.RankSnapshot, error)
	History(ctx context.Context, days, limit int) ([]domain.RankHistoryEntry, error)
	Statistics(ctx context.Context, days int) (*stats.Window, error)
	UpdateHistory(ctx context.Context, id int64, in domain.RankInput) (*domain.RankHistoryEntry, error)
	DeleteHistory(ctx context.Context, id int64) error
	BuildReport(ctx context.Context) (*report.Notification, error)
	SendReport(ctx context.Context) (*report.Notification, error)
}

type Handler struct {
	svc     Service
	token   string
	timeout time.Duration
	logger  *slog.Logger
}

// New returns a Handler. An empty token disables bearer authentication.
func New(svc Service, token string, logger *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		token:   token,
		timeout: 60 * time.Second,
		logger:  logger.With("component", "api"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.timeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/api/rank", func(r chi.Router) {
		r.Use(h.requireToken)

		r.Get("/current", h.handleCurrent)
		r.Get("/history", h.handleHistory)
		r.Get("/stats", h.handleStats)
		r.Post("/check", h.handleCheck)
		r.Post("/manual", h.handleManual)
		r.Post("/harvest", h.handleHarvest)
		r.Post("/report", h.handleReport)

		r.Put("/history/{id}", h.handleUpdateHistory)
		r.Delete("/history/{id}", h.handleDeleteHistory)
	})

	return r
}

func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			writeJSON(w, http.StatusUnauthorized, errorBody{Message: "missing or invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidManualInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, errorBody{Message: err.Error()})
}

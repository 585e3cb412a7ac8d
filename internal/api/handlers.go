package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rankwatch/internal/domain"
)

const maxBody = 64 << 10

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Current(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if snap == nil {
		h.writeError(w, r, fmt.Errorf("%w: no rank recorded yet", domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	entries, err := h.svc.History(r.Context(), days, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.RankHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	window, err := h.svc.Statistics(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, window)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.CheckNow(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleManual(w http.ResponseWriter, r *http.Request) {
	var in domain.RankInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&in); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidManualInput, err))
		return
	}

	res, err := h.svc.RecordManual(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleHarvest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidManualInput, err))
		return
	}
	in, err := parseHarvest(body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Harvest(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleReport sends the report; ?dry_run=true only renders it.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if dry, _ := strconv.ParseBool(r.URL.Query().Get("dry_run")); dry {
		n, err := h.svc.BuildReport(r.Context())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
		return
	}

	n, err := h.svc.SendReport(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) handleUpdateHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in domain.RankInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&in); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidManualInput, err))
		return
	}

	entry, err := h.svc.UpdateHistory(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteHistory(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidManualInput, name)
	}
	return v, nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid history id", domain.ErrInvalidManualInput)
	}
	return id, nil
}

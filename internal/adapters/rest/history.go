package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

const maxHistoryLimit = 100

// History handles GET /recommendations?limit=
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeServiceError(w, &domain.InvalidInputError{Field: "limit", Value: raw})
			return
		}
		limit = n
	}

	recs, err := h.svc.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// GetRecommendation handles GET /recommendations/{id}
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Recommendation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// AnalysedTracks handles GET /recommendations/{id}/tracks
func (h *Handler) AnalysedTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.svc.AnalysedTracks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

package rest

import (
	"net/http"
)

type interpretRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// Interpret handles POST /intent
func (h *Handler) Interpret(w http.ResponseWriter, r *http.Request) {
	var req interpretRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.svc.Interpret(r.Context(), req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

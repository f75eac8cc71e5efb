package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"communityBack/internal/logging"
	"communityBack/internal/models"
	"communityBack/internal/services"
)

// ModerationHandler sets approval status on either listing kind.
type ModerationHandler struct {
	Services map[models.ListingKind]*services.ListingService
	Logger   logging.Logger
}

func (h *ModerationHandler) SetApprovalStatus(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseListingKind(getParam(r, "kind"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	svc, ok := h.Services[kind]
	if !ok {
		badRequest(w, "unsupported listing kind")
		return
	}
	id, ok := parseID(r)
	if !ok {
		badRequest(w, "invalid listing id")
		return
	}

	var req models.ListingStatusRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := svc.SetApprovalStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "kind": kind, "status": req.Status})
}

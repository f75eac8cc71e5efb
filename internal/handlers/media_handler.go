package handlers

import (
	stderrors "errors"
	"io"
	"net/http"

	"communityBack/internal/logging"
	"communityBack/internal/models"
	"communityBack/internal/services"
)

type MediaHandler struct {
	Service *services.MediaService
	Logger  logging.Logger
}

type mediaResponse struct {
	URL string `json:"url"`
}

// Upload takes a multipart "file" and an optional "kind" form value that
// picks the storage folder.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxMediaSize+maxBodySize)
	if err := r.ParseMultipartForm(services.MaxMediaSize); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file is too large"})
			return
		}
		badRequest(w, "invalid multipart form")
		return
	}

	folder := "media"
	if raw := r.FormValue("kind"); raw != "" {
		kind, err := models.ParseListingKind(raw)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		folder = string(kind)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxMediaSize+1))
	if err != nil {
		badRequest(w, "failed to read file")
		return
	}

	url, err := h.Service.UploadImage(r.Context(), folder, data)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, mediaResponse{URL: url})
}

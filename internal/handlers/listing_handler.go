package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"communityBack/internal/logging"
	"communityBack/internal/models"
	"communityBack/internal/services"
)

const maxBodySize = 1 << 20

// ListingHandler serves one listing kind: /market or /properties.
type ListingHandler struct {
	Service *services.ListingService
	Logger  logging.Logger
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(getParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// GetListings filters by query string: search, category, price_min,
// price_max, location, bedrooms, tags, amenities.
func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, models.FilterStateFromQuery(r.URL.Query()))
}

// GetFilteredListingsPost filters by a JSON FilterState body. An empty body
// means no filters.
func (h *ListingHandler) GetFilteredListingsPost(w http.ResponseWriter, r *http.Request) {
	state := models.FilterState{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&state); err != nil && !stderrors.Is(err, io.EOF) {
		badRequest(w, "invalid filter body")
		return
	}
	h.respondList(w, r, state)
}

func (h *ListingHandler) respondList(w http.ResponseWriter, r *http.Request, state models.FilterState) {
	cards, err := h.Service.Search(r.Context(), state)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ListingListResponse{Kind: h.Service.Kind(), Listings: cards})
}

func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		badRequest(w, "invalid listing id")
		return
	}

	listing, err := h.Service.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	var listing models.Listing
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&listing); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := h.Service.CreateListing(r.Context(), actor, listing)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	id, ok := parseID(r)
	if !ok {
		badRequest(w, "invalid listing id")
		return
	}

	if err := h.Service.DeleteListing(r.Context(), actor, id); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/navlog/internal/config"
	"github.com/yegors/navlog/internal/extraction"
	"github.com/yegors/navlog/internal/release"
	"github.com/yegors/navlog/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	release   *release.Service
	extractor extraction.Extractor
	config    *config.Config
	logger    *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(releaseService *release.Service, extractor extraction.Extractor, config *config.Config, logger *logger.Logger) *Handler {
	return &Handler{
		release:   releaseService,
		extractor: extractor,
		config:    config,
		logger:    logger.Named("api-handler"),
	}
}

// entryRequest is the body for pilot time/fuel entries
type entryRequest struct {
	Time string `json:"time"`
	Fuel string `json:"fuel"`
}

// SubmitRelease accepts a pre-extracted positioned-token result and replaces
// the current release with it
func (h *Handler) SubmitRelease(w http.ResponseWriter, r *http.Request) {
	var result extraction.Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid extraction result: "+err.Error())
		return
	}

	if err := h.release.SubmitDocument(&result); err != nil {
		// Structural parse failures are surfaced to the caller verbatim;
		// the previous release state is untouched.
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, h.release.Snapshot())
}

// ExtractAndSubmit pushes a raw document body through the extraction service
// and submits the result
func (h *Handler) ExtractAndSubmit(w http.ResponseWriter, r *http.Request) {
	if h.extractor == nil {
		h.respondError(w, http.StatusServiceUnavailable, "extraction service not configured")
		return
	}

	result, err := h.extractor.Extract(r.Context(), r.Body)
	if err != nil {
		h.respondError(w, http.StatusBadGateway, "extraction failed: "+err.Error())
		return
	}

	if err := h.release.SubmitDocument(result); err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, h.release.Snapshot())
}

// GetNavlog returns the current derived navlog snapshot
func (h *Handler) GetNavlog(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.release.Snapshot())
}

// SetActualTakeoff records the pilot-entered takeoff time and fuel
func (h *Handler) SetActualTakeoff(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.release.SetActualTakeoff(req.Time, req.Fuel); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, h.release.Snapshot())
}

// SetActualWaypoint records a pilot-entered arrival time and fuel for one
// waypoint
func (h *Handler) SetActualWaypoint(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid waypoint index")
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.release.SetActualWaypoint(index, req.Time, req.Fuel); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, h.release.Snapshot())
}

// GetHealth returns the service health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// GetConfig returns the non-sensitive configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"parsing": h.config.Parsing,
	})
}

// respondJSON writes a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

// respondError writes a JSON error response
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

package httpadapter

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adl-tracker/internal/core/port"
)

// pixelGIF is the 1x1 transparent GIF returned by the tracking endpoints.
var pixelGIF, _ = base64.StdEncoding.DecodeString(
	"R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7")

// Handler is the inbound HTTP adapter. It holds the Tracker to execute
// business logic and a logger for structured logging. Routes are
// registered on a chi.Router for convenient method handling.
type Handler struct {
	svc    port.Tracker
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.Tracker, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		r.Post("/campaigns", h.handleCreateCampaign)
		r.Get("/campaigns", h.handleListCampaigns)
		r.Get("/campaigns/{code}", h.handleGetCampaign)
		r.Patch("/campaigns/{code}", h.handleUpdateCampaign)
		r.Delete("/campaigns/{code}", h.handleDeleteCampaign)

		r.Get("/track/{code}", h.handleTrackPixel)
		r.Post("/track/{code}", h.handleTrackEvent)
		r.Post("/convert/{code}", h.handleConvert)

		r.Get("/analytics", h.handleAnalyticsBulk)
		r.Get("/analytics/{code}", h.handleAnalytics)
		r.Get("/analytics/{code}/breakdown", h.handleBreakdown)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// writeJSON encodes v with the given status. Encoding failures are
// logged; the status line has already been sent at that point.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeError maps the error taxonomy to HTTP statuses. Internal details
// are logged, never echoed to the caller.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, port.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, port.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, port.ErrUnavailable):
		h.logger.Error("store unavailable", slog.Any("error", err))
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writePixel sends the 1x1 GIF with no-cache headers.
func writePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	_, _ = w.Write(pixelGIF)
}

package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

// handleTrackPixel records a click for the code embedded in the pixel URL
// and always answers with the 1x1 GIF, whatever happens server-side. The
// response must not reveal whether the code is valid, and a broken store
// must never break page rendering.
func (h *Handler) handleTrackPixel(w http.ResponseWriter, r *http.Request) {
	_ = h.svc.RecordEvent(r.Context(), port.RecordEventReq{
		TrackingCode: chi.URLParam(r, "code"),
		Type:         domain.EventClick,
		Metadata:     requestMetadata(r),
		Public:       true,
	})
	writePixel(w)
}

type trackEventRequest struct {
	Type      string            `json:"type"`
	Value     float64           `json:"value"`
	Timestamp *time.Time        `json:"timestamp"`
	SessionID string            `json:"sessionId"`
	URL       string            `json:"url"`
	Metadata  map[string]string `json:"metadata"`
}

// handleTrackEvent records one event posted by the tracking script. Like
// the pixel, the public path always succeeds visibly; only a malformed
// body is rejected.
func (h *Handler) handleTrackEvent(w http.ResponseWriter, r *http.Request) {
	var req trackEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	md := requestMetadata(r)
	for k, v := range req.Metadata {
		md[k] = v
	}
	if req.URL != "" {
		md[domain.MetaURL] = req.URL
	}
	var ts time.Time
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	eventType := req.Type
	if eventType == "" {
		eventType = string(domain.EventPageView)
	}
	_ = h.svc.RecordEvent(r.Context(), port.RecordEventReq{
		TrackingCode: chi.URLParam(r, "code"),
		Type:         domain.EventType(eventType),
		Value:        req.Value,
		Timestamp:    ts,
		SessionID:    req.SessionID,
		Metadata:     md,
		Public:       true,
	})
	writePixel(w)
}

type convertRequest struct {
	Value     float64           `json:"value"`
	SessionID string            `json:"sessionId"`
	Metadata  map[string]string `json:"metadata"`
}

// handleConvert records a conversion. Unlike the pixel path this is an
// internal endpoint: an unknown code is a 404.
func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if r.Body != nil {
		// An empty body means a value-less conversion; the configured
		// default value applies.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	err := h.svc.RecordEvent(r.Context(), port.RecordEventReq{
		TrackingCode: chi.URLParam(r, "code"),
		Type:         domain.EventConversion,
		Value:        req.Value,
		SessionID:    req.SessionID,
		Metadata:     req.Metadata,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "conversion recorded"})
}

// requestMetadata captures the passthrough keys the aggregator knows
// about from the HTTP request itself.
func requestMetadata(r *http.Request) map[string]string {
	md := make(map[string]string, 3)
	if ref := r.Referer(); ref != "" {
		md[domain.MetaReferrer] = ref
	}
	if ua := r.UserAgent(); ua != "" {
		md[domain.MetaUserAgent] = ua
	}
	return md
}

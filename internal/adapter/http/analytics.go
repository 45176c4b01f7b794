package httpadapter

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"adl-tracker/internal/core/domain"
)

// parseWindow reads the `window` (named: all/24h/7d/30d) or `since`
// (RFC3339) query parameters. `since` wins when both are present.
func parseWindow(r *http.Request) (domain.Window, error) {
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return domain.Window{}, err
		}
		return domain.WindowSince(since), nil
	}
	return domain.ParseWindow(r.URL.Query().Get("window"), time.Now())
}

// handleAnalytics returns the windowed metrics snapshot for one campaign.
// "No data yet" is a valid zeroed snapshot; a store failure surfaces as
// 503, never as zeros.
func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, "invalid window", http.StatusBadRequest)
		return
	}
	snap, err := h.svc.GetMetrics(r.Context(), chi.URLParam(r, "code"), window)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// handleAnalyticsBulk returns snapshots for a comma-separated `codes`
// set in one grouped aggregation.
func (h *Handler) handleAnalyticsBulk(w http.ResponseWriter, r *http.Request) {
	codesParam := r.URL.Query().Get("codes")
	if codesParam == "" {
		http.Error(w, "codes parameter required", http.StatusBadRequest)
		return
	}
	var codes []string
	for _, code := range strings.Split(codesParam, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, "invalid window", http.StatusBadRequest)
		return
	}
	snaps, err := h.svc.GetMetricsBulk(r.Context(), codes, window)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snaps)
}

// handleBreakdown returns top pages, referrer domains, device split and
// the hourly histogram for one campaign.
func (h *Handler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, "invalid window", http.StatusBadRequest)
		return
	}
	topN := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		topN, err = strconv.Atoi(limitStr)
		if err != nil || topN < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}
	breakdown, err := h.svc.GetBreakdown(r.Context(), chi.URLParam(r, "code"), window, topN)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, breakdown)
}

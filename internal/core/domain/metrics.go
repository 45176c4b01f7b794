package domain

import (
	"fmt"
	"strings"
	"time"
)

// Window is the time range a metrics query covers. A zero Since means
// all-time.
type Window struct {
	Since time.Time
}

// AllTime returns a window covering every recorded event.
func AllTime() Window { return Window{} }

// WindowSince returns a window covering events at or after t.
func WindowSince(t time.Time) Window { return Window{Since: t} }

// IsAllTime reports whether the window has no lower bound.
func (w Window) IsAllTime() bool { return w.Since.IsZero() }

// ParseWindow maps the named dashboard windows to a Window. Accepted
// names are "all" (or empty), "24h", "7d" and "30d".
func ParseWindow(name string, now time.Time) (Window, error) {
	switch strings.ToLower(name) {
	case "", "all", "all-time":
		return AllTime(), nil
	case "24h":
		return WindowSince(now.Add(-24 * time.Hour)), nil
	case "7d":
		return WindowSince(now.Add(-7 * 24 * time.Hour)), nil
	case "30d":
		return WindowSince(now.Add(-30 * 24 * time.Hour)), nil
	}
	return Window{}, fmt.Errorf("unknown window %q", name)
}

// EventTotals are the raw per-type counts for one tracking code, grouped
// straight out of the event store.
type EventTotals struct {
	Impressions int64
	Clicks      int64
	Conversions int64
	Revenue     float64
}

// MetricsSnapshot is the derived view of one campaign over a window.
// ConversionRate and ROI are percentages, CTR a fraction, matching what
// the dashboards display. All divide-by-zero cases yield 0.
type MetricsSnapshot struct {
	TrackingCode   string  `json:"trackingCode"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	Revenue        float64 `json:"revenue"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversionRate"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
	ROI            float64 `json:"roi"`
}

// ComputeSnapshot derives the rate metrics from raw totals and the
// campaign budget. Zero denominators always produce 0, never NaN or Inf.
func ComputeSnapshot(code string, t EventTotals, budget float64) MetricsSnapshot {
	s := MetricsSnapshot{
		TrackingCode: code,
		Impressions:  t.Impressions,
		Clicks:       t.Clicks,
		Conversions:  t.Conversions,
		Revenue:      t.Revenue,
	}
	if t.Impressions > 0 {
		s.CTR = float64(t.Clicks) / float64(t.Impressions)
	}
	if t.Clicks > 0 {
		s.ConversionRate = float64(t.Conversions) / float64(t.Clicks) * 100
	}
	if t.Conversions > 0 {
		s.AvgOrderValue = t.Revenue / float64(t.Conversions)
	}
	if budget > 0 {
		s.ROI = (t.Revenue - budget) / budget * 100
	}
	return s
}

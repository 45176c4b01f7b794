package domain

import "time"

// EventType is the kind of tracked interaction. The set is extensible:
// unrecognized kinds may still be stored (see the strict-event-types
// configuration), they just never feed the known counters.
type EventType string

const (
	EventPageView   EventType = "page_view"
	EventClick      EventType = "click"
	EventConversion EventType = "conversion"
)

// Known reports whether the type participates in the denormalized
// campaign counters.
func (t EventType) Known() bool {
	switch t {
	case EventPageView, EventClick, EventConversion:
		return true
	}
	return false
}

// Metadata keys the aggregator reads. Everything else in the metadata map
// is opaque passthrough.
const (
	MetaReferrer  = "referrer"
	MetaUserAgent = "userAgent"
	MetaURL       = "url"
)

// TrackingEvent is one immutable record of a page view, click or
// conversion tied to a tracking code. Events are append-only: never
// updated, never deleted.
type TrackingEvent struct {
	ID           int64
	TrackingCode string
	Type         EventType
	// Value is only meaningful for conversions. It is stored after
	// default-value substitution so raw-event aggregation and the
	// incremental revenue counter agree.
	Value      float64
	OccurredAt time.Time
	SessionID  string
	Metadata   map[string]string
}

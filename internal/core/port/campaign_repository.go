package port

import (
	"context"
	"errors"
	"time"

	"adl-tracker/internal/core/domain"
)

// Error taxonomy shared by all adapters. Implementations wrap these with
// fmt.Errorf("%w: ...") and callers match with errors.Is.
var (
	// ErrNotFound means the referenced campaign does not exist. Only
	// surfaced on internal paths; the public pixel path swallows it.
	ErrNotFound = errors.New("campaign not found")
	// ErrValidation means a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateCode means a tracking code is already taken. The code
	// generator treats it as a collision and redraws.
	ErrDuplicateCode = errors.New("tracking code already exists")
	// ErrGenerationExhausted means no unique code was found within the
	// retry bound. Indicates alphabet/length misconfiguration.
	ErrGenerationExhausted = errors.New("tracking code generation exhausted")
	// ErrUnavailable means the underlying store is unreachable. Never
	// masked as a zero-value success.
	ErrUnavailable = errors.New("store unavailable")
)

// CounterDelta is one atomic increment applied to a campaign's running
// totals. All fields are non-negative.
type CounterDelta struct {
	Impressions int64
	Clicks      int64
	Conversions int64
	Revenue     float64
}

// Zero reports whether applying the delta would be a no-op.
func (d CounterDelta) Zero() bool {
	return d.Impressions == 0 && d.Clicks == 0 && d.Conversions == 0 && d.Revenue == 0
}

// CampaignPatch carries the optional field edits of a campaign update.
// Nil fields are left unchanged.
type CampaignPatch struct {
	Name   *string
	Source *string
	Medium *string
	Budget *float64
	Status *domain.CampaignStatus
}

// CampaignRepository is the outbound persistence port. Implementations
// must be concurrency-safe; counter and sequence mutations must be
// atomic, never application-level read-modify-write across I/O.
type CampaignRepository interface {
	// CreateCampaign inserts a new campaign. Returns ErrDuplicateCode
	// when the tracking code is already taken (includes soft-deleted
	// campaigns: codes are never reused).
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	// GetCampaignByCode returns the campaign or (nil, nil) when absent.
	GetCampaignByCode(ctx context.Context, code string) (*domain.Campaign, error)
	// GetCampaignsByCodes returns the campaigns for the given codes.
	// Unknown codes are silently omitted.
	GetCampaignsByCodes(ctx context.Context, codes []string) ([]domain.Campaign, error)
	// ListCampaigns returns non-deleted campaigns, newest first. An empty
	// ownerID lists across all owners.
	ListCampaigns(ctx context.Context, ownerID string) ([]domain.Campaign, error)
	// UpdateCampaign applies the patch. Returns ErrNotFound when the
	// campaign does not exist.
	UpdateCampaign(ctx context.Context, code string, patch CampaignPatch) error
	// SoftDeleteCampaign marks the campaign deleted. The code stays
	// reserved.
	SoftDeleteCampaign(ctx context.Context, code string) error
	// CodeExists reports whether a tracking code is taken.
	CodeExists(ctx context.Context, code string) (bool, error)

	// NextSequence atomically increments and returns the per
	// (category, year) sequence counter, starting at 1.
	NextSequence(ctx context.Context, category string, year int) (int64, error)

	// AppendEvent durably stores one tracking event. The event is
	// appended regardless of whether a campaign owns the code.
	AppendEvent(ctx context.Context, ev *domain.TrackingEvent) error
	// ApplyCounters atomically increments the campaign counters and
	// recomputes the stored CTR/ROI. Returns ErrNotFound when no
	// campaign owns the code.
	ApplyCounters(ctx context.Context, code string, d CounterDelta) error

	// AggregateEvents groups raw events by (code, type) in one query and
	// returns per-code totals. A zero since means all-time. Codes with
	// no events are absent from the result.
	AggregateEvents(ctx context.Context, codes []string, since time.Time) (map[string]domain.EventTotals, error)
	// TopPages returns the most frequent page-view URLs.
	TopPages(ctx context.Context, code string, since time.Time, limit int) ([]domain.PageCount, error)
	// ReferrerCounts returns raw referrer strings with their counts.
	ReferrerCounts(ctx context.Context, code string, since time.Time) (map[string]int64, error)
	// UserAgentCounts returns raw user-agent strings with their counts.
	UserAgentCounts(ctx context.Context, code string, since time.Time) (map[string]int64, error)
	// HourlyHistogram buckets events by UTC hour of day.
	HourlyHistogram(ctx context.Context, code string, since time.Time) ([24]int64, error)
}

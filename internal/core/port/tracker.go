package port

import (
	"context"
	"time"

	"adl-tracker/internal/core/domain"
)

// CreateCampaignReq carries the inputs of campaign creation. When
// Category names a known platform (facebook, google, ...) or any
// non-empty tag, the sequential tracking-code form is used; otherwise
// the random form.
type CreateCampaignReq struct {
	Name     string
	Budget   float64
	Category string
	Source   string
	Medium   string
	OwnerID  string
}

// RecordEventReq carries one tracking event to append. Public selects the
// pixel-endpoint semantics: unknown codes and internal failures are
// swallowed so a passive observer can never distinguish a valid code,
// and the pixel never breaks page rendering.
type RecordEventReq struct {
	TrackingCode string
	Type         domain.EventType
	Value        float64
	Timestamp    time.Time
	SessionID    string
	Metadata     map[string]string
	Public       bool
}

// Tracker is the inbound port: the operations the routing layer consumes.
// Mock implementations can be generated from this interface for testing.
type Tracker interface {
	// CreateCampaign validates the request, generates a collision-free
	// tracking code and persists the campaign.
	CreateCampaign(ctx context.Context, req CreateCampaignReq) (*domain.Campaign, error)
	// GetCampaign returns the campaign by code or ErrNotFound.
	GetCampaign(ctx context.Context, code string) (*domain.Campaign, error)
	// ListCampaigns returns the owner's non-deleted campaigns.
	ListCampaigns(ctx context.Context, ownerID string) ([]domain.Campaign, error)
	// UpdateCampaign applies field edits to the campaign.
	UpdateCampaign(ctx context.Context, code string, patch CampaignPatch) error
	// DeleteCampaign soft-deletes the campaign; its code is never reused.
	DeleteCampaign(ctx context.Context, code string) error

	// RecordEvent validates and durably appends one event, then bumps
	// the owning campaign's counters atomically. See RecordEventReq for
	// the public-path contract.
	RecordEvent(ctx context.Context, req RecordEventReq) error

	// GetMetrics aggregates raw events for one code over the window.
	GetMetrics(ctx context.Context, code string, w domain.Window) (*domain.MetricsSnapshot, error)
	// GetMetricsBulk aggregates a code set in a single grouped query.
	GetMetricsBulk(ctx context.Context, codes []string, w domain.Window) (map[string]domain.MetricsSnapshot, error)
	// GetBreakdown returns the supplementary analytics views.
	GetBreakdown(ctx context.Context, code string, w domain.Window, topN int) (*domain.Breakdown, error)
}

package domain

import "time"

// CampaignStatus is the lifecycle state of a campaign. Campaigns are never
// hard-deleted: deletion only flips the status so the tracking code stays
// reserved forever.
type CampaignStatus string

const (
	StatusActive  CampaignStatus = "active"
	StatusPaused  CampaignStatus = "paused"
	StatusDeleted CampaignStatus = "deleted"
)

// Campaign represents an ad campaign with its public tracking code and the
// denormalized running totals maintained on every recorded event. Budget
// and Revenue are stored in fractional currency units.
type Campaign struct {
	ID           string         `json:"id"`
	TrackingCode string         `json:"trackingCode"`
	Name         string         `json:"name"`
	Source       string         `json:"source,omitempty"`
	Medium       string         `json:"medium,omitempty"`
	Category     string         `json:"category,omitempty"`
	Budget       float64        `json:"budget"`
	Status       CampaignStatus `json:"status"`
	OwnerID      string         `json:"ownerId,omitempty"`

	// Running totals. Monotonically non-decreasing; mutated only through
	// atomic increments in the repository.
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`

	// Derived fields recomputed together with the counter update so
	// dashboard reads do not touch the raw event set. CTR is a fraction,
	// ROI a percentage.
	CTR float64 `json:"ctr"`
	ROI float64 `json:"roi"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Deleted reports whether the campaign has been soft-deleted.
func (c *Campaign) Deleted() bool {
	return c.Status == StatusDeleted
}

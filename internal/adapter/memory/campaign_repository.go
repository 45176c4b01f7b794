// Package memory provides an in-memory CampaignRepository used by tests
// and local runs without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

// CampaignRepository keeps campaigns, events and sequence counters in
// maps guarded by a single mutex, which makes every counter and sequence
// mutation atomic by construction.
type CampaignRepository struct {
	mu        sync.RWMutex
	campaigns map[string]*domain.Campaign // tracking code -> campaign
	events    []domain.TrackingEvent
	sequences map[string]int64 // "category/year" -> last value
	nextEvent int64
}

// NewCampaignRepository creates an empty in-memory repository.
func NewCampaignRepository() *CampaignRepository {
	return &CampaignRepository{
		campaigns: make(map[string]*domain.Campaign),
		sequences: make(map[string]int64),
	}
}

func (r *CampaignRepository) CreateCampaign(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.campaigns[c.TrackingCode]; ok {
		return fmt.Errorf("%w: %s", port.ErrDuplicateCode, c.TrackingCode)
	}
	cp := *c
	r.campaigns[c.TrackingCode] = &cp
	return nil
}

func (r *CampaignRepository) GetCampaignByCode(_ context.Context, code string) (*domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.campaigns[code]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CampaignRepository) GetCampaignsByCodes(_ context.Context, codes []string) ([]domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Campaign, 0, len(codes))
	for _, code := range codes {
		if c, ok := r.campaigns[code]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *CampaignRepository) ListCampaigns(_ context.Context, ownerID string) ([]domain.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		if c.Deleted() {
			continue
		}
		if ownerID != "" && c.OwnerID != ownerID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *CampaignRepository) UpdateCampaign(_ context.Context, code string, patch port.CampaignPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[code]
	if !ok {
		return fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Source != nil {
		c.Source = *patch.Source
	}
	if patch.Medium != nil {
		c.Medium = *patch.Medium
	}
	if patch.Budget != nil {
		c.Budget = *patch.Budget
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CampaignRepository) SoftDeleteCampaign(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[code]
	if !ok {
		return fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}
	now := time.Now().UTC()
	c.Status = domain.StatusDeleted
	c.DeletedAt = &now
	c.UpdatedAt = now
	return nil
}

func (r *CampaignRepository) CodeExists(_ context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.campaigns[code]
	return ok, nil
}

func (r *CampaignRepository) NextSequence(_ context.Context, category string, year int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s/%d", category, year)
	r.sequences[key]++
	return r.sequences[key], nil
}

func (r *CampaignRepository) AppendEvent(_ context.Context, ev *domain.TrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextEvent++
	cp := *ev
	cp.ID = r.nextEvent
	if cp.Metadata != nil {
		md := make(map[string]string, len(cp.Metadata))
		for k, v := range cp.Metadata {
			md[k] = v
		}
		cp.Metadata = md
	}
	r.events = append(r.events, cp)
	ev.ID = cp.ID
	return nil
}

func (r *CampaignRepository) ApplyCounters(_ context.Context, code string, d port.CounterDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[code]
	if !ok {
		return fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}
	c.Impressions += d.Impressions
	c.Clicks += d.Clicks
	c.Conversions += d.Conversions
	c.Revenue += d.Revenue
	if c.Impressions > 0 {
		c.CTR = float64(c.Clicks) / float64(c.Impressions)
	} else {
		c.CTR = 0
	}
	if c.Budget > 0 {
		c.ROI = (c.Revenue - c.Budget) / c.Budget * 100
	} else {
		c.ROI = 0
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CampaignRepository) AggregateEvents(_ context.Context, codes []string, since time.Time) (map[string]domain.EventTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[code] = true
	}
	out := make(map[string]domain.EventTotals)
	for i := range r.events {
		ev := &r.events[i]
		if !wanted[ev.TrackingCode] || ev.OccurredAt.Before(since) {
			continue
		}
		t := out[ev.TrackingCode]
		switch ev.Type {
		case domain.EventPageView:
			t.Impressions++
		case domain.EventClick:
			t.Clicks++
		case domain.EventConversion:
			t.Conversions++
			t.Revenue += ev.Value
		}
		out[ev.TrackingCode] = t
	}
	return out, nil
}

func (r *CampaignRepository) TopPages(_ context.Context, code string, since time.Time, limit int) ([]domain.PageCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for i := range r.events {
		ev := &r.events[i]
		if ev.TrackingCode != code || ev.Type != domain.EventPageView || ev.OccurredAt.Before(since) {
			continue
		}
		if url := ev.Metadata[domain.MetaURL]; url != "" {
			counts[url]++
		}
	}
	out := make([]domain.PageCount, 0, len(counts))
	for url, n := range counts {
		out = append(out, domain.PageCount{URL: url, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].URL < out[j].URL
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *CampaignRepository) ReferrerCounts(_ context.Context, code string, since time.Time) (map[string]int64, error) {
	return r.metadataCounts(code, since, domain.MetaReferrer), nil
}

func (r *CampaignRepository) UserAgentCounts(_ context.Context, code string, since time.Time) (map[string]int64, error) {
	return r.metadataCounts(code, since, domain.MetaUserAgent), nil
}

func (r *CampaignRepository) metadataCounts(code string, since time.Time, key string) map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for i := range r.events {
		ev := &r.events[i]
		if ev.TrackingCode != code || ev.OccurredAt.Before(since) {
			continue
		}
		if v := ev.Metadata[key]; v != "" {
			counts[v]++
		}
	}
	return counts
}

func (r *CampaignRepository) HourlyHistogram(_ context.Context, code string, since time.Time) ([24]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var buckets [24]int64
	for i := range r.events {
		ev := &r.events[i]
		if ev.TrackingCode != code || ev.OccurredAt.Before(since) {
			continue
		}
		buckets[ev.OccurredAt.UTC().Hour()]++
	}
	return buckets, nil
}

// EventCount returns the number of stored events. Test helper.
func (r *CampaignRepository) EventCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// Compile-time check.
var _ port.CampaignRepository = (*CampaignRepository)(nil)

package usecase

import (
	"context"
	"fmt"

	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

// GetMetrics aggregates the raw event set for one campaign over the
// window. The result is computed independently of the denormalized
// counters, so it can always be reconciled against them. A campaign with
// zero events yields a valid zeroed snapshot; an unreachable store
// yields ErrUnavailable, never fabricated zeros.
func (s *TrackerService) GetMetrics(ctx context.Context, code string, w domain.Window) (*domain.MetricsSnapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx, code, w); ok {
			return snap, nil
		}
	}

	campaign, err := s.repo.GetCampaignByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}

	totals, err := s.repo.AggregateEvents(ctx, []string{code}, w.Since)
	if err != nil {
		return nil, err
	}
	snap := domain.ComputeSnapshot(code, totals[code], campaign.Budget)
	if s.cache != nil {
		s.cache.Set(ctx, w, snap)
	}
	return &snap, nil
}

// GetMetricsBulk aggregates a whole code set with one grouped query over
// (code, type) pairs; it never loops per-campaign queries. Unknown codes
// are omitted from the result.
func (s *TrackerService) GetMetricsBulk(ctx context.Context, codes []string, w domain.Window) (map[string]domain.MetricsSnapshot, error) {
	campaigns, err := s.repo.GetCampaignsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	known := make([]string, 0, len(campaigns))
	budgets := make(map[string]float64, len(campaigns))
	for _, c := range campaigns {
		known = append(known, c.TrackingCode)
		budgets[c.TrackingCode] = c.Budget
	}

	out := make(map[string]domain.MetricsSnapshot, len(known))
	if len(known) == 0 {
		return out, nil
	}
	totals, err := s.repo.AggregateEvents(ctx, known, w.Since)
	if err != nil {
		return nil, err
	}
	for _, code := range known {
		out[code] = domain.ComputeSnapshot(code, totals[code], budgets[code])
	}
	return out, nil
}

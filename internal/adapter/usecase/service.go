// Package usecase implements the tracking core: campaign lifecycle with
// collision-free code assignment, the append-only event ledger with
// atomic counter maintenance, and windowed metrics aggregation over the
// raw event set.
package usecase

import (
	"context"
	"log/slog"

	"adl-tracker/internal/codegen"
	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

// MetricsCache is an optional read-through cache in front of metrics
// aggregation. Implementations must treat their own failures as cache
// misses; a cache must never turn a store failure into a stale success
// nor fabricate empty snapshots.
type MetricsCache interface {
	Get(ctx context.Context, code string, w domain.Window) (*domain.MetricsSnapshot, bool)
	Set(ctx context.Context, w domain.Window, snap domain.MetricsSnapshot)
}

// Options tune the tracking behavior. Zero values are usable defaults.
type Options struct {
	// DefaultConversionValue replaces absent, zero or negative conversion
	// values. Revenue never decreases.
	DefaultConversionValue float64
	// StrictEventTypes rejects unrecognized event kinds with a validation
	// error instead of storing them verbatim.
	StrictEventTypes bool
	// TopN bounds the breakdown lists when the caller passes no limit.
	TopN int
}

const defaultTopN = 10

// TrackerService implements port.Tracker on top of a CampaignRepository
// and a code generator.
type TrackerService struct {
	repo   port.CampaignRepository
	gen    *codegen.Generator
	cache  MetricsCache
	logger *slog.Logger
	opts   Options
}

// NewTrackerService creates the service. The logger must not be nil.
func NewTrackerService(repo port.CampaignRepository, gen *codegen.Generator, opts Options, logger *slog.Logger) *TrackerService {
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	return &TrackerService{repo: repo, gen: gen, opts: opts, logger: logger}
}

// UseMetricsCache installs a read-through cache for metrics queries.
func (s *TrackerService) UseMetricsCache(cache MetricsCache) {
	s.cache = cache
}

// Compile-time check.
var _ port.Tracker = (*TrackerService)(nil)

package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adl-tracker/internal/adapter/memory"
	"adl-tracker/internal/adapter/usecase"
	"adl-tracker/internal/codegen"
	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

func newService(t *testing.T, opts usecase.Options) (*usecase.TrackerService, *memory.CampaignRepository) {
	t.Helper()
	repo := memory.NewCampaignRepository()
	return newServiceWithRepo(t, repo, opts), repo
}

func newServiceWithRepo(t *testing.T, repo port.CampaignRepository, opts usecase.Options) *usecase.TrackerService {
	t.Helper()
	gen, err := codegen.New(repo, "ADL")
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return usecase.NewTrackerService(repo, gen, opts, logger)
}

func createCampaign(t *testing.T, svc *usecase.TrackerService, name string, budget float64) *domain.Campaign {
	t.Helper()
	c, err := svc.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Name:   name,
		Budget: budget,
	})
	require.NoError(t, err)
	return c
}

func record(t *testing.T, svc *usecase.TrackerService, code string, kind domain.EventType, value float64) {
	t.Helper()
	require.NoError(t, svc.RecordEvent(context.Background(), port.RecordEventReq{
		TrackingCode: code,
		Type:         kind,
		Value:        value,
	}))
}

// failingRepo wraps a real repository and fails selected methods.
type failingRepo struct {
	port.CampaignRepository
	failCounters  bool
	failAggregate bool
	failAppend    bool
}

func (f *failingRepo) ApplyCounters(ctx context.Context, code string, d port.CounterDelta) error {
	if f.failCounters {
		return port.ErrUnavailable
	}
	return f.CampaignRepository.ApplyCounters(ctx, code, d)
}

func (f *failingRepo) AggregateEvents(ctx context.Context, codes []string, since time.Time) (map[string]domain.EventTotals, error) {
	if f.failAggregate {
		return nil, port.ErrUnavailable
	}
	return f.CampaignRepository.AggregateEvents(ctx, codes, since)
}

func (f *failingRepo) AppendEvent(ctx context.Context, ev *domain.TrackingEvent) error {
	if f.failAppend {
		return port.ErrUnavailable
	}
	return f.CampaignRepository.AppendEvent(ctx, ev)
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

// RecordEvent validates and durably appends one tracking event, then
// bumps the owning campaign's counters with a single atomic increment.
//
// On the public pixel path every failure is swallowed after logging: the
// caller always sees success, so tracking-code validity never leaks and
// the pixel never breaks page rendering. Writes on that path use a
// context detached from the request so a client disconnect cannot cancel
// them mid-flight.
func (s *TrackerService) RecordEvent(ctx context.Context, req port.RecordEventReq) error {
	if req.Public {
		if err := s.recordEvent(context.WithoutCancel(ctx), req); err != nil {
			s.logger.Error("tracking event dropped on public path",
				slog.String("code", req.TrackingCode), slog.Any("error", err))
		}
		return nil
	}
	return s.recordEvent(ctx, req)
}

func (s *TrackerService) recordEvent(ctx context.Context, req port.RecordEventReq) error {
	if req.TrackingCode == "" {
		return fmt.Errorf("%w: tracking code is required", port.ErrValidation)
	}
	if req.Type == "" {
		return fmt.Errorf("%w: event type is required", port.ErrValidation)
	}
	if s.opts.StrictEventTypes && !req.Type.Known() {
		return fmt.Errorf("%w: unknown event type %q", port.ErrValidation, req.Type)
	}

	campaign, err := s.repo.GetCampaignByCode(ctx, req.TrackingCode)
	if err != nil {
		return err
	}
	if campaign == nil && !req.Public {
		return fmt.Errorf("%w: %s", port.ErrNotFound, req.TrackingCode)
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	value := float64(0)
	if req.Type == domain.EventConversion {
		// Absent, zero or negative values fall back to the configured
		// default; revenue never decreases.
		value = req.Value
		if value <= 0 {
			value = s.opts.DefaultConversionValue
		}
	}
	ev := &domain.TrackingEvent{
		TrackingCode: req.TrackingCode,
		Type:         req.Type,
		Value:        value,
		OccurredAt:   ts,
		SessionID:    req.SessionID,
		Metadata:     req.Metadata,
	}

	// The raw event is written first: it is the source of truth the
	// aggregator can always reconcile from, even when the counter update
	// below fails.
	if err = s.repo.AppendEvent(ctx, ev); err != nil {
		return err
	}
	if campaign == nil {
		return nil
	}

	delta := counterDelta(req.Type, value)
	if delta.Zero() {
		return nil
	}
	if err = s.repo.ApplyCounters(ctx, req.TrackingCode, delta); err != nil {
		// The event is already durable; losing one counter bump is
		// recoverable from the raw ledger. Log and report success.
		s.logger.Error("counter update failed after event append",
			slog.String("code", req.TrackingCode),
			slog.String("type", string(req.Type)),
			slog.Any("error", err))
	}
	return nil
}

func counterDelta(t domain.EventType, value float64) port.CounterDelta {
	switch t {
	case domain.EventPageView:
		return port.CounterDelta{Impressions: 1}
	case domain.EventClick:
		return port.CounterDelta{Clicks: 1}
	case domain.EventConversion:
		return port.CounterDelta{Conversions: 1, Revenue: value}
	}
	// Unrecognized kinds are stored but feed no counter.
	return port.CounterDelta{}
}

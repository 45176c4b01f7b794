package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

// CreateCampaign validates the request, assigns a unique tracking code
// and inserts the campaign. A non-empty category selects the sequential
// code form; otherwise a random code is drawn. A lost check-then-insert
// race on a random code is retried with a fresh draw.
func (s *TrackerService) CreateCampaign(ctx context.Context, req port.CreateCampaignReq) (*domain.Campaign, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: campaign name is required", port.ErrValidation)
	}
	if req.Budget < 0 {
		return nil, fmt.Errorf("%w: budget must be non-negative", port.ErrValidation)
	}

	sequential := strings.TrimSpace(req.Category) != ""
	for {
		code, err := s.generateCode(ctx, req.Category, sequential)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		c := &domain.Campaign{
			ID:           uuid.NewString(),
			TrackingCode: code,
			Name:         name,
			Source:       strings.TrimSpace(req.Source),
			Medium:       strings.TrimSpace(req.Medium),
			Category:     strings.ToLower(strings.TrimSpace(req.Category)),
			Budget:       req.Budget,
			Status:       domain.StatusActive,
			OwnerID:      req.OwnerID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err = s.repo.CreateCampaign(ctx, c)
		if err == nil {
			return c, nil
		}
		// Sequential codes cannot collide (the sequence is atomic), so a
		// duplicate only triggers a redraw for the random form.
		if sequential || !errors.Is(err, port.ErrDuplicateCode) {
			return nil, err
		}
	}
}

func (s *TrackerService) generateCode(ctx context.Context, category string, sequential bool) (string, error) {
	if sequential {
		return s.gen.Sequential(ctx, category)
	}
	return s.gen.Random(ctx)
}

// GetCampaign returns the campaign by tracking code.
func (s *TrackerService) GetCampaign(ctx context.Context, code string) (*domain.Campaign, error) {
	c, err := s.repo.GetCampaignByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}
	return c, nil
}

// ListCampaigns returns the owner's campaigns, soft-deleted ones excluded.
func (s *TrackerService) ListCampaigns(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx, ownerID)
}

// UpdateCampaign applies field edits.
func (s *TrackerService) UpdateCampaign(ctx context.Context, code string, patch port.CampaignPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: campaign name cannot be empty", port.ErrValidation)
	}
	if patch.Budget != nil && *patch.Budget < 0 {
		return fmt.Errorf("%w: budget must be non-negative", port.ErrValidation)
	}
	if patch.Status != nil {
		switch *patch.Status {
		case domain.StatusActive, domain.StatusPaused, domain.StatusDeleted:
		default:
			return fmt.Errorf("%w: unknown status %q", port.ErrValidation, *patch.Status)
		}
	}
	return s.repo.UpdateCampaign(ctx, code, patch)
}

// DeleteCampaign soft-deletes the campaign. The tracking code stays
// reserved forever, so the generator will never hand it out again.
func (s *TrackerService) DeleteCampaign(ctx context.Context, code string) error {
	return s.repo.SoftDeleteCampaign(ctx, code)
}

package usecase_test

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adl-tracker/internal/adapter/usecase"
	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

var randomCodeRe = regexp.MustCompile(`^ADL_[A-Z0-9]{8}$`)

func TestCreateCampaignRandomCode(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})

	c, err := svc.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Name:   "summer sale",
		Budget: 1000,
		Source: "newsletter",
		Medium: "email",
	})
	require.NoError(t, err)
	assert.Regexp(t, randomCodeRe, c.TrackingCode)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, domain.StatusActive, c.Status)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCreateCampaignSequentialCode(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})

	for i := 1; i <= 3; i++ {
		c, err := svc.CreateCampaign(context.Background(), port.CreateCampaignReq{
			Name:     fmt.Sprintf("fb-%d", i),
			Category: "facebook",
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ADL-FB-%d-%03d", c.CreatedAt.Year(), i), c.TrackingCode)
	}

	// A different platform runs its own sequence.
	c, err := svc.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Name:     "gg-1",
		Category: "google",
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ADL-GG-%d-001", c.CreatedAt.Year()), c.TrackingCode)
}

func TestCreateCampaignValidation(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})

	_, err := svc.CreateCampaign(context.Background(), port.CreateCampaignReq{Name: "   "})
	require.ErrorIs(t, err, port.ErrValidation)

	_, err = svc.CreateCampaign(context.Background(), port.CreateCampaignReq{Name: "x", Budget: -1})
	require.ErrorIs(t, err, port.ErrValidation)
}

// TestConcurrentCreateUniqueCodes drives campaign creation from many
// goroutines and asserts pairwise-distinct tracking codes.
func TestConcurrentCreateUniqueCodes(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})

	const n = 50
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := svc.CreateCampaign(context.Background(), port.CreateCampaignReq{
				Name: fmt.Sprintf("burst-%d", i),
			})
			assert.NoError(t, err)
			if c != nil {
				codes <- c.TrackingCode
			}
		}(i)
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]struct{}, n)
	for code := range codes {
		_, dup := seen[code]
		assert.False(t, dup, "duplicate tracking code %s", code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestUpdateCampaign(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})
	c := createCampaign(t, svc, "before", 100)

	name := "after"
	budget := 250.0
	status := domain.StatusPaused
	require.NoError(t, svc.UpdateCampaign(context.Background(), c.TrackingCode, port.CampaignPatch{
		Name:   &name,
		Budget: &budget,
		Status: &status,
	}))

	got, err := svc.GetCampaign(context.Background(), c.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.InDelta(t, 250.0, got.Budget, 1e-9)
	assert.Equal(t, domain.StatusPaused, got.Status)
	// The code is immutable.
	assert.Equal(t, c.TrackingCode, got.TrackingCode)
}

func TestUpdateCampaignValidation(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})
	c := createCampaign(t, svc, "valid", 0)

	empty := " "
	err := svc.UpdateCampaign(context.Background(), c.TrackingCode, port.CampaignPatch{Name: &empty})
	require.ErrorIs(t, err, port.ErrValidation)

	bad := domain.CampaignStatus("archived")
	err = svc.UpdateCampaign(context.Background(), c.TrackingCode, port.CampaignPatch{Status: &bad})
	require.ErrorIs(t, err, port.ErrValidation)

	name := "x"
	err = svc.UpdateCampaign(context.Background(), "ADL_MISSING4", port.CampaignPatch{Name: &name})
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestDeleteCampaign(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})
	c := createCampaign(t, svc, "doomed", 0)

	require.NoError(t, svc.DeleteCampaign(context.Background(), c.TrackingCode))

	// The record survives as a tombstone so the code stays reserved and
	// historical events keep resolving, but listings drop it.
	got, err := svc.GetCampaign(context.Background(), c.TrackingCode)
	require.NoError(t, err)
	assert.True(t, got.Deleted())

	list, err := svc.ListCampaigns(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.DeleteCampaign(context.Background(), "ADL_MISSING5")
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestListCampaignsByOwner(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})

	for i, owner := range []string{"alice", "alice", "bob"} {
		_, err := svc.CreateCampaign(context.Background(), port.CreateCampaignReq{
			Name:    fmt.Sprintf("c-%d", i),
			OwnerID: owner,
		})
		require.NoError(t, err)
	}

	alice, err := svc.ListCampaigns(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	all, err := svc.ListCampaigns(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adl-tracker/internal/core/domain"
)

func TestComputeSnapshot(t *testing.T) {
	snap := domain.ComputeSnapshot("ADL_TEST0001", domain.EventTotals{
		Impressions: 1000,
		Clicks:      100,
		Conversions: 10,
		Revenue:     500,
	}, 1000)

	assert.Equal(t, int64(100), snap.Clicks)
	assert.InDelta(t, 0.1, snap.CTR, 1e-9)
	assert.InDelta(t, 10.0, snap.ConversionRate, 1e-9)
	assert.InDelta(t, 50.0, snap.AvgOrderValue, 1e-9)
	assert.InDelta(t, -50.0, snap.ROI, 1e-9)
}

func TestComputeSnapshotZeroDenominators(t *testing.T) {
	snap := domain.ComputeSnapshot("ADL_TEST0002", domain.EventTotals{}, 0)

	assert.Zero(t, snap.CTR)
	assert.Zero(t, snap.ConversionRate)
	assert.Zero(t, snap.AvgOrderValue)
	assert.Zero(t, snap.ROI)
	assert.False(t, math.IsNaN(snap.CTR))
	assert.False(t, math.IsInf(snap.ROI, 0))
}

func TestComputeSnapshotZeroBudget(t *testing.T) {
	snap := domain.ComputeSnapshot("c", domain.EventTotals{Conversions: 2, Revenue: 80}, 0)
	assert.Zero(t, snap.ROI)
	assert.InDelta(t, 40.0, snap.AvgOrderValue, 1e-9)
}

func TestParseWindow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	w, err := domain.ParseWindow("", now)
	require.NoError(t, err)
	assert.True(t, w.IsAllTime())

	w, err = domain.ParseWindow("24h", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-24*time.Hour), w.Since)

	w, err = domain.ParseWindow("7d", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), w.Since)

	w, err = domain.ParseWindow("30d", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-30*24*time.Hour), w.Since)

	_, err = domain.ParseWindow("90d", now)
	require.Error(t, err)
}

package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adl-tracker/internal/adapter/usecase"
	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

func TestClassifyDevice(t *testing.T) {
	cases := []struct {
		ua   string
		want domain.DeviceClass
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", domain.DeviceMobile},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36", domain.DeviceMobile},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", domain.DeviceTablet},
		// Android without the Mobile token is a tablet.
		{"Mozilla/5.0 (Linux; Android 14; SM-X910) Safari/537.36", domain.DeviceTablet},
		{"Mozilla/5.0 (Linux; U; Android 4.4.3; KFTHWI) Silk/47.1.79", domain.DeviceTablet},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/126.0", domain.DeviceDesktop},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) Safari/605.1.15", domain.DeviceDesktop},
		{"", domain.DeviceDesktop},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, usecase.ClassifyDevice(tc.ua), tc.ua)
	}
}

func TestReferrerDomain(t *testing.T) {
	assert.Equal(t, "google.com", usecase.ReferrerDomain("https://www.google.com/search?q=ads"))
	assert.Equal(t, "t.co", usecase.ReferrerDomain("https://t.co/abc123"))
	assert.Equal(t, "news.ycombinator.com", usecase.ReferrerDomain("http://news.ycombinator.com/item?id=1"))
	// No scheme, no host: the raw string comes back untouched.
	assert.Equal(t, "android-app", usecase.ReferrerDomain("android-app"))
	assert.Equal(t, "", usecase.ReferrerDomain(""))
}

func TestGetBreakdown(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})
	c := createCampaign(t, svc, "breakdown", 0)

	send := func(meta map[string]string) {
		t.Helper()
		require.NoError(t, svc.RecordEvent(context.Background(), port.RecordEventReq{
			TrackingCode: c.TrackingCode,
			Type:         domain.EventPageView,
			Metadata:     meta,
		}))
	}
	send(map[string]string{
		domain.MetaURL:       "/landing",
		domain.MetaReferrer:  "https://www.google.com/search",
		domain.MetaUserAgent: "Mozilla/5.0 (iPhone) Mobile Safari",
	})
	send(map[string]string{
		domain.MetaURL:       "/landing",
		domain.MetaReferrer:  "https://google.com/ads",
		domain.MetaUserAgent: "Mozilla/5.0 (iPad) Safari",
	})
	send(map[string]string{
		domain.MetaURL:       "/pricing",
		domain.MetaReferrer:  "https://t.co/xyz",
		domain.MetaUserAgent: "Mozilla/5.0 (Windows NT 10.0) Chrome",
	})

	b, err := svc.GetBreakdown(context.Background(), c.TrackingCode, domain.AllTime(), 10)
	require.NoError(t, err)

	require.Len(t, b.TopPages, 2)
	assert.Equal(t, domain.PageCount{URL: "/landing", Count: 2}, b.TopPages[0])

	// www.google.com and google.com fold into one domain.
	require.Len(t, b.TopReferrers, 2)
	assert.Equal(t, domain.ReferrerCount{Domain: "google.com", Count: 2}, b.TopReferrers[0])
	assert.Equal(t, domain.ReferrerCount{Domain: "t.co", Count: 1}, b.TopReferrers[1])

	assert.Equal(t, int64(1), b.Devices.Mobile)
	assert.Equal(t, int64(1), b.Devices.Tablet)
	assert.Equal(t, int64(1), b.Devices.Desktop)

	var hourly int64
	for _, n := range b.Hourly {
		hourly += n
	}
	assert.Equal(t, int64(3), hourly)
}

func TestGetBreakdownTopNBound(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})
	c := createCampaign(t, svc, "topn", 0)

	pages := []string{"/a", "/b", "/c", "/d"}
	for _, p := range pages {
		require.NoError(t, svc.RecordEvent(context.Background(), port.RecordEventReq{
			TrackingCode: c.TrackingCode,
			Type:         domain.EventPageView,
			Metadata:     map[string]string{domain.MetaURL: p},
		}))
	}

	b, err := svc.GetBreakdown(context.Background(), c.TrackingCode, domain.AllTime(), 2)
	require.NoError(t, err)
	assert.Len(t, b.TopPages, 2)
}

func TestGetBreakdownUnknownCode(t *testing.T) {
	svc, _ := newService(t, usecase.Options{})

	_, err := svc.GetBreakdown(context.Background(), "ADL_MISSING3", domain.AllTime(), 10)
	require.ErrorIs(t, err, port.ErrNotFound)
}

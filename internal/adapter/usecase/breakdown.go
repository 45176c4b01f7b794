package usecase

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"adl-tracker/internal/core/domain"
	"adl-tracker/internal/core/port"
)

// Device rules are ordered: tablet patterns run before mobile patterns so
// iPad and Android-tablet agents never fall into the mobile bucket, and
// anything unmatched counts as desktop.
var (
	tabletPatterns = []string{"iPad", "Tablet", "Kindle", "Silk", "PlayBook"}
	mobilePatterns = []string{"iPhone", "iPod", "Mobile", "Android", "BlackBerry", "Opera Mini", "Windows Phone"}
)

// ClassifyDevice maps a user-agent string to a device class with the
// first matching rule winning.
func ClassifyDevice(userAgent string) domain.DeviceClass {
	for _, p := range tabletPatterns {
		if strings.Contains(userAgent, p) {
			return domain.DeviceTablet
		}
	}
	// Android agents without the Mobile token are tablets.
	if strings.Contains(userAgent, "Android") && !strings.Contains(userAgent, "Mobile") {
		return domain.DeviceTablet
	}
	for _, p := range mobilePatterns {
		if strings.Contains(userAgent, p) {
			return domain.DeviceMobile
		}
	}
	return domain.DeviceDesktop
}

// ReferrerDomain extracts the hostname from a referrer URL, stripping a
// leading "www.". Unparseable referrers fall back to the raw string.
func ReferrerDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// GetBreakdown computes the supplementary analytics views for one
// campaign: top pages, top referrer domains, device split and the hourly
// histogram (24 UTC buckets).
func (s *TrackerService) GetBreakdown(ctx context.Context, code string, w domain.Window, topN int) (*domain.Breakdown, error) {
	if topN <= 0 {
		topN = s.opts.TopN
	}
	campaign, err := s.repo.GetCampaignByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: %s", port.ErrNotFound, code)
	}

	b := &domain.Breakdown{TrackingCode: code}

	b.TopPages, err = s.repo.TopPages(ctx, code, w.Since, topN)
	if err != nil {
		return nil, err
	}

	referrers, err := s.repo.ReferrerCounts(ctx, code, w.Since)
	if err != nil {
		return nil, err
	}
	b.TopReferrers = topReferrers(referrers, topN)

	agents, err := s.repo.UserAgentCounts(ctx, code, w.Since)
	if err != nil {
		return nil, err
	}
	for ua, n := range agents {
		switch ClassifyDevice(ua) {
		case domain.DeviceTablet:
			b.Devices.Tablet += n
		case domain.DeviceMobile:
			b.Devices.Mobile += n
		default:
			b.Devices.Desktop += n
		}
	}

	b.Hourly, err = s.repo.HourlyHistogram(ctx, code, w.Since)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// topReferrers folds raw referrer strings into domains and keeps the
// top-N by count, domains sorted for deterministic ties.
func topReferrers(raw map[string]int64, topN int) []domain.ReferrerCount {
	byDomain := make(map[string]int64, len(raw))
	for ref, n := range raw {
		byDomain[ReferrerDomain(ref)] += n
	}
	out := make([]domain.ReferrerCount, 0, len(byDomain))
	for d, n := range byDomain {
		out = append(out, domain.ReferrerCount{Domain: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Domain < out[j].Domain
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

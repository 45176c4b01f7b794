package domain

// DeviceClass is the coarse device bucket derived from a user agent.
type DeviceClass string

const (
	DeviceTablet  DeviceClass = "tablet"
	DeviceMobile  DeviceClass = "mobile"
	DeviceDesktop DeviceClass = "desktop"
)

// PageCount is one entry of the top-pages breakdown.
type PageCount struct {
	URL   string `json:"url"`
	Count int64  `json:"count"`
}

// ReferrerCount is one entry of the top-referrers breakdown, keyed by the
// referrer hostname (or the raw referrer string when it does not parse).
type ReferrerCount struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// DeviceBreakdown counts events per device class.
type DeviceBreakdown struct {
	Tablet  int64 `json:"tablet"`
	Mobile  int64 `json:"mobile"`
	Desktop int64 `json:"desktop"`
}

// Breakdown holds the supplementary analytics views for one campaign:
// top pages among page views, top referrer domains, device split and a
// 24-bucket hour-of-day histogram. Hour buckets are in UTC.
type Breakdown struct {
	TrackingCode string          `json:"trackingCode"`
	TopPages     []PageCount     `json:"topPages"`
	TopReferrers []ReferrerCount `json:"topReferrers"`
	Devices      DeviceBreakdown `json:"devices"`
	Hourly       [24]int64       `json:"hourly"`
}

package configs

import "time"

// Redis configures the optional metrics cache. When disabled, metrics
// reads always aggregate from the event store.
type Redis struct {
	// Enabled turns the cache on.
	Enabled bool `env:"ENABLED" envDefault:"false"`
	// Addr is the host:port of the redis server.
	Addr string `env:"ADDR" envDefault:"localhost:6379"`
	// MetricsTTL is how long a computed snapshot stays cached. Dashboards
	// tolerate numbers this stale.
	MetricsTTL time.Duration `env:"METRICS_TTL" envDefault:"30s"`
}

package configs

// Tracking configures tracking-code generation and event recording.
type Tracking struct {
	// CodePrefix is the fixed prefix of every generated tracking code.
	CodePrefix string `env:"CODE_PREFIX" envDefault:"ADL"`
	// CodeLength is the random-suffix length of random-form codes.
	CodeLength int `env:"CODE_LENGTH" envDefault:"8"`
	// CodeMaxAttempts bounds the random-form collision retry loop.
	CodeMaxAttempts int `env:"CODE_MAX_ATTEMPTS" envDefault:"10"`
	// DefaultConversionValue substitutes absent, zero or negative
	// conversion values.
	DefaultConversionValue float64 `env:"DEFAULT_CONVERSION_VALUE" envDefault:"0"`
	// StrictEventTypes rejects unrecognized event kinds instead of
	// storing them verbatim.
	StrictEventTypes bool `env:"STRICT_EVENT_TYPES" envDefault:"false"`
}

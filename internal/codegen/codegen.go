// Package codegen produces collision-free, human-readable tracking codes.
//
// Two shapes are supported: a random form ("ADL_7GK2Q9XW") drawn from an
// uppercase-letter+digit alphabet and verified against the store before
// use, and a sequential form ("ADL-FB-2025-001") scoped per
// (category, year) with an atomically allocated sequence number.
package codegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaevor/go-nanoid"

	"adl-tracker/internal/core/port"
)

// Alphabet is the character set of the random suffix.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	defaultLength      = 8
	defaultMaxAttempts = 10
)

// platformCodes maps well-known platforms to their 2-letter code.
var platformCodes = map[string]string{
	"facebook":  "FB",
	"google":    "GG",
	"tiktok":    "TT",
	"instagram": "IG",
	"linkedin":  "LI",
	"twitter":   "TW",
}

// Store is the slice of the repository the generator needs.
type Store interface {
	CodeExists(ctx context.Context, code string) (bool, error)
	NextSequence(ctx context.Context, category string, year int) (int64, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithLength sets the random-suffix length.
func WithLength(n int) Option { return func(g *Generator) { g.length = n } }

// WithMaxAttempts bounds the random-form retry loop.
func WithMaxAttempts(n int) Option { return func(g *Generator) { g.maxAttempts = n } }

// WithNow overrides the clock. Used in tests.
func WithNow(now func() time.Time) Option { return func(g *Generator) { g.now = now } }

// Generator builds tracking codes against a store that answers
// uniqueness checks and allocates sequence numbers. It holds no state of
// its own beyond the configured prefix and random source.
type Generator struct {
	store       Store
	prefix      string
	length      int
	maxAttempts int
	random      func() string
	now         func() time.Time
}

// New creates a Generator with the given code prefix.
func New(store Store, prefix string, opts ...Option) (*Generator, error) {
	g := &Generator{
		store:       store,
		prefix:      prefix,
		length:      defaultLength,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	random, err := nanoid.CustomASCII(Alphabet, g.length)
	if err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	g.random = random
	return g, nil
}

// Random draws prefix + "_" + random suffix codes until one is free,
// failing with ErrGenerationExhausted after the configured number of
// attempts. The final uniqueness guarantee comes from the store's unique
// index at insert time; a lost check-then-insert race surfaces there as
// ErrDuplicateCode and the caller redraws.
func (g *Generator) Random(ctx context.Context) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		code := g.prefix + "_" + g.random()
		exists, err := g.store.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no free code after %d attempts", port.ErrGenerationExhausted, g.maxAttempts)
}

// Sequential returns the next prefix-CC-YYYY-NNN code for the category.
// The sequence number comes from a single atomic increment scoped per
// (category, year), so concurrent callers get a gapless permutation.
func (g *Generator) Sequential(ctx context.Context, category string) (string, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	year := g.now().UTC().Year()
	seq, err := g.store.NextSequence(ctx, category, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%d-%03d", g.prefix, CategoryCode(category), year, seq), nil
}

// CategoryCode returns the 2-letter code for a category: the platform
// map entry when known, otherwise the first two letters uppercased
// (padded with X for one-letter categories).
func CategoryCode(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if code, ok := platformCodes[category]; ok {
		return code
	}
	letters := []rune(strings.ToUpper(category))
	switch {
	case len(letters) >= 2:
		return string(letters[:2])
	case len(letters) == 1:
		return string(letters) + "X"
	}
	return "XX"
}

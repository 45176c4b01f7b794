package codegen_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adl-tracker/internal/codegen"
	"adl-tracker/internal/core/port"
)

type stubStore struct {
	checks    int
	collide   int // number of leading CodeExists calls answered "taken"
	checkErr  error
	sequences map[string]int64
}

func (s *stubStore) CodeExists(_ context.Context, _ string) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	s.checks++
	return s.checks <= s.collide, nil
}

func (s *stubStore) NextSequence(_ context.Context, category string, year int) (int64, error) {
	if s.sequences == nil {
		s.sequences = make(map[string]int64)
	}
	key := fmt.Sprintf("%s/%d", category, year)
	s.sequences[key]++
	return s.sequences[key], nil
}

func fixedYear(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestRandomCodeFormat(t *testing.T) {
	gen, err := codegen.New(&stubStore{}, "ADL")
	require.NoError(t, err)

	code, err := gen.Random(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ADL_[A-Z0-9]{8}$`), code)
}

func TestRandomCodeRetriesOnCollision(t *testing.T) {
	store := &stubStore{collide: 3}
	gen, err := codegen.New(store, "ADL")
	require.NoError(t, err)

	code, err := gen.Random(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, 4, store.checks)
}

func TestRandomCodeExhausted(t *testing.T) {
	store := &stubStore{collide: 1000}
	gen, err := codegen.New(store, "ADL", codegen.WithMaxAttempts(5))
	require.NoError(t, err)

	_, err = gen.Random(context.Background())
	require.ErrorIs(t, err, port.ErrGenerationExhausted)
	assert.Equal(t, 5, store.checks)
}

func TestRandomCodePropagatesStoreError(t *testing.T) {
	store := &stubStore{checkErr: errors.New("connection refused")}
	gen, err := codegen.New(store, "ADL")
	require.NoError(t, err)

	_, err = gen.Random(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrGenerationExhausted)
}

func TestSequentialFormat(t *testing.T) {
	gen, err := codegen.New(&stubStore{}, "ADL", codegen.WithNow(fixedYear(2025)))
	require.NoError(t, err)

	ctx := context.Background()
	code, err := gen.Sequential(ctx, "facebook")
	require.NoError(t, err)
	assert.Equal(t, "ADL-FB-2025-001", code)

	code, err = gen.Sequential(ctx, "Facebook")
	require.NoError(t, err)
	assert.Equal(t, "ADL-FB-2025-002", code)

	// A different category gets its own sequence.
	code, err = gen.Sequential(ctx, "google")
	require.NoError(t, err)
	assert.Equal(t, "ADL-GG-2025-001", code)
}

func TestSequentialUnknownCategory(t *testing.T) {
	gen, err := codegen.New(&stubStore{}, "ADL", codegen.WithNow(fixedYear(2026)))
	require.NoError(t, err)

	code, err := gen.Sequential(context.Background(), "newsletter")
	require.NoError(t, err)
	assert.Equal(t, "ADL-NE-2026-001", code)
}

func TestCategoryCode(t *testing.T) {
	assert.Equal(t, "FB", codegen.CategoryCode("facebook"))
	assert.Equal(t, "TT", codegen.CategoryCode("TikTok"))
	assert.Equal(t, "NE", codegen.CategoryCode("newsletter"))
	assert.Equal(t, "QX", codegen.CategoryCode("q"))
	assert.Equal(t, "XX", codegen.CategoryCode(""))
}

func TestSequentialPaddingGrows(t *testing.T) {
	store := &stubStore{}
	gen, err := codegen.New(store, "ADL", codegen.WithNow(fixedYear(2025)))
	require.NoError(t, err)

	ctx := context.Background()
	var last string
	for i := 0; i < 1001; i++ {
		last, err = gen.Sequential(ctx, "email")
		require.NoError(t, err)
	}
	// Three digits minimum, more when the sequence outgrows them.
	assert.Equal(t, "ADL-EM-2025-1001", last)
}

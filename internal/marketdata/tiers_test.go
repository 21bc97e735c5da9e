package marketdata

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartpulse/chartpulse/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunTiersFirstSuccess(t *testing.T) {
	var secondCalled bool
	tiers := []Tier[int]{
		{
			Name:   "primary",
			Source: domain.SourceLivePrimary,
			Run:    func(context.Context) (int, error) { return 42, nil },
		},
		{
			Name:   "secondary",
			Source: domain.SourceLiveSecondary,
			Run: func(context.Context) (int, error) {
				secondCalled = true
				return 0, errors.New("unreachable")
			},
		},
	}

	res, err := RunTiers(context.Background(), discardLogger(), tiers)
	require.NoError(t, err)
	assert.Equal(t, 42, res.Value)
	assert.Equal(t, domain.SourceLivePrimary, res.Source)
	assert.Equal(t, "primary", res.Tier)
	assert.False(t, secondCalled, "success must short-circuit later tiers")
}

func TestRunTiersFallsThrough(t *testing.T) {
	tiers := []Tier[string]{
		{
			Name:   "primary",
			Source: domain.SourceLivePrimary,
			Run:    func(context.Context) (string, error) { return "", errors.New("down") },
		},
		{
			Name:   "secondary",
			Source: domain.SourceLiveSecondary,
			Run:    func(context.Context) (string, error) { return "ok", nil },
		},
	}

	res, err := RunTiers(context.Background(), discardLogger(), tiers)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Value)
	assert.Equal(t, domain.SourceLiveSecondary, res.Source)
}

func TestRunTiersAllFail(t *testing.T) {
	errA := errors.New("a down")
	errB := errors.New("b down")
	tiers := []Tier[int]{
		{Name: "a", Run: func(context.Context) (int, error) { return 0, errA }},
		{Name: "b", Run: func(context.Context) (int, error) { return 0, errB }},
	}

	_, err := RunTiers(context.Background(), discardLogger(), tiers)
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

package marketdata

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chartpulse/chartpulse/internal/domain"
)

// Tier is one strategy attempt within a fallback chain. Source tags the
// provenance of a successful value.
type Tier[T any] struct {
	Name   string
	Source domain.QuoteSource
	Run    func(ctx context.Context) (T, error)
}

// Result is a value together with the tier provenance that produced it.
type Result[T any] struct {
	Value  T
	Source domain.QuoteSource
	Tier   string
}

// RunTiers tries each tier in order and stops at the first success. Tier
// failures are logged and folded into the joined error returned when every
// tier fails; a single provider outage never surfaces past here.
func RunTiers[T any](ctx context.Context, logger *slog.Logger, tiers []Tier[T]) (Result[T], error) {
	var errs []error
	for _, t := range tiers {
		v, err := t.Run(ctx)
		if err == nil {
			return Result[T]{Value: v, Source: t.Source, Tier: t.Name}, nil
		}
		logger.DebugContext(ctx, "tier failed",
			slog.String("tier", t.Name),
			slog.String("error", err.Error()),
		)
		errs = append(errs, err)
	}
	return Result[T]{}, errors.Join(errs...)
}

// Package filtering narrows the pool of profiles a game is played over.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/profile-guesser/internal/profile"
)

// Filter represents a single filtering step applied to profiles.
type Filter interface {
	Name() string
	Apply(ctx context.Context, profiles []profile.Profile) ([]profile.Profile, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

func newStep(initial, left int) Step {
	return Step{Initial: initial, Dropped: initial - left, Left: left}
}

// Run executes the supplied filters sequentially and returns the remaining
// profiles. The input slice is not modified.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, profiles []profile.Profile) ([]profile.Profile, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := step.Apply(ctx, profiles)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		profiles = next
	}

	return profiles, nil
}

// keep returns the profiles for which fn is true in a new slice.
func keep(profiles []profile.Profile, fn func(profile.Profile) bool) []profile.Profile {
	kept := make([]profile.Profile, 0, len(profiles))
	for _, p := range profiles {
		if fn(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

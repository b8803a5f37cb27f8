package filtering

import (
	"context"
	"strings"

	"github.com/spigell/profile-guesser/internal/profile"
)

type duplicatesFilter struct{}

// NewDuplicates creates a filter that keeps only the first profile for every
// profile URL. Profiles without a URL are always kept.
func NewDuplicates() Filter {
	return duplicatesFilter{}
}

func (duplicatesFilter) Name() string { return "duplicates" }

func (duplicatesFilter) Apply(_ context.Context, profiles []profile.Profile) ([]profile.Profile, Step, error) {
	seen := make(map[string]struct{}, len(profiles))
	left := keep(profiles, func(p profile.Profile) bool {
		url := strings.TrimSpace(p.URL)
		if url == "" {
			return true
		}
		if _, ok := seen[url]; ok {
			return false
		}
		seen[url] = struct{}{}
		return true
	})

	return left, newStep(len(profiles), len(left)), nil
}

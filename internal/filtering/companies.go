package filtering

import (
	"context"

	"github.com/spigell/profile-guesser/internal/profile"
	"github.com/spigell/profile-guesser/internal/textnorm"
)

type companiesFilter struct {
	keys map[string]struct{}
}

// NewExcludedCompanies creates a filter that removes profiles with an
// experience at any of the given companies.
func NewExcludedCompanies(companies []string) Filter {
	keys := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		if key := textnorm.Key(c); key != "" {
			keys[key] = struct{}{}
		}
	}
	return &companiesFilter{keys: keys}
}

func (f *companiesFilter) Name() string { return "excluded_companies" }

func (f *companiesFilter) Apply(_ context.Context, profiles []profile.Profile) ([]profile.Profile, Step, error) {
	if len(f.keys) == 0 {
		return profiles, newStep(len(profiles), len(profiles)), nil
	}

	left := keep(profiles, func(p profile.Profile) bool {
		for _, exp := range p.Experiences {
			if _, ok := f.keys[textnorm.Key(exp.Company)]; ok {
				return false
			}
		}
		return true
	})

	return left, newStep(len(profiles), len(left)), nil
}

// Package candidates implements the immutable set of profiles still
// consistent with the answers of a game.
package candidates

import (
	"slices"

	"github.com/spigell/profile-guesser/internal/profile"
)

// Set is never modified after creation; narrowing returns a new Set.
type Set struct {
	profiles []profile.Profile
}

func New(profiles []profile.Profile) Set {
	return Set{profiles: slices.Clone(profiles)}
}

// Filter returns the profiles whose evaluation of f equals expected.
func (s Set) Filter(f Feature, expected bool) Set {
	out := make([]profile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if f.Eval(p) == expected {
			out = append(out, p)
		}
	}
	return Set{profiles: out}
}

// Partition splits the set into the profiles with and without f.
func (s Set) Partition(f Feature) (with, without Set) {
	return s.Filter(f, true), s.Filter(f, false)
}

// Count returns how many profiles have f.
func (s Set) Count(f Feature) int {
	n := 0
	for _, p := range s.profiles {
		if f.Eval(p) {
			n++
		}
	}
	return n
}

func (s Set) Size() int { return len(s.profiles) }

func (s Set) IsEmpty() bool { return len(s.profiles) == 0 }

func (s Set) IsSingleton() bool { return len(s.profiles) == 1 }

// Profiles returns a copy of the profiles in their original order.
func (s Set) Profiles() []profile.Profile {
	return slices.Clone(s.profiles)
}

func (s Set) Names() []string {
	return profile.Names(s.profiles)
}

// Features lists the distinct features present in the set in order of first
// occurrence: profile order, then experience order, company before role.
func (s Set) Features() []Feature {
	var features []Feature
	seen := make(map[string]struct{})

	add := func(attr Attribute, value string) {
		f := NewFeature(attr, value)
		if f.key == "" {
			return
		}
		if _, ok := seen[f.ID()]; ok {
			return
		}
		seen[f.ID()] = struct{}{}
		features = append(features, f)
	}

	for _, p := range s.profiles {
		for _, exp := range p.Experiences {
			add(AttributeCompany, exp.Company)
			add(AttributeRole, exp.Role)
		}
	}

	return features
}

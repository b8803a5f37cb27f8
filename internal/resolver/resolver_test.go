package resolver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spigell/profile-guesser/internal/candidates"
	"github.com/spigell/profile-guesser/internal/game"
	"github.com/spigell/profile-guesser/internal/profile"
)

func worked(name, company string) profile.Profile {
	return profile.Profile{
		Name:        name,
		Experiences: []profile.Experience{{Company: company}},
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	acme := candidates.NewFeature(candidates.AttributeCompany, "Acme")

	tests := []struct {
		name      string
		profiles  []profile.Profile
		answer    bool
		guess     string
		shortlist []string
		status    game.Status
	}{
		{
			name:     "converged",
			profiles: []profile.Profile{worked("A", "Acme"), worked("B", "Globex")},
			answer:   true,
			guess:    "A",
			status:   game.StatusConverged,
		},
		{
			name:      "exhausted",
			profiles:  []profile.Profile{worked("A", "Acme"), worked("B", "Acme")},
			answer:    true,
			shortlist: []string{"A", "B"},
			status:    game.StatusExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := game.NewState(candidates.New(tt.profiles))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s = s.Apply(acme, tt.answer)

			res, err := Resolve(s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tt.status {
				t.Fatalf("expected status %s, got %s", tt.status, res.Status)
			}

			if tt.guess != "" {
				if !res.Found() || res.Guess.Name != tt.guess {
					t.Fatalf("expected guess %s, got %+v", tt.guess, res.Guess)
				}
				return
			}

			if res.Found() {
				t.Fatalf("unexpected guess %+v", res.Guess)
			}
			if diff := cmp.Diff(tt.shortlist, profile.Names(res.Shortlist)); diff != "" {
				t.Fatalf("unexpected shortlist (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveSingleCandidate(t *testing.T) {
	t.Parallel()

	s, err := game.NewState(candidates.New([]profile.Profile{worked("A", "Acme")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := Resolve(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found() || res.Guess.Name != "A" {
		t.Fatalf("expected guess A, got %+v", res)
	}
}

func TestResolveRunningGame(t *testing.T) {
	t.Parallel()

	s, err := game.NewState(candidates.New([]profile.Profile{worked("A", "Acme"), worked("B", "Globex")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Resolve(s); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
}

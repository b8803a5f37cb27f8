package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/profile-guesser/internal/candidates"
	"github.com/spigell/profile-guesser/internal/profile"
)

// idPhraser uses the feature ID as the question so stub askers can decode it.
type idPhraser struct{}

func (idPhraser) Phrase(_ context.Context, f candidates.Feature) (string, error) {
	return f.ID(), nil
}

type failingPhraser struct{}

func (failingPhraser) Phrase(context.Context, candidates.Feature) (string, error) {
	return "", errors.New("quota exceeded")
}

func featureFromID(id string) candidates.Feature {
	attr, value, _ := strings.Cut(id, ":")
	return candidates.NewFeature(candidates.Attribute(attr), value)
}

// truthful answers every question as the given profile would.
func truthful(target profile.Profile) Asker {
	return AskerFunc(func(_ context.Context, question string) (bool, error) {
		return featureFromID(question).Eval(target), nil
	})
}

func randomProfiles(rng *rand.Rand) []profile.Profile {
	companyPool := []string{"Acme", "Globex", "Initech", "Hooli", "Umbrella"}
	rolePool := []string{"Engineer", "Manager", "Analyst", "Designer"}

	n := 1 + rng.Intn(10)
	profiles := make([]profile.Profile, 0, n)
	for i := 0; i < n; i++ {
		p := profile.Profile{Name: fmt.Sprintf("P%d", i)}
		for j := rng.Intn(4); j > 0; j-- {
			p.Experiences = append(p.Experiences, profile.Experience{
				Company: companyPool[rng.Intn(len(companyPool))],
				Role:    rolePool[rng.Intn(len(rolePool))],
			})
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func TestPlayFindsTarget(t *testing.T) {
	profiles := []profile.Profile{
		companies("A", "Acme"),
		companies("B", "Globex"),
	}

	engine := New(zap.NewNop(), WithPhraser(idPhraser{}))
	s, err := engine.Play(context.Background(), candidates.New(profiles), truthful(profiles[0]))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Status() != StatusConverged {
		t.Fatalf("expected CONVERGED, got %s", s.Status())
	}
	if diff := cmp.Diff([]string{"A"}, s.Candidates().Names()); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestPlayTerminatesWithinBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		profiles := randomProfiles(rng)
		target := profiles[rng.Intn(len(profiles))]

		s, err := New(nil, WithPhraser(idPhraser{})).Play(context.Background(), candidates.New(profiles), truthful(target))
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}

		if !s.Status().Terminal() {
			t.Fatalf("case %d: expected a terminal status, got %s", i, s.Status())
		}
		if s.Round() > MaxRounds {
			t.Fatalf("case %d: %d rounds exceed the budget", i, s.Round())
		}

		found := false
		for _, name := range s.Candidates().Names() {
			if name == target.Name {
				found = true
			}
		}
		if !found {
			t.Fatalf("case %d: truthful answers lost the target %s", i, target.Name)
		}

		seen := make(map[string]bool)
		for _, turn := range s.History() {
			if seen[turn.Feature.ID()] {
				t.Fatalf("case %d: %s asked twice", i, turn.Feature.ID())
			}
			seen[turn.Feature.ID()] = true
		}
	}
}

func TestContradictionsNeverShrinkCandidates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		profiles := randomProfiles(rng)
		answers := rand.New(rand.NewSource(int64(i)))
		asker := AskerFunc(func(context.Context, string) (bool, error) {
			return answers.Intn(2) == 0, nil
		})

		s, err := New(nil).Play(context.Background(), candidates.New(profiles), asker)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}

		applied := 0
		for _, turn := range s.History() {
			if turn.Status == StatusContradicted && turn.Before != turn.After {
				t.Fatalf("case %d: contradiction changed size %d -> %d", i, turn.Before, turn.After)
			}
			if turn.Status != StatusContradicted && !turn.Skipped {
				applied++
			}
		}
		if applied != s.Round() || applied > MaxRounds {
			t.Fatalf("case %d: %d applied answers, round %d", i, applied, s.Round())
		}
	}
}

func TestPlayIsDeterministic(t *testing.T) {
	profiles := randomProfiles(rand.New(rand.NewSource(3)))
	for len(profiles) < 4 {
		profiles = append(profiles, companies(fmt.Sprintf("X%d", len(profiles)), "Stark", "Wayne"))
	}

	play := func() []string {
		var questions []string
		asker := AskerFunc(func(_ context.Context, question string) (bool, error) {
			questions = append(questions, question)
			return len(questions)%2 == 0, nil
		})
		if _, err := New(nil).Play(context.Background(), candidates.New(profiles), asker); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return questions
	}

	if diff := cmp.Diff(play(), play()); diff != "" {
		t.Fatalf("question sequence differs between identical sessions (-first +second):\n%s", diff)
	}
}

func TestPlayExhaustsBudget(t *testing.T) {
	var profiles []profile.Profile
	for i := 1; i <= 8; i++ {
		profiles = append(profiles, companies(fmt.Sprintf("P%d", i), fmt.Sprintf("Company %d", i)))
	}

	calls := 0
	asker := AskerFunc(func(context.Context, string) (bool, error) {
		calls++
		return false, nil
	})

	s, err := New(nil).Play(context.Background(), candidates.New(profiles), asker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Status() != StatusExhausted {
		t.Fatalf("expected EXHAUSTED, got %s", s.Status())
	}
	if calls != MaxRounds {
		t.Fatalf("expected %d questions, got %d", MaxRounds, calls)
	}
	if diff := cmp.Diff([]string{"P6", "P7", "P8"}, s.Candidates().Names()); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestPlayRunsOutOfQuestions(t *testing.T) {
	twin := profile.Profile{Experiences: []profile.Experience{{Company: "Acme", Role: "Engineer"}}}
	a, b := twin, twin
	a.Name, b.Name = "A", "B"

	var questions []string
	asker := AskerFunc(func(_ context.Context, question string) (bool, error) {
		questions = append(questions, question)
		return true, nil
	})

	s, err := New(nil).Play(context.Background(), candidates.New([]profile.Profile{a, b}), asker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Status() != StatusExhausted || s.Candidates().Size() != 2 {
		t.Fatalf("expected EXHAUSTED with both twins, got %s with %d", s.Status(), s.Candidates().Size())
	}
	expect := []string{"Has this person worked at Acme?", "Has this person worked as an Engineer?"}
	if diff := cmp.Diff(expect, questions); diff != "" {
		t.Fatalf("unexpected questions (-want +got):\n%s", diff)
	}
}

func TestPlaySingleCandidateAsksNothing(t *testing.T) {
	asker := AskerFunc(func(context.Context, string) (bool, error) {
		t.Fatalf("no question expected")
		return false, nil
	})

	s, err := New(nil).Play(context.Background(), candidates.New([]profile.Profile{companies("A", "Acme")}), asker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status() != StatusConverged {
		t.Fatalf("expected CONVERGED, got %s", s.Status())
	}
}

func TestPlaySkip(t *testing.T) {
	profiles := []profile.Profile{
		companies("A", "Acme"),
		companies("B", "Globex"),
		companies("C", "Initech"),
	}

	var questions []string
	asker := AskerFunc(func(_ context.Context, question string) (bool, error) {
		questions = append(questions, question)
		if len(questions) == 1 {
			return false, ErrSkip
		}
		return featureFromID(question).Eval(profiles[1]), nil
	})

	s, err := New(nil, WithPhraser(idPhraser{})).Play(context.Background(), candidates.New(profiles), asker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history := s.History()
	if !history[0].Skipped || history[0].Feature.ID() != "company:acme" {
		t.Fatalf("expected the first turn to be a skipped acme question, got %+v", history[0])
	}
	if s.Status() != StatusConverged || s.Candidates().Names()[0] != "B" {
		t.Fatalf("expected to converge on B, got %s %v", s.Status(), s.Candidates().Names())
	}
	if s.Round() != len(history)-1 {
		t.Fatalf("skipped question must not count as a round, round %d history %d", s.Round(), len(history))
	}
}

func TestPlayAskerError(t *testing.T) {
	boom := errors.New("prompt closed")
	asker := AskerFunc(func(context.Context, string) (bool, error) {
		return false, boom
	})

	s, err := New(nil).Play(context.Background(), candidates.New([]profile.Profile{
		companies("A", "Acme"),
		companies("B", "Globex"),
	}), asker)
	if !errors.Is(err, boom) {
		t.Fatalf("expected asker error, got %v", err)
	}
	if s.Status() != StatusAsking {
		t.Fatalf("expected the interrupted state to still be ASKING, got %s", s.Status())
	}
}

func TestPlayCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Play(ctx, candidates.New([]profile.Profile{
		companies("A", "Acme"),
		companies("B", "Globex"),
	}), AskerFunc(func(context.Context, string) (bool, error) { return true, nil }))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPlayEmptySet(t *testing.T) {
	_, err := New(nil).Play(context.Background(), candidates.New(nil), AskerFunc(func(context.Context, string) (bool, error) {
		return true, nil
	}))
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestPlayFallsBackToTemplateQuestion(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	var questions []string
	asker := AskerFunc(func(_ context.Context, question string) (bool, error) {
		questions = append(questions, question)
		return true, nil
	})

	var turns []Turn
	engine := New(zap.New(core), WithPhraser(failingPhraser{}), OnTurn(func(turn Turn, _ State) {
		turns = append(turns, turn)
	}))

	if _, err := engine.Play(context.Background(), candidates.New([]profile.Profile{
		companies("A", "Acme"),
		companies("B", "Globex"),
	}), asker); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"Has this person worked at Acme?"}, questions); diff != "" {
		t.Fatalf("unexpected questions (-want +got):\n%s", diff)
	}
	if len(turns) != 1 || turns[0].Question != questions[0] {
		t.Fatalf("expected one reported turn with the asked question, got %+v", turns)
	}
	if observed.FilterMessage("falling back to template question").Len() != 1 {
		t.Fatalf("expected a fallback warning")
	}

	steps := observed.FilterMessage("question step").All()
	if len(steps) != 1 {
		t.Fatalf("expected one step entry, got %d", len(steps))
	}
	if fields := steps[0].ContextMap(); fields["dropped"] != int64(1) || fields["left"] != int64(1) {
		t.Fatalf("unexpected step fields: %v", fields)
	}
}

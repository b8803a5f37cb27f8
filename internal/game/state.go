// Package game selects yes/no questions over a candidate set and narrows it
// down to a single profile.
package game

import (
	"errors"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/spigell/profile-guesser/internal/ai"
	"github.com/spigell/profile-guesser/internal/candidates"
)

// MaxRounds is the number of applied answers after which a game stops.
const MaxRounds = 5

type Status string

const (
	StatusAsking       Status = "ASKING"
	StatusConverged    Status = "CONVERGED"
	StatusExhausted    Status = "EXHAUSTED"
	StatusContradicted Status = "CONTRADICTED"
)

// Terminal reports whether no further question will be asked.
func (s Status) Terminal() bool {
	return s == StatusConverged || s == StatusExhausted
}

var ErrNoCandidates = errors.New("no candidate profiles")

// Turn records one question of a session.
type Turn struct {
	Round    int
	Feature  candidates.Feature
	Question string
	Answer   bool
	Skipped  bool
	Before   int
	After    int
	Status   Status
}

// State is a snapshot of a game. Transitions return a new State and leave the
// receiver untouched.
type State struct {
	ID         string
	candidates candidates.Set
	asked      map[string]struct{}
	round      int
	status     Status
	history    []Turn
}

// NewState starts a game over the given candidates.
func NewState(set candidates.Set) (State, error) {
	if set.IsEmpty() {
		return State{}, ErrNoCandidates
	}

	s := State{
		ID:         uuid.NewString(),
		candidates: set,
		asked:      map[string]struct{}{},
	}
	return s.settle(), nil
}

func (s State) Candidates() candidates.Set { return s.candidates }

func (s State) Round() int { return s.round }

func (s State) Status() Status { return s.status }

// Asked reports whether the feature was already put to the player.
func (s State) Asked(f candidates.Feature) bool {
	_, ok := s.asked[f.ID()]
	return ok
}

func (s State) History() []Turn { return slices.Clone(s.history) }

// Next returns the unasked feature whose split of the candidates is closest
// to even. Ties go to the feature that occurs first in the data. It returns
// false when every feature has been asked.
func (s State) Next() (candidates.Feature, bool) {
	var (
		best      candidates.Feature
		bestScore = -1
		n         = s.candidates.Size()
	)

	for _, f := range s.candidates.Features() {
		if s.Asked(f) {
			continue
		}

		score := abs(2*s.candidates.Count(f) - n)
		if bestScore < 0 || score < bestScore {
			best, bestScore = f, score
		}
	}

	return best, bestScore >= 0
}

// Apply answers f. An answer that would leave no candidates is a
// contradiction: the candidates are kept, the feature is still marked as
// asked and the round does not advance. Apply works on any state, so an
// answer given after convergence can still be checked against the guess.
func (s State) Apply(f candidates.Feature, answer bool) State {
	return s.apply(f, ai.Question(f), answer)
}

func (s State) apply(f candidates.Feature, question string, answer bool) State {
	next := s.clone()
	next.asked[f.ID()] = struct{}{}

	turn := Turn{
		Round:    s.round + 1,
		Feature:  f,
		Question: question,
		Answer:   answer,
		Before:   s.candidates.Size(),
	}

	narrowed := s.candidates.Filter(f, answer)
	if narrowed.IsEmpty() {
		next.status = StatusContradicted
	} else {
		next.candidates = narrowed
		next.round++
		next = next.settle()
	}

	turn.After = next.candidates.Size()
	turn.Status = next.status
	next.history = append(next.history, turn)

	return next
}

// Skip marks f as asked without narrowing the candidates.
func (s State) Skip(f candidates.Feature) State {
	return s.skip(f, ai.Question(f))
}

func (s State) skip(f candidates.Feature, question string) State {
	next := s.clone()
	next.asked[f.ID()] = struct{}{}
	next = next.settle()
	next.history = append(next.history, Turn{
		Round:    s.round + 1,
		Feature:  f,
		Question: question,
		Skipped:  true,
		Before:   s.candidates.Size(),
		After:    s.candidates.Size(),
		Status:   next.status,
	})
	return next
}

// settle derives the status of a state that was not contradicted.
func (s State) settle() State {
	switch {
	case s.candidates.IsSingleton():
		s.status = StatusConverged
	case s.round >= MaxRounds:
		s.status = StatusExhausted
	default:
		s.status = StatusAsking
		if _, ok := s.Next(); !ok {
			s.status = StatusExhausted
		}
	}
	return s
}

func (s State) clone() State {
	s.asked = maps.Clone(s.asked)
	if s.asked == nil {
		s.asked = map[string]struct{}{}
	}
	s.history = slices.Clone(s.history)
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

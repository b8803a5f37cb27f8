// Package resolver turns a finished game into a guess or a shortlist.
package resolver

import (
	"errors"
	"fmt"

	"github.com/spigell/profile-guesser/internal/game"
	"github.com/spigell/profile-guesser/internal/profile"
)

var ErrNotTerminal = errors.New("game is not finished")

type Result struct {
	Status game.Status
	// Guess is set when exactly one candidate is left.
	Guess *profile.Profile
	// Shortlist holds the remaining candidates when the game stopped
	// before narrowing them down to one.
	Shortlist []profile.Profile
}

// Resolve reports the outcome of a finished game.
func Resolve(s game.State) (Result, error) {
	if !s.Status().Terminal() {
		return Result{}, fmt.Errorf("%w: status %s", ErrNotTerminal, s.Status())
	}

	remaining := s.Candidates().Profiles()
	res := Result{Status: s.Status()}

	if len(remaining) == 1 {
		res.Guess = &remaining[0]
		return res, nil
	}

	res.Shortlist = remaining
	return res, nil
}

// Found reports whether the game named a single profile.
func (r Result) Found() bool {
	return r.Guess != nil
}

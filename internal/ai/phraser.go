package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/profile-guesser/internal/candidates"
)

// Phraser turns a feature into a yes/no question for the player.
type Phraser interface {
	Phrase(ctx context.Context, f candidates.Feature) (string, error)
}

// TemplatePhraser renders questions from fixed templates. It never fails.
type TemplatePhraser struct{}

func (TemplatePhraser) Phrase(_ context.Context, f candidates.Feature) (string, error) {
	return Question(f), nil
}

// Question is the template phrasing of a feature.
func Question(f candidates.Feature) string {
	switch f.Attribute {
	case candidates.AttributeCompany:
		return fmt.Sprintf("Has this person worked at %s?", f.Value)
	case candidates.AttributeRole:
		return fmt.Sprintf("Has this person worked as %s %s?", article(f.Value), f.Value)
	default:
		return fmt.Sprintf("Does %s match %s?", f.Attribute, f.Value)
	}
}

func article(word string) string {
	if word == "" {
		return "a"
	}
	if strings.ContainsRune("AEIOUaeiou", rune(word[0])) {
		return "an"
	}
	return "a"
}

package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/profile-guesser/internal/candidates"
	"github.com/spigell/profile-guesser/internal/logger"
)

const (
	provider            = "gemini"
	defaultMaxLogLength = 200
	maxQuestionRunes    = 300
)

//go:embed prompt.md
var systemPrompt string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Phraser words questions with Gemini.
type Phraser struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewPhraser(generator contentGenerator, maxLogLength int, log *zap.Logger) *Phraser {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Phraser{
		generator: generator,
		logger:    logger.WithFields(log, logger.AIFields(provider, generator.Model())...),
		maxLogLen: maxLogLength,
	}
}

func (p *Phraser) Phrase(ctx context.Context, f candidates.Feature) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"attribute": string(f.Attribute),
		"value":     f.Value,
	})
	if err != nil {
		return "", fmt.Errorf("marshal feature: %w", err)
	}
	message := string(payload)

	p.logger.Debug("gemini generate content request",
		zap.Stringer("feature", f),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", logger.TruncateForLog(message, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return "", err
	}

	p.logger.Debug("gemini generate content response",
		zap.Stringer("feature", f),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
	)

	question, err := parseResponse(raw)
	if err != nil {
		return "", err
	}

	// A rewording that lost the value would ask about something else.
	if !strings.Contains(strings.ToLower(question), strings.ToLower(f.Value)) {
		return "", fmt.Errorf("gemini question %q does not mention %q", question, f.Value)
	}

	return question, nil
}

func parseResponse(raw string) (string, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}

	question := strings.Join(strings.Fields(coerceString(data["question"])), " ")
	if question == "" {
		return "", errors.New("gemini response has no question")
	}
	if utf8.RuneCountInString(question) > maxQuestionRunes {
		return "", fmt.Errorf("gemini question is longer than %d characters", maxQuestionRunes)
	}
	if !strings.HasSuffix(question, "?") {
		question = strings.TrimRight(question, ".!") + "?"
	}

	return question, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

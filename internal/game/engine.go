package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/profile-guesser/internal/ai"
	"github.com/spigell/profile-guesser/internal/candidates"
	"github.com/spigell/profile-guesser/internal/logger"
)

// ErrSkip is returned by an Asker when the player declines to answer.
var ErrSkip = errors.New("question skipped")

// Asker puts a question to the player. It is called exactly once per round.
type Asker interface {
	Ask(ctx context.Context, question string) (bool, error)
}

type AskerFunc func(ctx context.Context, question string) (bool, error)

func (f AskerFunc) Ask(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

type Engine struct {
	logger  *zap.Logger
	phraser ai.Phraser
	onTurn  func(Turn, State)
}

type Option func(*Engine)

// WithPhraser sets how questions are worded. Template phrasing is used when
// the phraser fails.
func WithPhraser(p ai.Phraser) Option {
	return func(e *Engine) {
		if p != nil {
			e.phraser = p
		}
	}
}

// OnTurn registers a callback invoked after every answered or skipped question.
func OnTurn(fn func(Turn, State)) Option {
	return func(e *Engine) { e.onTurn = fn }
}

func New(log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine{
		logger:  log,
		phraser: ai.TemplatePhraser{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Play runs a session until the candidates converge or the game is exhausted
// and returns the final state. Errors from the asker other than ErrSkip end
// the session and are returned together with the last state.
func (e *Engine) Play(ctx context.Context, set candidates.Set, asker Asker) (State, error) {
	s, err := NewState(set)
	if err != nil {
		return State{}, err
	}

	log := logger.WithFields(e.logger, zap.String(logger.FieldSession, s.ID))
	log.Info("game started", zap.Int("candidates", set.Size()), zap.String("status", string(s.Status())))

	for !s.Status().Terminal() {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		f, ok := s.Next()
		if !ok {
			s.status = StatusExhausted
			log.Info("out of questions", zap.Int("candidates", s.candidates.Size()))
			break
		}

		question := e.phrase(ctx, log, f)

		answer, err := asker.Ask(ctx, question)
		switch {
		case errors.Is(err, ErrSkip):
			s = s.skip(f, question)
			log.Info("question skipped", zap.Stringer("feature", f))
		case err != nil:
			return s, fmt.Errorf("asking %q: %w", question, err)
		default:
			s = s.apply(f, question, answer)
		}

		turn := s.history[len(s.history)-1]
		log.Info("question step",
			append(logger.SessionFields(s.ID, s.round, string(s.status)),
				zap.Stringer("feature", f),
				zap.Bool("answer", turn.Answer),
				zap.Int("initial", turn.Before),
				zap.Int("dropped", turn.Before-turn.After),
				zap.Int("left", turn.After),
			)...,
		)

		if s.status == StatusContradicted {
			log.Warn("answer contradicts previous answers, keeping candidates",
				zap.Stringer("feature", f),
				zap.Int("candidates", s.candidates.Size()),
			)
		}

		if e.onTurn != nil {
			e.onTurn(turn, s)
		}
	}

	log.Info("game finished",
		zap.String("status", string(s.status)),
		zap.Int("rounds", s.round),
		zap.Strings("candidates", s.candidates.Names()),
	)

	return s, nil
}

func (e *Engine) phrase(ctx context.Context, log *zap.Logger, f candidates.Feature) string {
	question, err := e.phraser.Phrase(ctx, f)
	if err != nil || question == "" {
		log.Warn("falling back to template question", zap.Stringer("feature", f), zap.Error(err))
		return ai.Question(f)
	}
	return question
}

// Package builder assembles normalized profiles from raw scraped fragments.
package builder

import (
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/profile-guesser/internal/profile"
	"github.com/spigell/profile-guesser/internal/textnorm"
)

// ErrMissingName is returned for records whose name normalizes to nothing.
var ErrMissingName = errors.New("profile name is missing")

type Builder struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Build turns one raw record into a profile. Missing education or experience
// is not an error; a missing name is.
func (b *Builder) Build(raw profile.Raw) (profile.Profile, error) {
	name := textnorm.Normalize(raw.DisplayName())
	if name == "" {
		return profile.Profile{}, ErrMissingName
	}

	p := profile.Profile{
		Name:        name,
		URL:         raw.ProfileURL(),
		Educations:  make([]profile.Education, 0, len(raw.Education)),
		Experiences: ParseExperience(raw.Experience),
	}

	if searched := textnorm.Normalize(raw.SearchName); textnorm.Key(searched) != textnorm.Key(name) {
		p.SearchName = searched
	}

	for _, line := range raw.Education {
		edu := ParseEducation(line)
		if edu.IsZero() {
			continue
		}
		p.Educations = append(p.Educations, edu)
	}

	b.logger.Debug("profile built",
		zap.String("name", p.Name),
		zap.Int("educations", len(p.Educations)),
		zap.Int("experiences", len(p.Experiences)),
		zap.Int("experience_fragments", len(raw.Experience)),
	)

	return p, nil
}

// BuildAll builds every usable record, skipping the ones the scraper marked
// as failed and the ones without a name.
func (b *Builder) BuildAll(raws []profile.Raw) []profile.Profile {
	profiles := make([]profile.Profile, 0, len(raws))
	for i, raw := range raws {
		if raw.Failed() {
			b.logger.Warn("skipping failed record",
				zap.Int("index", i),
				zap.String("name", raw.DisplayName()),
				zap.String("reason", raw.Error),
			)
			continue
		}

		p, err := b.Build(raw)
		if err != nil {
			b.logger.Warn("skipping record", zap.Int("index", i), zap.Error(err))
			continue
		}
		profiles = append(profiles, p)
	}

	b.logger.Info("profiles built",
		zap.Int("initial", len(raws)),
		zap.Int("dropped", len(raws)-len(profiles)),
		zap.Int("left", len(profiles)),
	)

	return profiles
}

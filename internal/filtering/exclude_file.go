package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spigell/profile-guesser/internal/profile"
	"github.com/spigell/profile-guesser/internal/textnorm"
)

// ExcludedProfiles is the content of an exclude file: profiles that are left
// out of future games.
type ExcludedProfiles struct {
	Items []ExcludedProfile `json:"items"`
}

type ExcludedProfile struct {
	Name       string    `json:"name"`
	URL        string    `json:"url,omitempty"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// ReadExcluded reads an exclude file. A missing or empty file holds no profiles.
func ReadExcluded(path string) (*ExcludedProfiles, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedProfiles{}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return &ExcludedProfiles{}, nil
	}

	var excluded ExcludedProfiles
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, fmt.Errorf("decoding exclude file %q: %w", path, err)
	}
	return &excluded, nil
}

// Add records p as excluded unless it is already.
func (e *ExcludedProfiles) Add(p profile.Profile, at time.Time) {
	if e.Contains(p) {
		return
	}
	e.Items = append(e.Items, ExcludedProfile{Name: p.Name, URL: p.URL, ExcludedAt: at.UTC()})
}

// Contains matches by URL when both sides have one and by name otherwise.
func (e *ExcludedProfiles) Contains(p profile.Profile) bool {
	for _, item := range e.Items {
		if item.URL != "" && p.URL != "" {
			if item.URL == p.URL {
				return true
			}
			continue
		}
		if textnorm.Key(item.Name) != "" && textnorm.Key(item.Name) == textnorm.Key(p.Name) {
			return true
		}
	}
	return false
}

func (e *ExcludedProfiles) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes profiles listed in the exclude
// file. An empty path disables the filter.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{path: strings.TrimSpace(path)}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Apply(_ context.Context, profiles []profile.Profile) ([]profile.Profile, Step, error) {
	if f.path == "" {
		return profiles, newStep(len(profiles), len(profiles)), nil
	}

	excluded, err := ReadExcluded(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting excluded profiles from file: %w", err)
	}

	left := keep(profiles, func(p profile.Profile) bool { return !excluded.Contains(p) })
	return left, newStep(len(profiles), len(left)), nil
}

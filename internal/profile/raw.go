package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Raw is a record handed over by the scraper: text fragments as they were
// read from the page, before any normalization.
type Raw struct {
	Name        string   `mapstructure:"name"`
	FullName    string   `mapstructure:"full_name"`
	SearchName  string   `mapstructure:"search_name"`
	URL         string   `mapstructure:"url"`
	LinkedInURL string   `mapstructure:"linkedin_url"`
	Education   []string `mapstructure:"education"`
	Experience  []string `mapstructure:"experience"`
	// Error is set by the scraper when the page could not be read.
	Error string `mapstructure:"error"`
}

// DisplayName returns the best available name for the record.
func (r Raw) DisplayName() string {
	for _, name := range []string{r.FullName, r.Name, r.SearchName} {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}
	return ""
}

// ProfileURL returns the page address, preferring the LinkedIn one.
func (r Raw) ProfileURL() string {
	if url := strings.TrimSpace(r.LinkedInURL); url != "" {
		return url
	}
	return strings.TrimSpace(r.URL)
}

// Failed reports whether the scraper marked the record as broken.
func (r Raw) Failed() bool {
	return strings.TrimSpace(r.Error) != ""
}

// DecodeRaw converts generic JSON items into raw records. A single string in
// place of a list is accepted for education and experience.
func DecodeRaw(items []any) ([]Raw, error) {
	var raws []Raw

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raws,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode raw profiles: %w", err)
	}

	return raws, nil
}

// ReadRaw loads raw records from a JSON file containing a list of objects.
func ReadRaw(path string) ([]Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%s should contain a list of profiles: %w", path, err)
	}

	return DecodeRaw(items)
}

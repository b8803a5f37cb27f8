package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Load reads profiles previously written by Save.
func Load(path string) ([]Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return nil, errors.New("profiles file is empty")
	}

	var profiles []Profile
	if err := json.NewDecoder(file).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("decode profiles from %s: %w", path, err)
	}
	return profiles, nil
}

// Save writes profiles as indented JSON, replacing the file content.
func Save(path string, profiles []Profile) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	if profiles == nil {
		profiles = []Profile{}
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(profiles)
}

// DumpToTmpFile writes profiles to a new temporary file and returns its name.
func DumpToTmpFile(profiles []Profile) (string, error) {
	file, err := os.CreateTemp("", "profiles_*.json")
	if err != nil {
		return "", err
	}
	name := file.Name()
	if err := file.Close(); err != nil {
		return "", err
	}

	if err := Save(name, profiles); err != nil {
		return "", err
	}
	return name, nil
}

// Package profile holds the normalized profile records and their JSON storage.
package profile

import (
	"fmt"
	"strings"
)

type Profile struct {
	Name string `json:"name"`
	// SearchName is the name the profile was found by, kept only when it
	// differs from Name.
	SearchName  string       `json:"search_name,omitempty"`
	URL         string       `json:"url"`
	Educations  []Education  `json:"educations"`
	Experiences []Experience `json:"experiences"`
}

type Education struct {
	School string `json:"school"`
	Major  string `json:"major,omitempty"`
	Minor  string `json:"minor,omitempty"`
}

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
}

// IsZero reports whether the education carries no information at all.
func (e Education) IsZero() bool {
	return e.School == "" && e.Major == "" && e.Minor == ""
}

// String renders an education line the way it is shown after a guess.
func (e Education) String() string {
	parts := make([]string, 0, 3)
	if e.School != "" {
		parts = append(parts, e.School)
	}
	if e.Major != "" {
		parts = append(parts, e.Major)
	}
	if e.Minor != "" {
		parts = append(parts, fmt.Sprintf("Minor: %s", e.Minor))
	}
	return strings.Join(parts, ", ")
}

func (e Experience) String() string {
	switch {
	case e.Role == "":
		return e.Company
	case e.Company == "":
		return e.Role
	default:
		return fmt.Sprintf("%s at %s", e.Role, e.Company)
	}
}

// DisplayName is the name followed by the searched-as name when it differs.
func (p Profile) DisplayName() string {
	if p.SearchName == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (searched as %s)", p.Name, p.SearchName)
}

// Names returns profile names in order.
func Names(profiles []Profile) []string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names
}

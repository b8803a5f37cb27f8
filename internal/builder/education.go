package builder

import (
	"regexp"

	"github.com/spigell/profile-guesser/internal/profile"
	"github.com/spigell/profile-guesser/internal/textnorm"
)

var (
	educationSplit = regexp.MustCompile(`\s*[|,·•\n]\s*`)
	// "Physics and Minor in Music" is two segments.
	andMarker   = regexp.MustCompile(`(?i)\s+and\s+(minors?|majors?)\b`)
	minorMarker = regexp.MustCompile(`(?i)\bminors?\b(?:\s+(?:in|of)\b|\s*:)?`)
	majorMarker = regexp.MustCompile(`(?i)\bmajors?\b(?:\s+(?:in|of)\b|\s*:)?`)
	inConnector = regexp.MustCompile(`(?i)\s+in\s+`)
)

// ParseEducation derives school, major and minor from a raw degree line such
// as "MIT, Bachelor of Science in Physics and Minor in Music". The first
// segment without a marker is the school. A line without markers or
// connectors only yields a school.
func ParseEducation(line string) profile.Education {
	var edu profile.Education

	line = andMarker.ReplaceAllString(line, "|${1}")

	first := true
	for _, raw := range educationSplit.Split(line, -1) {
		segment := textnorm.Normalize(raw)
		if segment == "" {
			continue
		}

		if value, ok := markerValue(segment, minorMarker); ok {
			if edu.Minor == "" {
				edu.Minor = value
			}
			first = false
			continue
		}

		if value, ok := markerValue(segment, majorMarker); ok {
			if edu.Major == "" {
				edu.Major = value
			}
			first = false
			continue
		}

		if first {
			edu.School = segment
			first = false
			continue
		}

		if edu.Major == "" {
			if loc := inConnector.FindStringIndex(segment); loc != nil {
				edu.Major = textnorm.Normalize(segment[loc[1]:])
			}
		}
	}

	return edu
}

// markerValue returns the text after the marker, or before it for lines like
// "Computer Science Major".
func markerValue(segment string, marker *regexp.Regexp) (string, bool) {
	loc := marker.FindStringIndex(segment)
	if loc == nil {
		return "", false
	}

	if after := textnorm.Normalize(segment[loc[1]:]); after != "" {
		return after, true
	}
	return textnorm.Normalize(segment[:loc[0]]), true
}

package builder

import (
	"regexp"
	"strings"

	"github.com/spigell/profile-guesser/internal/profile"
	"github.com/spigell/profile-guesser/internal/textnorm"
)

// Layout is a known structure of an experience list item.
type Layout int

const (
	// LayoutFlat is one role at one company: company, role, description lines.
	LayoutFlat Layout = iota
	// LayoutGrouped is a company header with several nested roles, each role
	// followed by its date line.
	LayoutGrouped
)

func (l Layout) String() string {
	switch l {
	case LayoutFlat:
		return "flat"
	case LayoutGrouped:
		return "grouped"
	default:
		return "unknown"
	}
}

var groupers = map[Layout]func([]line) []profile.Experience{
	LayoutFlat:    groupFlat,
	LayoutGrouped: groupGrouped,
}

var tenurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}\b`),
	regexp.MustCompile(`(?i)^\d{4}\s*(?:-|–|—|to)\s*(?:\d{4}|present)\b`),
	regexp.MustCompile(`(?i)^\d+\s+(?:yrs?|years?|mos?|months?)\b`),
	regexp.MustCompile(`(?i)^(?:full-time|part-time|internship|contract|self-employed|freelance|seasonal|apprenticeship)\b`),
}

// line is one non-empty fragment of an experience item.
type line struct {
	text   string
	label  string
	tenure bool
}

func newLine(raw string) line {
	text := textnorm.Normalize(raw)
	return line{
		text:   text,
		label:  textnorm.Label(raw),
		tenure: isTenure(text),
	}
}

// isTenure reports whether a line carries dates, durations or employment type
// rather than a company, role or description.
func isTenure(text string) bool {
	for _, re := range tenurePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ParseExperience groups the visible lines of an experience section into
// experiences. A fragment that normalizes to an empty string separates list
// items; without separators every fragment belongs to one item:
//
//	ParseExperience([]string{"Acme", "Engineer", "", "Globex", "Manager"})
//	// [{Acme Engineer} {Globex Manager}]
//	ParseExperience([]string{"Acme", "Engineer", "Globex", "Manager"})
//	// [{Acme Engineer "Globex Manager"}]
//
// Duplicated blocks from overlapping captures are collapsed, and a
// (company, role) pair seen earlier in the section is dropped.
func ParseExperience(fragments []string) []profile.Experience {
	var experiences []profile.Experience
	for _, item := range splitItems(fragments) {
		layout := detectLayout(item)
		lines := textnorm.CollapseRepeats(item)
		experiences = append(experiences, groupers[layout](lines)...)
	}
	return dedupe(experiences)
}

func splitItems(fragments []string) [][]line {
	var (
		items   [][]line
		current []line
	)
	for _, raw := range fragments {
		l := newLine(raw)
		if l.text == "" {
			if len(current) > 0 {
				items = append(items, current)
				current = nil
			}
			continue
		}
		current = append(current, l)
	}
	if len(current) > 0 {
		items = append(items, current)
	}
	return items
}

// detectLayout picks the layout variant of a single list item. A company line
// repeated right after itself and followed by two or more role lines marks a
// grouped item; the repeat is only visible before duplicates are collapsed.
// Role lines anchored by tenure lines are a second signal.
func detectLayout(lines []line) Layout {
	if repeatedHeader(lines) {
		return LayoutGrouped
	}

	lines = textnorm.CollapseRepeats(lines)
	anchors := roleAnchors(lines)
	if len(lines) > 1 && lines[1].tenure && len(anchors) > 0 {
		return LayoutGrouped
	}
	if len(anchors) >= 2 {
		return LayoutGrouped
	}
	return LayoutFlat
}

func repeatedHeader(lines []line) bool {
	if len(lines) < 2 || lines[0].tenure {
		return false
	}
	if textnorm.Key(lines[0].label) != textnorm.Key(lines[1].label) {
		return false
	}
	return len(headerRoles(lines)) >= 2
}

// headerRoles returns the distinct lines after the company header that are
// neither tenure lines nor repeats of the header.
func headerRoles(lines []line) []line {
	header := textnorm.Key(lines[0].label)

	var roles []line
	for _, l := range textnorm.CollapseRepeats(lines[1:]) {
		if l.tenure || textnorm.Key(l.label) == header {
			continue
		}
		roles = append(roles, l)
	}
	return roles
}

// roleAnchors returns indexes of lines directly followed by a tenure line.
// The first line is always the company and never an anchor.
func roleAnchors(lines []line) []int {
	var anchors []int
	for i := 1; i+1 < len(lines); i++ {
		if !lines[i].tenure && lines[i+1].tenure {
			anchors = append(anchors, i)
		}
	}
	return anchors
}

func groupFlat(lines []line) []profile.Experience {
	content := make([]line, 0, len(lines))
	for _, l := range lines {
		if !l.tenure {
			content = append(content, l)
		}
	}
	if len(content) == 0 {
		return nil
	}

	exp := profile.Experience{Company: content[0].label}
	if len(content) > 1 {
		exp.Role = content[1].label
	}
	if len(content) > 2 {
		exp.Description = joinText(content[2:])
	}
	return []profile.Experience{exp}
}

func groupGrouped(lines []line) []profile.Experience {
	company := lines[0].label
	anchors := roleAnchors(lines)

	// Undated roles under a repeated header: every line is a role.
	if len(anchors) == 0 {
		roles := headerRoles(lines)
		experiences := make([]profile.Experience, 0, len(roles))
		for _, l := range roles {
			experiences = append(experiences, profile.Experience{Company: company, Role: l.label})
		}
		return experiences
	}

	experiences := make([]profile.Experience, 0, len(anchors))
	for n, idx := range anchors {
		end := len(lines)
		if n+1 < len(anchors) {
			end = anchors[n+1]
		}

		var description []line
		for _, l := range lines[idx+1 : end] {
			if !l.tenure {
				description = append(description, l)
			}
		}

		experiences = append(experiences, profile.Experience{
			Company:     company,
			Role:        lines[idx].label,
			Description: joinText(description),
		})
	}
	return experiences
}

func joinText(lines []line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.text)
	}
	return textnorm.Normalize(strings.Join(parts, " "))
}

func dedupe(experiences []profile.Experience) []profile.Experience {
	seen := make(map[string]struct{}, len(experiences))
	out := make([]profile.Experience, 0, len(experiences))
	for _, exp := range experiences {
		if exp.Company == "" && exp.Role == "" {
			continue
		}

		key := textnorm.Key(exp.Company) + "\x00" + textnorm.Key(exp.Role)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, exp)
	}
	return out
}

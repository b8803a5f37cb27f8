package candidates

import (
	"fmt"

	"github.com/spigell/profile-guesser/internal/profile"
	"github.com/spigell/profile-guesser/internal/textnorm"
)

// Attribute names the experience field a feature looks at.
type Attribute string

const (
	AttributeCompany Attribute = "company"
	AttributeRole    Attribute = "role"
)

// Feature is the predicate "has an experience whose Attribute equals Value".
// Values are compared by their normalized, case-folded key.
type Feature struct {
	Attribute Attribute
	// Value is the text as it first appeared in the data, used for display.
	Value string
	key   string
}

func NewFeature(attr Attribute, value string) Feature {
	return Feature{Attribute: attr, Value: textnorm.Normalize(value), key: textnorm.Key(value)}
}

// ID identifies the feature across rounds of one session.
func (f Feature) ID() string {
	return fmt.Sprintf("%s:%s", f.Attribute, f.key)
}

func (f Feature) String() string {
	return fmt.Sprintf("%s=%q", f.Attribute, f.Value)
}

// Eval reports whether the profile has the feature. A profile without the
// referenced data evaluates to false.
func (f Feature) Eval(p profile.Profile) bool {
	if f.key == "" {
		return false
	}
	for _, exp := range p.Experiences {
		if textnorm.Key(attributeValue(exp, f.Attribute)) == f.key {
			return true
		}
	}
	return false
}

func attributeValue(exp profile.Experience, attr Attribute) string {
	switch attr {
	case AttributeCompany:
		return exp.Company
	case AttributeRole:
		return exp.Role
	default:
		return ""
	}
}

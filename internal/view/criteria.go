package view

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"talentflow/internal/pipeline"
)

// Range is an inclusive integer bound. A nil end is open.
type Range struct {
	Min *int
	Max *int
}

// Between returns the closed range [lo, hi].
func Between(lo, hi int) Range { return Range{Min: &lo, Max: &hi} }

// AtLeast returns [lo, +inf).
func AtLeast(lo int) Range { return Range{Min: &lo} }

// AtMost returns (-inf, hi].
func AtMost(hi int) Range { return Range{Max: &hi} }

func (r Range) IsZero() bool { return r.Min == nil && r.Max == nil }

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Criteria narrows a list of applications. Zero-valued fields match everything.
type Criteria struct {
	// Query matches candidate name, email, or any skill as a case-insensitive substring.
	Query      string
	SkillMatch Range
	// Experience bounds parsed experience years.
	Experience Range
	// Location is a case-insensitive substring of the candidate location.
	Location string
	// Skills must all be present, compared case-insensitively.
	Skills []string
}

// IsZero reports whether c filters nothing out.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Query) == "" &&
		c.SkillMatch.IsZero() &&
		c.Experience.IsZero() &&
		strings.TrimSpace(c.Location) == "" &&
		len(c.requiredSkills(cases.Fold())) == 0
}

func (c Criteria) requiredSkills(fold cases.Caser) []string {
	out := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, fold.String(s))
		}
	}
	return out
}

// matcher is Criteria prepared for repeated evaluation.
type matcher struct {
	fold     cases.Caser
	query    string
	location string
	skills   []string
	skill    Range
	exp      Range
}

func (c Criteria) compile() *matcher {
	fold := cases.Fold()
	return &matcher{
		fold:     fold,
		query:    fold.String(strings.TrimSpace(c.Query)),
		location: fold.String(strings.TrimSpace(c.Location)),
		skills:   c.requiredSkills(fold),
		skill:    c.SkillMatch,
		exp:      c.Experience,
	}
}

func (m *matcher) match(app pipeline.Application, years int) bool {
	if m.query != "" && !m.matchesQuery(app) {
		return false
	}
	if !m.skill.Contains(app.SkillMatch) {
		return false
	}
	if !m.exp.Contains(years) {
		return false
	}
	if m.location != "" && !strings.Contains(m.fold.String(app.Candidate.Location), m.location) {
		return false
	}
	if len(m.skills) > 0 {
		have := make(map[string]struct{}, len(app.Candidate.Skills))
		for _, s := range app.Candidate.Skills {
			have[m.fold.String(strings.TrimSpace(s))] = struct{}{}
		}
		for _, want := range m.skills {
			if _, ok := have[want]; !ok {
				return false
			}
		}
	}
	return true
}

func (m *matcher) matchesQuery(app pipeline.Application) bool {
	if strings.Contains(m.fold.String(app.Candidate.Name), m.query) {
		return true
	}
	if strings.Contains(m.fold.String(app.Candidate.Email), m.query) {
		return true
	}
	for _, s := range app.Candidate.Skills {
		if strings.Contains(m.fold.String(s), m.query) {
			return true
		}
	}
	return false
}

// ParseExperience returns the leading integer of text as years. ok is false
// when text has no leading integer, in which case years is 0.
func ParseExperience(text string) (years int, ok bool) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	digits := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			break
		}
		if years > (1<<31-1-int(r-'0'))/10 {
			return 0, false
		}
		years = years*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	return years, true
}

package view

import (
	"fmt"
	"strings"

	"talentflow/internal/pipeline"
)

// SortKey selects the ordering of a derived view.
type SortKey string

const (
	SortAppliedDate    SortKey = "applied_date"
	SortSkillMatch     SortKey = "skill_match"
	SortCompositeScore SortKey = "composite_score"
	SortName           SortKey = "name"
	SortExperience     SortKey = "experience"
)

var allSortKeys = []SortKey{
	SortAppliedDate,
	SortSkillMatch,
	SortCompositeScore,
	SortName,
	SortExperience,
}

var sortKeyAliases = map[string]SortKey{
	"applied": SortAppliedDate,
	"date":    SortAppliedDate,
	"skill":   SortSkillMatch,
	"match":   SortSkillMatch,
	"score":   SortCompositeScore,
	"exp":     SortExperience,
}

// SortKeys returns the supported keys in display order.
func SortKeys() []SortKey {
	return append([]SortKey(nil), allSortKeys...)
}

// ParseSortKey accepts canonical names (case-insensitive, dashes allowed) and a
// few short aliases.
func ParseSortKey(value string) (SortKey, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
	if normalized == "" {
		return SortAppliedDate, nil
	}
	for _, key := range allSortKeys {
		if string(key) == normalized {
			return key, nil
		}
	}
	if key, ok := sortKeyAliases[normalized]; ok {
		return key, nil
	}
	return "", fmt.Errorf("unknown sort key %q", value)
}

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts asc/ascending and desc/descending.
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", value)
	}
}

// Weights are in tenths so rounding stays exact.
const (
	skillWeightTenths = 7
	yearWeightTenths  = 30
	yearCap           = 10
	maxCompositeScore = 100
)

// CompositeScore is the source-supplied score when present, otherwise
// round(0.7*skillMatch + 3*min(years, 10)) capped at 100.
func CompositeScore(app pipeline.Application) int {
	if app.Score != nil {
		return *app.Score
	}
	years, _ := ParseExperience(app.Experience)
	return computedScore(app.SkillMatch, years)
}

func computedScore(skillMatch, years int) int {
	years = min(years, yearCap)
	tenths := skillWeightTenths*max(skillMatch, 0) + yearWeightTenths*max(years, 0)
	return min((tenths+5)/10, maxCompositeScore)
}

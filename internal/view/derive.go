package view

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"talentflow/internal/pipeline"
)

// Stats summarizes one derivation.
type Stats struct {
	Total   int
	Matched int
	// UnparsedExperience counts input records whose experience text had no
	// leading integer and was treated as 0 years.
	UnparsedExperience int
	UnparsedIDs        []string
}

// Derive filters apps by criteria and orders the result by key and dir.
func Derive(apps []pipeline.Application, criteria Criteria, key SortKey, dir Direction) []pipeline.Application {
	out, _ := DeriveWithStats(apps, criteria, key, dir)
	return out
}

type row struct {
	app   pipeline.Application
	years int
}

// DeriveWithStats is Derive plus counters for observability.
func DeriveWithStats(apps []pipeline.Application, criteria Criteria, key SortKey, dir Direction) ([]pipeline.Application, Stats) {
	m := criteria.compile()
	stats := Stats{Total: len(apps)}

	rows := make([]row, 0, len(apps))
	for _, app := range apps {
		years, ok := ParseExperience(app.Experience)
		if !ok {
			stats.UnparsedExperience++
			stats.UnparsedIDs = append(stats.UnparsedIDs, app.ID)
		}
		if m.match(app, years) {
			rows = append(rows, row{app: app.Clone(), years: years})
		}
	}
	stats.Matched = len(rows)

	less := lessFunc(key, m.fold)
	if dir == Desc {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[j], rows[i]) })
	} else {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	}

	out := make([]pipeline.Application, len(rows))
	for i, r := range rows {
		out[i] = r.app
	}
	return out, stats
}

func lessFunc(key SortKey, fold cases.Caser) func(a, b row) bool {
	switch key {
	case SortSkillMatch:
		return func(a, b row) bool { return a.app.SkillMatch < b.app.SkillMatch }
	case SortCompositeScore:
		return func(a, b row) bool { return rowScore(a) < rowScore(b) }
	case SortName:
		return func(a, b row) bool {
			return strings.Compare(fold.String(a.app.Candidate.Name), fold.String(b.app.Candidate.Name)) < 0
		}
	case SortExperience:
		return func(a, b row) bool { return a.years < b.years }
	default:
		return func(a, b row) bool { return a.app.AppliedDate.Before(b.app.AppliedDate) }
	}
}

func rowScore(r row) int {
	if r.app.Score != nil {
		return *r.app.Score
	}
	return computedScore(r.app.SkillMatch, r.years)
}

package boardserver

import (
	"context"
	"fmt"

	"talentflow/internal/fallback"
)

// SeedReport counts what SeedFixtures wrote.
type SeedReport struct {
	Jobs         int
	Applications int
}

// SeedFixtures copies every fixture-backed job of cache into the database,
// replacing existing rows for those jobs. Jobs not in the fixture file are
// left alone.
func (s *Store) SeedFixtures(ctx context.Context, cache *fallback.Cache) (SeedReport, error) {
	var report SeedReport
	if cache == nil {
		return report, nil
	}
	for _, jobID := range cache.FixtureJobs() {
		ds := cache.Dataset(jobID)
		if err := s.PutJob(ctx, ds.Job); err != nil {
			return report, fmt.Errorf("seed job %s: %w", jobID, err)
		}
		if err := s.ReplaceApplications(ctx, jobID, ds.Applications); err != nil {
			return report, fmt.Errorf("seed applications %s: %w", jobID, err)
		}
		report.Jobs++
		report.Applications += len(ds.Applications)
	}
	return report, nil
}

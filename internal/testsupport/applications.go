package testsupport

import (
	"fmt"
	"time"

	"talentflow/internal/pipeline"
)

// BaseAppliedDate anchors generated applied dates so tests are deterministic.
var BaseAppliedDate = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// SampleApplications returns n applications for jobID, all in status, with ids
// app-1..app-n. Applied dates advance one day per record.
func SampleApplications(jobID string, n int, status string) []pipeline.Application {
	apps := make([]pipeline.Application, 0, n)
	for i := 1; i <= n; i++ {
		apps = append(apps, pipeline.Application{
			ID:    fmt.Sprintf("app-%d", i),
			JobID: jobID,
			Candidate: pipeline.Candidate{
				Name:     fmt.Sprintf("Candidate %d", i),
				Title:    "Software Engineer",
				Location: "Remote",
				Email:    fmt.Sprintf("candidate%d@example.com", i),
				Skills:   []string{"Go", "SQL"},
			},
			Status:      status,
			SkillMatch:  50 + i,
			Experience:  fmt.Sprintf("%d years", i),
			AppliedDate: BaseAppliedDate.AddDate(0, 0, i),
		})
	}
	return apps
}

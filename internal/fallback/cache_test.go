package fallback_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"talentflow/internal/fallback"
	"talentflow/internal/services"
	"talentflow/internal/stage"
)

func TestEmbeddedFixturesParse(t *testing.T) {
	cache, err := fallback.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := cache.FixtureJobs(); !reflect.DeepEqual(got, []string{"job-42", "job-7"}) {
		t.Fatalf("unexpected fixture jobs: %v", got)
	}

	apps, err := cache.Applications(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("Applications: %v", err)
	}
	if len(apps) != 8 {
		t.Fatalf("expected 8 fixture applications, got %d", len(apps))
	}
	reg := stage.Default()
	for _, app := range apps {
		if app.JobID != "job-42" {
			t.Fatalf("expected job id stamped on %s", app.ID)
		}
		if !reg.Contains(app.Status) {
			t.Fatalf("fixture %s has unregistered status %q", app.ID, app.Status)
		}
		if app.AppliedDate.IsZero() {
			t.Fatalf("fixture %s missing applied date", app.ID)
		}
	}
	if apps[2].InterviewDate == nil {
		t.Fatal("expected interview date on job-42-app-3")
	}
	if apps[4].OfferAmount == nil || *apps[4].OfferAmount != 118000 {
		t.Fatal("expected offer amount on job-42-app-5")
	}

	job, err := cache.Job(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if job.Title != "Senior Backend Engineer" || job.SalaryMax != 130000 {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestSyntheticDatasetIsDeterministic(t *testing.T) {
	a := fallback.Synthesize("job-unknown-99")
	b := fallback.Synthesize("job-unknown-99")
	if !reflect.DeepEqual(a, b) {
		t.Fatal("expected identical datasets for the same job id")
	}
	if len(a.Applications) < 6 || len(a.Applications) > 10 {
		t.Fatalf("unexpected application count %d", len(a.Applications))
	}
	other := fallback.Synthesize("job-unknown-100")
	if reflect.DeepEqual(a.Applications, other.Applications) {
		t.Fatal("expected different job ids to produce different datasets")
	}
	reg := stage.Default()
	for _, app := range a.Applications {
		if !reg.Contains(app.Status) {
			t.Fatalf("synthetic status %q not registered", app.Status)
		}
		if app.SkillMatch < 0 || app.SkillMatch > 100 {
			t.Fatalf("skill match out of range: %d", app.SkillMatch)
		}
	}

	c1, _ := fallback.New()
	c2, _ := fallback.New()
	r1, _ := c1.Applications(context.Background(), "job-unknown-99")
	r2, _ := c2.Applications(context.Background(), "job-unknown-99")
	if !reflect.DeepEqual(r1, r2) {
		t.Fatal("expected separate caches to agree on synthetic data")
	}
}

func TestUpdateStatusPersistsWithinSession(t *testing.T) {
	ctx := context.Background()
	cache, err := fallback.New(fallback.WithRegistry(stage.Default()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := cache.UpdateStatus(ctx, "job-42-app-1", stage.Reviewed); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found before the job is read, got %v", err)
	}

	if _, err := cache.Applications(ctx, "job-42"); err != nil {
		t.Fatalf("Applications: %v", err)
	}
	updated, err := cache.UpdateStatus(ctx, "job-42-app-1", stage.Reviewed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != stage.Reviewed || updated.Version != 1 {
		t.Fatalf("unexpected updated record: %+v", updated)
	}

	apps, _ := cache.Applications(ctx, "job-42")
	if apps[0].Status != stage.Reviewed {
		t.Fatalf("expected later read to see the write, got %q", apps[0].Status)
	}

	if _, err := cache.UpdateStatus(ctx, "job-42-app-1", "archived"); !errors.Is(err, services.ErrInvalidStage) {
		t.Fatalf("expected invalid stage error, got %v", err)
	}
}

func TestBulkUpdateStatusReportsPerID(t *testing.T) {
	ctx := context.Background()
	cache, _ := fallback.New()
	if _, err := cache.Applications(ctx, "job-7"); err != nil {
		t.Fatalf("Applications: %v", err)
	}
	results, err := cache.BulkUpdateStatus(ctx, []string{"job-7-app-1", "nope", "job-7-app-2"}, stage.Offered)
	if err != nil {
		t.Fatalf("BulkUpdateStatus: %v", err)
	}
	if len(results) != 3 || !results[0].OK || results[1].OK || !results[2].OK {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[1].Error == "" {
		t.Fatal("expected error text for missing id")
	}
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	cache, _ := fallback.New()
	apps, _ := cache.Applications(ctx, "job-42")
	apps[0].Status = "mutated"
	apps[0].Candidate.Skills[0] = "mutated"
	again, _ := cache.Applications(ctx, "job-42")
	if again[0].Status == "mutated" || again[0].Candidate.Skills[0] == "mutated" {
		t.Fatal("expected cache isolated from caller mutation")
	}
}

func TestParseFixturesRejectsDuplicates(t *testing.T) {
	payload := []byte(`
jobs:
  - id: a
    applications:
      - id: x
        applied: "2026-01-01"
  - id: b
    applications:
      - id: x
        applied: "2026-01-01"
`)
	if _, err := fallback.ParseFixtures(payload); err == nil {
		t.Fatal("expected duplicate application error")
	}
	if _, err := fallback.ParseFixtures([]byte("jobs:\n  - id: a\n    applications:\n      - id: y\n        applied: \"Jan 1\"\n")); err == nil {
		t.Fatal("expected bad date error")
	}
}

package pipeline_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"talentflow/internal/pipeline"
	"talentflow/internal/services"
	"talentflow/internal/stage"
	"talentflow/internal/testsupport"
)

func newStore(t *testing.T, apps []pipeline.Application) *pipeline.Store {
	t.Helper()
	fixed := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	store := pipeline.NewStore(stage.Default(), pipeline.WithClock(func() time.Time { return fixed }))
	store.Load(apps)
	return store
}

func TestLoadCopiesRecordsAndPreservesOrder(t *testing.T) {
	apps := testsupport.SampleApplications("job-1", 3, stage.Applied)
	store := newStore(t, apps)

	apps[0].Candidate.Skills[0] = "mutated"
	apps[0].Status = stage.Rejected

	got, ok := store.Get("app-1")
	if !ok {
		t.Fatal("expected app-1 to be present")
	}
	if got.Candidate.Skills[0] != "Go" || got.Status != stage.Applied {
		t.Fatalf("expected store isolated from caller slice, got %+v", got)
	}

	all := store.All()
	ids := []string{all[0].ID, all[1].ID, all[2].ID}
	if !reflect.DeepEqual(ids, []string{"app-1", "app-2", "app-3"}) {
		t.Fatalf("unexpected order: %v", ids)
	}

	all[1].Status = stage.Offered
	if again, _ := store.Get("app-2"); again.Status != stage.Applied {
		t.Fatal("expected All to return copies")
	}
}

func TestLoadIsIdempotentAndReplacesContents(t *testing.T) {
	apps := testsupport.SampleApplications("job-1", 4, stage.Applied)
	store := newStore(t, apps)
	if _, err := store.SetStatus("app-1", stage.Reviewed); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	store.Load(apps[:2])
	first := store.All()
	store.Load(apps[:2])
	second := store.All()

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected repeated Load to yield identical state")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 records after reload, got %d", store.Len())
	}
	if len(store.History()) != 0 {
		t.Fatal("expected history cleared by Load")
	}
	if got, _ := store.Get("app-1"); got.Status != stage.Applied {
		t.Fatalf("expected reload to replace mutated status, got %q", got.Status)
	}
}

func TestLoadReportsDuplicatesAndUnknownStatuses(t *testing.T) {
	apps := testsupport.SampleApplications("job-1", 3, stage.Applied)
	apps[1].Status = "ghosted"
	apps = append(apps, apps[0])

	store := pipeline.NewStore(stage.Default())
	summary := store.Load(apps)

	if summary.Loaded != 3 {
		t.Fatalf("expected 3 loaded, got %d", summary.Loaded)
	}
	if !reflect.DeepEqual(summary.Duplicates, []string{"app-1"}) {
		t.Fatalf("unexpected duplicates: %v", summary.Duplicates)
	}
	if !reflect.DeepEqual(summary.Unknown, []string{"app-2"}) {
		t.Fatalf("unexpected unknown: %v", summary.Unknown)
	}
}

func TestSetStatusChangesOnlyStatus(t *testing.T) {
	store := newStore(t, testsupport.SampleApplications("job-1", 3, stage.Applied))
	before, _ := store.Get("app-2")

	change, err := store.SetStatus("app-2", stage.InterviewScheduled)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if !change.Changed || change.From != stage.Applied || change.To != stage.InterviewScheduled {
		t.Fatalf("unexpected change: %+v", change)
	}
	if change.Version != before.Version+1 {
		t.Fatalf("expected version bump, got %d", change.Version)
	}

	after, _ := store.Get("app-2")
	after.Status = before.Status
	after.Version = before.Version
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected only status and version to change:\nbefore %+v\nafter  %+v", before, after)
	}

	for _, id := range []string{"app-1", "app-3"} {
		if other, _ := store.Get(id); other.Status != stage.Applied || other.Version != 0 {
			t.Fatalf("unrelated record %s changed: %+v", id, other)
		}
	}
}

func TestSetStatusIsIdempotent(t *testing.T) {
	store := newStore(t, testsupport.SampleApplications("job-1", 2, stage.Applied))

	if _, err := store.SetStatus("app-1", stage.Reviewed); err != nil {
		t.Fatalf("first SetStatus: %v", err)
	}
	once := store.All()
	historyOnce := store.History()

	change, err := store.SetStatus("app-1", stage.Reviewed)
	if err != nil {
		t.Fatalf("second SetStatus: %v", err)
	}
	if change.Changed {
		t.Fatal("expected repeated SetStatus to report no change")
	}
	if !reflect.DeepEqual(once, store.All()) {
		t.Fatal("expected identical state after repeated SetStatus")
	}
	if !reflect.DeepEqual(historyOnce, store.History()) || len(historyOnce) != 1 {
		t.Fatalf("expected exactly one history entry, got %+v", store.History())
	}
}

func TestSetStatusErrors(t *testing.T) {
	store := newStore(t, testsupport.SampleApplications("job-1", 1, stage.Applied))

	_, err := store.SetStatus("missing", stage.Reviewed)
	var nf *pipeline.NotFoundError
	if !errors.As(err, &nf) || nf.ID != "missing" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatal("expected NotFoundError to unwrap to ErrNotFound")
	}

	_, err = store.SetStatus("app-1", "archived")
	var inv *pipeline.InvalidStageError
	if !errors.As(err, &inv) || inv.Stage != "archived" {
		t.Fatalf("expected InvalidStageError, got %v", err)
	}
	if !errors.Is(err, services.ErrInvalidStage) || !services.IsProgrammerError(err) {
		t.Fatal("expected InvalidStageError to classify as programmer error")
	}
	if got, _ := store.Get("app-1"); got.Status != stage.Applied {
		t.Fatal("expected rejected transition to leave store untouched")
	}
}

func TestSetStatusIfVersionDetectsConflict(t *testing.T) {
	store := newStore(t, testsupport.SampleApplications("job-1", 1, stage.Applied))

	change, err := store.SetStatusIfVersion("app-1", stage.Reviewed, 0)
	if err != nil {
		t.Fatalf("SetStatusIfVersion: %v", err)
	}
	if change.Version != 1 {
		t.Fatalf("expected version 1, got %d", change.Version)
	}

	_, err = store.SetStatusIfVersion("app-1", stage.Offered, 0)
	var conflict *pipeline.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Expected != 0 || conflict.Actual != 1 {
		t.Fatalf("unexpected conflict detail: %+v", conflict)
	}
	if !errors.Is(err, services.ErrConflict) {
		t.Fatal("expected ConflictError to unwrap to ErrConflict")
	}
	if got, _ := store.Get("app-1"); got.Status != stage.Reviewed {
		t.Fatalf("expected conflicting write to be rejected, got %q", got.Status)
	}
}

func TestPartitionIsTotal(t *testing.T) {
	apps := testsupport.SampleApplications("job-1", 8, stage.Applied)
	apps[2].Status = stage.Offered
	apps[5].Status = "withdrawn"
	apps[7].Status = ""
	store := newStore(t, apps)

	steps := []struct {
		id, to string
	}{
		{"app-1", stage.Reviewed},
		{"app-2", stage.Rejected},
		{"app-6", stage.Selected},
		{"app-1", stage.InterviewScheduled},
	}

	check := func() {
		t.Helper()
		part := store.Partition()
		if part.Total() != store.Len() {
			t.Fatalf("partition total %d != store len %d", part.Total(), store.Len())
		}
		seen := map[string]int{}
		for _, bucket := range part.Buckets {
			for _, app := range bucket.Applications {
				seen[app.ID]++
			}
		}
		for _, app := range store.All() {
			if seen[app.ID] != 1 {
				t.Fatalf("application %s appears %d times", app.ID, seen[app.ID])
			}
		}
		last := part.Buckets[len(part.Buckets)-1]
		if last.StageID != stage.Unknown {
			t.Fatalf("expected unknown bucket last, got %q", last.StageID)
		}
	}

	check()
	if got := store.Partition().Count(stage.Unknown); got != 2 {
		t.Fatalf("expected 2 unknown applications, got %d", got)
	}
	for _, step := range steps {
		if _, err := store.SetStatus(step.id, step.to); err != nil {
			t.Fatalf("SetStatus(%s, %s): %v", step.id, step.to, err)
		}
		check()
	}
	if got := store.Partition().Count(stage.Unknown); got != 1 {
		t.Fatalf("expected moved record to leave unknown bucket, got %d", got)
	}
}

func TestHistoryRecordsTransitions(t *testing.T) {
	store := newStore(t, testsupport.SampleApplications("job-1", 1, stage.Applied))
	_, _ = store.SetStatus("app-1", stage.Reviewed)
	_, _ = store.SetStatus("app-1", stage.Offered)

	history := store.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[1].From != stage.Reviewed || history[1].To != stage.Offered || history[1].Version != 2 {
		t.Fatalf("unexpected history entry: %+v", history[1])
	}
	if history[0].At.IsZero() {
		t.Fatal("expected timestamp on history entry")
	}
}

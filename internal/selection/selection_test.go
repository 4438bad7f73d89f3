package selection_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"talentflow/internal/pipeline"
	"talentflow/internal/selection"
	"talentflow/internal/services"
	"talentflow/internal/stage"
	"talentflow/internal/testsupport"
	"talentflow/internal/view"
)

func TestToggleAndOrder(t *testing.T) {
	sel := selection.New(stage.Default())
	for _, id := range []string{"app-3", "app-1", "app-2"} {
		if !sel.Toggle(id) {
			t.Fatalf("expected %s to be selected", id)
		}
	}
	if sel.Toggle("app-1") {
		t.Fatal("expected second toggle to deselect")
	}
	if got := sel.IDs(); !reflect.DeepEqual(got, []string{"app-3", "app-2"}) {
		t.Fatalf("unexpected ids: %v", got)
	}
	if sel.Contains("app-1") || !sel.Contains("app-2") || sel.Len() != 2 {
		t.Fatal("membership out of sync with order")
	}
	sel.Clear()
	if sel.Len() != 0 || sel.Contains("app-3") {
		t.Fatal("expected Clear to empty the selection")
	}
}

func TestSelectAllUsesFilteredView(t *testing.T) {
	apps := testsupport.SampleApplications("job-1", 6, stage.Applied)
	filtered := view.Derive(apps, view.Criteria{SkillMatch: view.AtLeast(54)}, view.SortAppliedDate, view.Asc)

	sel := selection.New(stage.Default())
	sel.SelectAll(filtered)

	if got := sel.IDs(); !reflect.DeepEqual(got, []string{"app-4", "app-5", "app-6"}) {
		t.Fatalf("expected only visible applications selected, got %v", got)
	}
}

func TestPruneDropsIdsOutsideView(t *testing.T) {
	apps := testsupport.SampleApplications("job-1", 3, stage.Applied)
	sel := selection.New(stage.Default())
	sel.SelectAll(apps)

	narrowed := []pipeline.Application{apps[0], apps[2]}
	dropped := sel.Prune(narrowed)

	if !reflect.DeepEqual(dropped, []string{"app-2"}) {
		t.Fatalf("unexpected dropped ids: %v", dropped)
	}
	if got := sel.IDs(); !reflect.DeepEqual(got, []string{"app-1", "app-3"}) {
		t.Fatalf("unexpected remaining ids: %v", got)
	}
}

func TestApplyBulkToleratesPartialFailure(t *testing.T) {
	store := pipeline.NewStore(stage.Default())
	store.Load(testsupport.SampleApplications("job-1", 3, stage.Applied))

	sel := selection.New(stage.Default())
	sel.Toggle("app-1")
	sel.Toggle("app-2")
	sel.Toggle("app-3")

	persistErr := errors.New("remote write failed")
	var calls []string
	setter := func(_ context.Context, id, status string) error {
		calls = append(calls, id)
		if _, err := store.SetStatus(id, status); err != nil {
			return err
		}
		if id == "app-2" {
			return persistErr
		}
		return nil
	}

	result, err := sel.ApplyBulk(context.Background(), stage.Reviewed, setter)
	if err != nil {
		t.Fatalf("ApplyBulk: %v", err)
	}
	if !reflect.DeepEqual(calls, []string{"app-1", "app-2", "app-3"}) {
		t.Fatalf("expected calls in selection order, got %v", calls)
	}
	if result.Succeeded() != 2 {
		t.Fatalf("expected 2 successes, got %d", result.Succeeded())
	}
	failed := result.Failed()
	if len(failed) != 1 || failed[0].ID != "app-2" || !errors.Is(failed[0].Err, persistErr) {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	for _, id := range []string{"app-1", "app-3"} {
		if got, _ := store.Get(id); got.Status != stage.Reviewed {
			t.Fatalf("expected %s updated locally, got %q", id, got.Status)
		}
	}
	if sel.Len() != 0 {
		t.Fatal("expected selection cleared after bulk apply")
	}
}

func TestApplyBulkRejectsUnknownStageBeforeCalling(t *testing.T) {
	sel := selection.New(stage.Default())
	sel.Toggle("app-1")

	called := false
	_, err := sel.ApplyBulk(context.Background(), "archived", func(context.Context, string, string) error {
		called = true
		return nil
	})
	if !errors.Is(err, services.ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
	if called {
		t.Fatal("expected setter not to be called")
	}
	if sel.Len() != 1 {
		t.Fatal("expected selection retained after rejected bulk")
	}
}

func TestDestructiveClassificationIsDataDriven(t *testing.T) {
	reg, err := stage.NewRegistry(stage.Stage{ID: "open"}, stage.Stage{ID: "withdrawn", Destructive: true})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	sel := selection.New(reg)
	if !sel.IsDestructive("withdrawn") || sel.IsDestructive("open") {
		t.Fatal("unexpected destructive classification")
	}
	if err := sel.RequireConfirmation("withdrawn", false); !errors.Is(err, selection.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if err := sel.RequireConfirmation("withdrawn", true); err != nil {
		t.Fatalf("expected confirmed transition to pass, got %v", err)
	}
	if err := sel.RequireConfirmation("open", false); err != nil {
		t.Fatalf("expected non-destructive transition to pass, got %v", err)
	}
}

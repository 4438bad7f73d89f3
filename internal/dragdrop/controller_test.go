package dragdrop_test

import (
	"context"
	"errors"
	"testing"

	"talentflow/internal/dragdrop"
)

type recorder struct {
	calls []string
	err   error
}

func (r *recorder) Transition(_ context.Context, id, stageID string) error {
	r.calls = append(r.calls, id+"->"+stageID)
	return r.err
}

func TestDropOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		dest    *dragdrop.Location
		outcome dragdrop.Outcome
		calls   int
	}{
		{name: "outside", dest: nil, outcome: dragdrop.OutcomeOutside},
		{name: "same slot", dest: &dragdrop.Location{StageID: "applied", Index: 2}, outcome: dragdrop.OutcomeInvalid},
		{name: "same column new index", dest: &dragdrop.Location{StageID: "applied", Index: 0}, outcome: dragdrop.OutcomeReordered},
		{name: "other column", dest: &dragdrop.Location{StageID: "reviewed", Index: 5}, outcome: dragdrop.OutcomeValid, calls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			ctrl := dragdrop.NewController(rec)
			ctrl.Begin("app-7", "applied", 2)
			if ctrl.State() != dragdrop.StateDragging {
				t.Fatal("expected dragging state after Begin")
			}

			res, err := ctrl.Drop(context.Background(), tt.dest)
			if err != nil {
				t.Fatalf("Drop: %v", err)
			}
			if res.Outcome != tt.outcome {
				t.Fatalf("expected %s, got %s", tt.outcome, res.Outcome)
			}
			if len(rec.calls) != tt.calls {
				t.Fatalf("expected %d transitions, got %v", tt.calls, rec.calls)
			}
			if tt.calls == 1 && rec.calls[0] != "app-7->reviewed" {
				t.Fatalf("unexpected transition %q", rec.calls[0])
			}
			if ctrl.State() != dragdrop.StateIdle {
				t.Fatal("expected idle after drop")
			}
		})
	}
}

func TestDropWithoutBeginFails(t *testing.T) {
	ctrl := dragdrop.NewController(&recorder{})
	if _, err := ctrl.Drop(context.Background(), &dragdrop.Location{StageID: "reviewed"}); !errors.Is(err, dragdrop.ErrNoGesture) {
		t.Fatalf("expected ErrNoGesture, got %v", err)
	}
}

func TestCancelReturnsToIdle(t *testing.T) {
	rec := &recorder{}
	ctrl := dragdrop.NewController(rec)
	ctrl.Begin("app-1", "applied", 0)
	res := ctrl.Cancel()
	if res.Outcome != dragdrop.OutcomeCancelled || res.ApplicationID != "app-1" {
		t.Fatalf("unexpected cancel result: %+v", res)
	}
	if _, err := ctrl.Drop(context.Background(), &dragdrop.Location{StageID: "reviewed"}); !errors.Is(err, dragdrop.ErrNoGesture) {
		t.Fatalf("expected drop after cancel to fail, got %v", err)
	}
	if len(rec.calls) != 0 {
		t.Fatal("expected no transitions after cancel")
	}
}

func TestValidDropSurfacesTransitionError(t *testing.T) {
	boom := errors.New("stale application")
	ctrl := dragdrop.NewController(dragdrop.TransitionFunc(func(context.Context, string, string) error { return boom }))
	ctrl.Begin("app-1", "applied", 0)
	res, err := ctrl.Drop(context.Background(), &dragdrop.Location{StageID: "offered"})
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected transition error in result, got %v", res.Err)
	}
}

// Package selection tracks the applications an operator has picked on the
// board and applies one status transition to all of them.
package selection

import (
	"context"
	"errors"
	"fmt"

	"talentflow/internal/pipeline"
	"talentflow/internal/services"
	"talentflow/internal/stage"
)

// ErrConfirmationRequired is returned by RequireConfirmation for destructive
// targets that were not confirmed.
var ErrConfirmationRequired = errors.New("destructive transition requires confirmation")

// Set is an ordered set of application ids. It is not safe for concurrent use;
// the board controller serializes access.
type Set struct {
	registry *stage.Registry
	order    []string
	members  map[string]struct{}
}

// New returns an empty selection that classifies targets with registry.
func New(registry *stage.Registry) *Set {
	if registry == nil {
		registry = stage.Default()
	}
	return &Set{registry: registry, members: make(map[string]struct{})}
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is selected afterwards.
func (s *Set) Toggle(id string) bool {
	if _, ok := s.members[id]; ok {
		s.remove(id)
		return false
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// SelectAll selects every application in view, the currently filtered list,
// appending in view order. Applications outside the view are not added.
func (s *Set) SelectAll(view []pipeline.Application) {
	for _, app := range view {
		if _, ok := s.members[app.ID]; ok {
			continue
		}
		s.members[app.ID] = struct{}{}
		s.order = append(s.order, app.ID)
	}
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.order = nil
	s.members = make(map[string]struct{})
}

// IDs returns the selected ids in selection order.
func (s *Set) IDs() []string {
	return append([]string(nil), s.order...)
}

func (s *Set) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

func (s *Set) Len() int { return len(s.order) }

// Prune drops ids that are not in view and returns the dropped ids.
func (s *Set) Prune(view []pipeline.Application) []string {
	visible := make(map[string]struct{}, len(view))
	for _, app := range view {
		visible[app.ID] = struct{}{}
	}
	kept := s.order[:0]
	var dropped []string
	for _, id := range s.order {
		if _, ok := visible[id]; ok {
			kept = append(kept, id)
			continue
		}
		dropped = append(dropped, id)
		delete(s.members, id)
	}
	s.order = kept
	return dropped
}

func (s *Set) remove(id string) {
	delete(s.members, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// IsDestructive reports whether status needs a confirmation gate.
func (s *Set) IsDestructive(status string) bool {
	return s.registry.IsDestructive(status)
}

// RequireConfirmation returns ErrConfirmationRequired when status is
// destructive and confirmed is false.
func (s *Set) RequireConfirmation(status string, confirmed bool) error {
	if s.IsDestructive(status) && !confirmed {
		return fmt.Errorf("%w: %q", ErrConfirmationRequired, status)
	}
	return nil
}

// Setter applies one status change. The board passes its optimistic
// update-and-persist path here.
type Setter func(ctx context.Context, id, status string) error

// Outcome is the per-id result of ApplyBulk.
type Outcome struct {
	ID  string
	Err error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Result summarizes ApplyBulk.
type Result struct {
	Status   string
	Outcomes []Outcome
}

// Succeeded counts outcomes without an error.
func (r Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that carry an error.
func (r Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// ApplyBulk calls set for every selected id in selection order. Calls are
// independent: one failure does not stop the rest. The selection is cleared
// once every id has been attempted. An unregistered status is rejected before
// any call and leaves the selection intact.
func (s *Set) ApplyBulk(ctx context.Context, status string, set Setter) (Result, error) {
	if err := s.registry.Validate(status); err != nil {
		return Result{}, err
	}
	if set == nil {
		return Result{}, services.Wrap(services.ErrValidation, "selection", "apply bulk", "setter is required", nil)
	}
	result := Result{Status: status, Outcomes: make([]Outcome, 0, len(s.order))}
	for _, id := range s.IDs() {
		result.Outcomes = append(result.Outcomes, Outcome{ID: id, Err: set(ctx, id, status)})
	}
	s.Clear()
	return result, nil
}

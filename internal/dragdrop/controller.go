// Package dragdrop turns a single-item drag gesture on the board into at most
// one stage transition.
//
// A gesture moves idle -> dragging -> dropped. Dropping outside any column,
// or back onto the starting slot, changes nothing. Dropping within the same
// column at a new index is reported as a reorder but is not persisted, since
// intra-column order has no meaning in the store. Only a drop on a different
// column issues a transition.
package dragdrop

import (
	"context"
	"errors"
	"sync"
)

// ErrNoGesture is returned by Drop when no drag is in progress.
var ErrNoGesture = errors.New("no drag gesture in progress")

// State is the gesture lifecycle position.
type State int

const (
	StateIdle State = iota
	StateDragging
)

// Outcome classifies how a gesture ended.
type Outcome string

const (
	OutcomeOutside   Outcome = "dropped_outside"
	OutcomeInvalid   Outcome = "dropped_invalid"
	OutcomeReordered Outcome = "reordered"
	OutcomeValid     Outcome = "dropped_valid"
	OutcomeCancelled Outcome = "cancelled"
)

// Location is a board slot: a column and a position within it.
type Location struct {
	StageID string
	Index   int
}

// Transitioner performs the status change for a valid drop.
type Transitioner interface {
	Transition(ctx context.Context, applicationID, stageID string) error
}

// TransitionFunc adapts a function to Transitioner.
type TransitionFunc func(ctx context.Context, applicationID, stageID string) error

func (f TransitionFunc) Transition(ctx context.Context, applicationID, stageID string) error {
	return f(ctx, applicationID, stageID)
}

// Result describes a finished gesture.
type Result struct {
	Outcome       Outcome
	ApplicationID string
	From          Location
	To            *Location
	// Err is the transitioner error for a valid drop, if any.
	Err error
}

// Controller holds at most one active gesture.
type Controller struct {
	mu         sync.Mutex
	transition Transitioner
	state      State
	appID      string
	source     Location
}

// NewController returns an idle controller that sends valid drops to t.
func NewController(t Transitioner) *Controller {
	return &Controller{transition: t}
}

// State returns the current gesture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Begin starts dragging appID from index within sourceStage. A gesture that
// is already in progress is replaced.
func (c *Controller) Begin(appID, sourceStage string, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDragging
	c.appID = appID
	c.source = Location{StageID: sourceStage, Index: index}
}

// Cancel abandons the current gesture, if any.
func (c *Controller) Cancel() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := Result{Outcome: OutcomeCancelled, ApplicationID: c.appID, From: c.source}
	c.reset()
	return res
}

// Drop ends the gesture at dest. A nil dest means the item was released
// outside every column.
func (c *Controller) Drop(ctx context.Context, dest *Location) (Result, error) {
	c.mu.Lock()
	if c.state != StateDragging {
		c.mu.Unlock()
		return Result{}, ErrNoGesture
	}
	res := Result{ApplicationID: c.appID, From: c.source}
	if dest != nil {
		d := *dest
		res.To = &d
	}
	c.reset()
	c.mu.Unlock()

	switch {
	case dest == nil:
		res.Outcome = OutcomeOutside
	case dest.StageID == res.From.StageID && dest.Index == res.From.Index:
		res.Outcome = OutcomeInvalid
	case dest.StageID == res.From.StageID:
		res.Outcome = OutcomeReordered
	default:
		res.Outcome = OutcomeValid
		if c.transition != nil {
			res.Err = c.transition.Transition(ctx, res.ApplicationID, dest.StageID)
		}
	}
	return res, nil
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.appID = ""
	c.source = Location{}
}

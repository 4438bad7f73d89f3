package pipeline

import (
	"fmt"

	"talentflow/internal/services"
)

// NotFoundError reports a reference to an application the store does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("application %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return services.ErrNotFound }

func (e *NotFoundError) ErrorKind() string { return "not_found" }

// InvalidStageError reports a transition target that is not a registered stage.
type InvalidStageError struct {
	ID    string
	Stage string
}

func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("application %q: stage %q is not registered", e.ID, e.Stage)
}

func (e *InvalidStageError) Unwrap() error { return services.ErrInvalidStage }

func (e *InvalidStageError) ErrorKind() string { return "invalid_stage" }

// ConflictError reports a conditional write whose expected version is stale.
type ConflictError struct {
	ID       string
	Expected uint64
	Actual   uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("application %q: expected version %d, store has %d", e.ID, e.Expected, e.Actual)
}

func (e *ConflictError) Unwrap() error { return services.ErrConflict }

func (e *ConflictError) ErrorKind() string { return "conflict" }

package stage

import (
	"fmt"

	"talentflow/internal/config"
	"talentflow/internal/services"
)

// Registry is the ordered, immutable set of workflow stages.
type Registry struct {
	stages []Stage
	index  map[string]int
}

// NewRegistry validates and resolves the given stages in order. Ids must be
// non-empty, unique, and must not collide with Unknown.
func NewRegistry(stages ...Stage) (*Registry, error) {
	if len(stages) == 0 {
		return nil, services.Wrap(services.ErrValidation, "stage", "new registry", "at least one stage is required", nil)
	}
	r := &Registry{
		stages: make([]Stage, 0, len(stages)),
		index:  make(map[string]int, len(stages)),
	}
	for i, s := range stages {
		s = s.resolve()
		if s.ID == "" {
			return nil, services.Wrap(services.ErrValidation, "stage", "new registry", fmt.Sprintf("stage %d has empty id", i), nil)
		}
		if s.ID == Unknown {
			return nil, services.Wrap(services.ErrValidation, "stage", "new registry", fmt.Sprintf("stage id %q is reserved", s.ID), nil)
		}
		if _, dup := r.index[s.ID]; dup {
			return nil, services.Wrap(services.ErrValidation, "stage", "new registry", fmt.Sprintf("duplicate stage id %q", s.ID), nil)
		}
		r.index[s.ID] = len(r.stages)
		r.stages = append(r.stages, s)
	}
	return r, nil
}

// Default returns the built-in six-stage hiring workflow.
func Default() *Registry {
	r, err := NewRegistry(
		Stage{ID: Applied},
		Stage{ID: Reviewed},
		Stage{ID: InterviewScheduled},
		Stage{ID: Selected},
		Stage{ID: Offered},
		Stage{ID: Rejected},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// FromConfig builds a registry from config overrides, or the default workflow
// when none are configured.
func FromConfig(defs []config.StageDef) (*Registry, error) {
	if len(defs) == 0 {
		return Default(), nil
	}
	stages := make([]Stage, 0, len(defs))
	for _, def := range defs {
		stages = append(stages, Stage{
			ID:          def.ID,
			Label:       def.Label,
			Color:       def.Color,
			Icon:        def.Icon,
			Destructive: def.Destructive,
		})
	}
	return NewRegistry(stages...)
}

// Stages returns the stages in board order.
func (r *Registry) Stages() []Stage {
	out := make([]Stage, len(r.stages))
	copy(out, r.stages)
	return out
}

// IDs returns the stage ids in board order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.stages))
	for i, s := range r.stages {
		out[i] = s.ID
	}
	return out
}

func (r *Registry) Len() int { return len(r.stages) }

// Lookup returns the stage registered under id.
func (r *Registry) Lookup(id string) (Stage, bool) {
	idx, ok := r.index[id]
	if !ok {
		return Stage{}, false
	}
	return r.stages[idx], true
}

func (r *Registry) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Index returns the board position of id, or -1.
func (r *Registry) Index(id string) int {
	if idx, ok := r.index[id]; ok {
		return idx
	}
	return -1
}

// BucketFor maps an application status to its board bucket.
func (r *Registry) BucketFor(status string) string {
	if r.Contains(status) {
		return status
	}
	return Unknown
}

// IsDestructive reports whether moving into id should be confirmed first.
// Unregistered ids are not destructive; they are rejected elsewhere.
func (r *Registry) IsDestructive(id string) bool {
	s, ok := r.Lookup(id)
	return ok && s.Destructive
}

// Validate returns an ErrInvalidStage-tagged error when id is not registered.
func (r *Registry) Validate(id string) error {
	if r.Contains(id) {
		return nil
	}
	return services.Wrap(services.ErrInvalidStage, "stage", "validate", fmt.Sprintf("unknown stage %q", id), nil)
}

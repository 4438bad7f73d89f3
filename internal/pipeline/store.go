package pipeline

import (
	"log/slog"
	"sync"
	"time"

	"talentflow/internal/logging"
	"talentflow/internal/stage"
)

// Store is the mutex-guarded collection of applications for one job.
type Store struct {
	mu       sync.RWMutex
	registry *stage.Registry
	logger   *slog.Logger
	now      func() time.Time

	order   []string
	byID    map[string]*Application
	history []Transition
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithLogger routes data-integrity warnings to logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logging.NewComponentLogger(logger, "pipeline") }
}

// WithClock overrides the history timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an empty store validating statuses against registry.
func NewStore(registry *stage.Registry, opts ...StoreOption) *Store {
	if registry == nil {
		registry = stage.Default()
	}
	s := &Store{
		registry: registry,
		logger:   logging.NewComponentLogger(nil, "pipeline"),
		now:      time.Now,
		byID:     make(map[string]*Application),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the stage registry the store validates against.
func (s *Store) Registry() *stage.Registry { return s.registry }

// Load replaces the store contents with deep copies of records and clears
// history. The first record wins when ids repeat. Records whose status is not
// registered are kept and land in the unknown bucket.
func (s *Store) Load(records []Application) LoadSummary {
	order := make([]string, 0, len(records))
	byID := make(map[string]*Application, len(records))
	var summary LoadSummary

	for _, rec := range records {
		if _, dup := byID[rec.ID]; dup {
			summary.Duplicates = append(summary.Duplicates, rec.ID)
			continue
		}
		cp := rec.Clone()
		byID[cp.ID] = &cp
		order = append(order, cp.ID)
		if !s.registry.Contains(cp.Status) {
			summary.Unknown = append(summary.Unknown, cp.ID)
		}
	}
	summary.Loaded = len(order)

	s.mu.Lock()
	s.order = order
	s.byID = byID
	s.history = nil
	s.mu.Unlock()

	if len(summary.Duplicates) > 0 {
		logging.WarnWithContext(s.logger, "duplicate application ids dropped on load", "store_duplicate_ids",
			logging.Int("count", len(summary.Duplicates)),
			logging.Any("application_ids", summary.Duplicates),
			logging.String(logging.FieldErrorHint, "check the data source for repeated records"),
			logging.String(logging.FieldImpact, "later copies are not shown"),
		)
	}
	for _, id := range summary.Unknown {
		logging.WarnWithContext(s.logger, "application status is not a registered stage", "store_unknown_status",
			logging.String(logging.FieldApplicationID, id),
			logging.String("status", byID[id].Status),
			logging.String(logging.FieldErrorHint, "add the stage to config or fix the record"),
			logging.String(logging.FieldImpact, "application shown in the unknown bucket"),
		)
	}
	return summary
}

// SetStatus moves application id to stageID. Setting the current status is
// a no-op that records no history and keeps the version.
func (s *Store) SetStatus(id, stageID string) (Change, error) {
	return s.setStatus(id, stageID, nil)
}

// SetStatusIfVersion is SetStatus guarded by an optimistic-concurrency check.
func (s *Store) SetStatusIfVersion(id, stageID string, version uint64) (Change, error) {
	return s.setStatus(id, stageID, &version)
}

func (s *Store) setStatus(id, stageID string, expected *uint64) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.byID[id]
	if !ok {
		return Change{}, &NotFoundError{ID: id}
	}
	if !s.registry.Contains(stageID) {
		return Change{}, &InvalidStageError{ID: id, Stage: stageID}
	}
	if expected != nil && *expected != app.Version {
		return Change{}, &ConflictError{ID: id, Expected: *expected, Actual: app.Version}
	}

	change := Change{ApplicationID: id, From: app.Status, To: stageID, Version: app.Version}
	if app.Status == stageID {
		return change, nil
	}

	app.Status = stageID
	app.Version++
	change.Version = app.Version
	change.Changed = true
	s.history = append(s.history, Transition{
		ApplicationID: id,
		From:          change.From,
		To:            stageID,
		Version:       app.Version,
		At:            s.now(),
	})
	return change, nil
}

// Get returns a copy of application id.
func (s *Store) Get(id string) (Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.byID[id]
	if !ok {
		return Application{}, false
	}
	return app.Clone(), true
}

// All returns copies of every application in load order.
func (s *Store) All() []Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Application, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Partition buckets every application by status in registry order. The
// unknown bucket is always last, even when empty.
func (s *Store) Partition() Partition {
	return PartitionOf(s.registry, s.All())
}

// PartitionOf buckets apps (for example a filtered view) against registry.
func PartitionOf(registry *stage.Registry, apps []Application) Partition {
	ids := registry.IDs()
	buckets := make([]Bucket, len(ids)+1)
	for i, id := range ids {
		buckets[i] = Bucket{StageID: id, Applications: []Application{}}
	}
	buckets[len(ids)] = Bucket{StageID: stage.Unknown, Applications: []Application{}}

	for _, app := range apps {
		idx := registry.Index(app.Status)
		if idx < 0 {
			idx = len(ids)
		}
		buckets[idx].Applications = append(buckets[idx].Applications, app)
	}
	return Partition{Buckets: buckets}
}

// History returns the transition log in the order changes were applied.
func (s *Store) History() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transition, len(s.history))
	copy(out, s.history)
	return out
}

// Package fallback provides the deterministic local dataset used when the
// recruiting backend is unreachable.
//
// Known jobs are seeded from an embedded YAML fixture; any other job id gets a
// synthetic dataset generated from an FNV hash of the id, so repeated reads of
// the same job always agree. Status writes made while offline are applied to
// the session copy so later fallback reads stay consistent with them.
package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"talentflow/internal/logging"
	"talentflow/internal/pipeline"
	"talentflow/internal/services"
	"talentflow/internal/stage"
)

// Cache is an in-memory, per-session dataset keyed by job id.
type Cache struct {
	mu       sync.Mutex
	fixtures map[string]Dataset
	session  map[string]*Dataset
	appJob   map[string]string
	registry *stage.Registry
	logger   *slog.Logger
}

// Option customizes a Cache.
type Option func(*Cache)

// WithRegistry validates status writes against registry.
func WithRegistry(registry *stage.Registry) Option {
	return func(c *Cache) { c.registry = registry }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logging.NewComponentLogger(logger, "fallback") }
}

// New returns a cache seeded from the embedded fixtures.
func New(opts ...Option) (*Cache, error) {
	return newCache(builtinFixtures, opts...)
}

// NewFromFixtures returns a cache seeded from a caller-supplied YAML payload.
func NewFromFixtures(data []byte, opts ...Option) (*Cache, error) {
	return newCache(data, opts...)
}

func newCache(data []byte, opts ...Option) (*Cache, error) {
	fixtures, err := ParseFixtures(data)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		fixtures: fixtures,
		session:  make(map[string]*Dataset),
		appJob:   make(map[string]string),
		logger:   logging.NewComponentLogger(nil, "fallback"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health always succeeds; the local dataset is always available.
func (c *Cache) Health(context.Context) error { return nil }

// Known reports whether jobID comes from the fixture file.
func (c *Cache) Known(jobID string) bool {
	_, ok := c.fixtures[jobID]
	return ok
}

// FixtureJobs returns the ids of fixture-backed jobs in sorted order.
func (c *Cache) FixtureJobs() []string {
	ids := make([]string, 0, len(c.fixtures))
	for id := range c.fixtures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dataset returns a copy of the session dataset for jobID.
func (c *Cache) Dataset(jobID string) Dataset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.datasetLocked(jobID).clone()
}

func (c *Cache) datasetLocked(jobID string) *Dataset {
	if ds, ok := c.session[jobID]; ok {
		return ds
	}
	var ds Dataset
	if fixture, ok := c.fixtures[jobID]; ok {
		ds = fixture.clone()
	} else {
		ds = Synthesize(jobID)
		c.logger.Debug("synthesized fallback dataset",
			logging.String(logging.FieldJobID, jobID),
			logging.Int("applications", len(ds.Applications)),
		)
	}
	c.session[jobID] = &ds
	for _, app := range ds.Applications {
		c.appJob[app.ID] = jobID
	}
	return &ds
}

// Job returns the job metadata for jobID.
func (c *Cache) Job(_ context.Context, jobID string) (pipeline.Job, error) {
	return c.Dataset(jobID).Job, nil
}

// Applications returns the ordered applications for jobID.
func (c *Cache) Applications(_ context.Context, jobID string) ([]pipeline.Application, error) {
	return c.Dataset(jobID).Applications, nil
}

// UpdateStatus applies a status write to the session copy. Only applications
// of jobs read during this session are addressable.
func (c *Cache) UpdateStatus(_ context.Context, id, status string) (pipeline.Application, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked(id, status)
}

func (c *Cache) updateLocked(id, status string) (pipeline.Application, error) {
	if c.registry != nil && !c.registry.Contains(status) {
		return pipeline.Application{}, services.Wrap(services.ErrInvalidStage, "fallback", "update status", fmt.Sprintf("unknown stage %q", status), nil)
	}
	jobID, ok := c.appJob[id]
	if !ok {
		return pipeline.Application{}, services.Wrap(services.ErrNotFound, "fallback", "update status", fmt.Sprintf("application %q", id), nil)
	}
	ds := c.session[jobID]
	for i := range ds.Applications {
		app := &ds.Applications[i]
		if app.ID != id {
			continue
		}
		if app.Status != status {
			app.Status = status
			app.Version++
		}
		return app.Clone(), nil
	}
	return pipeline.Application{}, services.Wrap(services.ErrNotFound, "fallback", "update status", fmt.Sprintf("application %q", id), nil)
}

// BulkUpdateStatus applies status to each id independently.
func (c *Cache) BulkUpdateStatus(_ context.Context, ids []string, status string) ([]pipeline.StatusOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]pipeline.StatusOutcome, 0, len(ids))
	for _, id := range ids {
		outcome := pipeline.StatusOutcome{ID: id, OK: true}
		if _, err := c.updateLocked(id, status); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
		}
		out = append(out, outcome)
	}
	return out, nil
}

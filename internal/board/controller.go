package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"talentflow/internal/dragdrop"
	"talentflow/internal/logging"
	"talentflow/internal/pipeline"
	"talentflow/internal/reconciler"
	"talentflow/internal/selection"
	"talentflow/internal/services"
	"talentflow/internal/stage"
	"talentflow/internal/view"
)

// KeepOptimisticOnFailure controls what happens to the store when a status
// write cannot be persisted. When true the local change stays and the
// application is marked unsynced; when false it is rolled back.
const KeepOptimisticOnFailure = true

// DataSource is the subset of the reconciler the board depends on.
type DataSource interface {
	Mode() reconciler.Mode
	LoadJob(ctx context.Context, jobID string) reconciler.Result[pipeline.Job]
	LoadApplications(ctx context.Context, jobID string) reconciler.Result[[]pipeline.Application]
	PersistStatus(ctx context.Context, id, status string) reconciler.Result[struct{}]
	PersistBulk(ctx context.Context, ids []string, status string) reconciler.Result[[]pipeline.StatusOutcome]
}

type reprober interface {
	Reprobe(ctx context.Context) reconciler.Mode
}

// Options configures a Controller. Zero values fall back to applied_date desc.
type Options struct {
	Logger             *slog.Logger
	SortKey            view.SortKey
	Direction          view.Direction
	ConfirmDestructive bool
}

// LoadReport describes one Load call.
type LoadReport struct {
	JobID   string
	Job     pipeline.Job
	HasJob  bool
	Source  reconciler.Mode
	Summary pipeline.LoadSummary
	// Degraded is set when remote mode served fallback data for this load.
	Degraded bool
	Err      error
}

// Controller is the board page state.
type Controller struct {
	store    *pipeline.Store
	registry *stage.Registry
	data     DataSource
	drag     *dragdrop.Controller
	logger   *slog.Logger
	confirm  bool

	inflight sync.WaitGroup

	mu          sync.Mutex
	jobID       string
	job         pipeline.Job
	source      reconciler.Mode
	criteria    view.Criteria
	sortKey     view.SortKey
	direction   view.Direction
	selected    *selection.Set
	unsynced    map[string]uint64
	reportedExp map[string]struct{}
}

// New wires a controller around store and data.
func New(store *pipeline.Store, data DataSource, opts Options) *Controller {
	if store == nil {
		store = pipeline.NewStore(nil)
	}
	key := opts.SortKey
	if key == "" {
		key = view.SortAppliedDate
	}
	dir := opts.Direction
	if dir == "" {
		dir = view.Desc
	}
	c := &Controller{
		store:       store,
		registry:    store.Registry(),
		data:        data,
		logger:      logging.NewComponentLogger(opts.Logger, "board"),
		confirm:     opts.ConfirmDestructive,
		sortKey:     key,
		direction:   dir,
		selected:    selection.New(store.Registry()),
		unsynced:    make(map[string]uint64),
		reportedExp: make(map[string]struct{}),
	}
	c.drag = dragdrop.NewController(dragdrop.TransitionFunc(c.Move))
	return c
}

// Registry returns the stage registry backing the board.
func (c *Controller) Registry() *stage.Registry { return c.registry }

// Store exposes the underlying application store.
func (c *Controller) Store() *pipeline.Store { return c.store }

// Load reads job metadata and applications for jobID and replaces the store
// contents. Selection and unsynced tracking are reset.
func (c *Controller) Load(ctx context.Context, jobID string) (LoadReport, error) {
	if c.data == nil {
		return LoadReport{}, services.Wrap(services.ErrConfiguration, "board", "load", "no data source", nil)
	}
	ctx = services.WithJobID(ctx, jobID)
	logger := logging.WithContext(ctx, c.logger)
	report := LoadReport{JobID: jobID}

	if jobRes := c.data.LoadJob(ctx, jobID); jobRes.Ok {
		report.Job = jobRes.Value
		report.HasJob = true
	} else {
		logger.Debug("job metadata unavailable", logging.Error(jobRes.Err))
	}

	res := c.data.LoadApplications(ctx, jobID)
	if !res.Ok {
		return report, services.Wrap(services.ErrTransient, "board", "load", "no data source could serve "+jobID, res.Err)
	}
	report.Source = res.Source
	report.Degraded = res.Degraded()
	report.Err = res.Err
	report.Summary = c.store.Load(res.Value)

	c.mu.Lock()
	c.jobID = jobID
	c.job = report.Job
	c.source = res.Source
	c.selected.Clear()
	c.unsynced = make(map[string]uint64)
	c.reportedExp = make(map[string]struct{})
	c.mu.Unlock()

	logger.Info("board loaded",
		logging.String(logging.FieldSource, string(res.Source)),
		logging.Int("applications", report.Summary.Loaded),
		logging.Bool("degraded", report.Degraded),
	)
	return report, nil
}

// JobID returns the loaded job id.
func (c *Controller) JobID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobID
}

// Job returns the loaded job metadata, if any was available.
func (c *Controller) Job() pipeline.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

// Source reports which data source served the last load.
func (c *Controller) Source() reconciler.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Criteria returns the active filter.
func (c *Controller) Criteria() view.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// SetCriteria replaces the filter and prunes selected ids that are no longer
// visible. It returns the pruned ids.
func (c *Controller) SetCriteria(criteria view.Criteria) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
	return c.selected.Prune(c.viewLocked())
}

// SetSort changes the ordering of View.
func (c *Controller) SetSort(key view.SortKey, dir view.Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortKey = key
	c.direction = dir
}

// View returns the filtered and sorted applications.
func (c *Controller) View() []pipeline.Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() []pipeline.Application {
	apps, stats := view.DeriveWithStats(c.store.All(), c.criteria, c.sortKey, c.direction)
	for _, id := range stats.UnparsedIDs {
		if _, seen := c.reportedExp[id]; seen {
			continue
		}
		c.reportedExp[id] = struct{}{}
		app, _ := c.store.Get(id)
		logging.WarnWithContext(c.logger, "experience has no leading number; treating as 0 years", "board_unparsed_experience",
			logging.String(logging.FieldApplicationID, id),
			logging.String("experience", app.Experience),
			logging.String(logging.FieldImpact, "experience filters and sorting treat this candidate as 0 years"),
		)
	}
	return apps
}

// Buckets partitions the current view into board columns.
func (c *Controller) Buckets() pipeline.Partition {
	return pipeline.PartitionOf(c.registry, c.View())
}

// Toggle flips selection of id and reports whether it is selected afterwards.
// Only applications in the current view can be added; removal always works.
func (c *Controller) Toggle(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.selected.Contains(id) && !inView(c.viewLocked(), id) {
		return false
	}
	return c.selected.Toggle(id)
}

func inView(apps []pipeline.Application, id string) bool {
	for _, app := range apps {
		if app.ID == id {
			return true
		}
	}
	return false
}

// SelectAll selects every application in the current view.
func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected.SelectAll(c.viewLocked())
}

// ClearSelection empties the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected.Clear()
}

// Selected returns selected ids in selection order.
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected.IDs()
}

// Move applies a single transition optimistically and persists it in the
// background. Unknown ids and stages are logged and returned; the store is
// left untouched.
func (c *Controller) Move(ctx context.Context, id, stageID string) error {
	change, err := c.apply(ctx, id, stageID)
	if err != nil {
		return err
	}
	if !change.Changed {
		return nil
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		bg := context.WithoutCancel(ctx)
		c.settle(bg, change, c.persistStatus(bg, id, stageID))
	}()
	return nil
}

// persistStatus reports whether the write reached a data source. Without one
// every change stays unsynced.
func (c *Controller) persistStatus(ctx context.Context, id, status string) bool {
	if c.data == nil {
		return false
	}
	return c.data.PersistStatus(ctx, id, status).Ok
}

func (c *Controller) apply(ctx context.Context, id, stageID string) (pipeline.Change, error) {
	change, err := c.store.SetStatus(id, stageID)
	if err != nil {
		if services.IsProgrammerError(err) {
			logger := logging.WithContext(services.WithApplicationID(services.WithStage(ctx, stageID), id), c.logger)
			logger.Warn("transition ignored", logging.Error(err), logging.String(logging.FieldEventType, "board_transition_ignored"))
		}
		return pipeline.Change{}, err
	}
	return change, nil
}

// settle records the outcome of a background write. Results for versions that
// have since been superseded are discarded.
func (c *Controller) settle(ctx context.Context, change pipeline.Change, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, found := c.store.Get(change.ApplicationID)
	if !found || current.Version != change.Version {
		logging.WithContext(ctx, c.logger).Debug("discarding superseded write result",
			logging.String(logging.FieldApplicationID, change.ApplicationID),
			logging.Uint64("version", change.Version),
		)
		return
	}
	if ok {
		delete(c.unsynced, change.ApplicationID)
		return
	}
	if KeepOptimisticOnFailure {
		c.unsynced[change.ApplicationID] = change.Version
		return
	}
	if _, err := c.store.SetStatusIfVersion(change.ApplicationID, change.From, change.Version); err != nil {
		c.logger.Debug("rollback skipped", logging.String(logging.FieldApplicationID, change.ApplicationID), logging.Error(err))
	}
}

// BeginDrag starts dragging id from its current column and position.
func (c *Controller) BeginDrag(id string) error {
	app, ok := c.store.Get(id)
	if !ok {
		return &pipeline.NotFoundError{ID: id}
	}
	column := c.registry.BucketFor(app.Status)
	index := 0
	for i, candidate := range c.Buckets().Bucket(column) {
		if candidate.ID == id {
			index = i
			break
		}
	}
	c.drag.Begin(id, column, index)
	return nil
}

// Drop ends the drag at dest (nil for outside every column). A failed
// transition is logged and reported in Result.Err; it is not returned.
func (c *Controller) Drop(ctx context.Context, dest *dragdrop.Location) (dragdrop.Result, error) {
	res, err := c.drag.Drop(ctx, dest)
	if err != nil {
		return res, err
	}
	c.logger.Debug("drop finished",
		logging.String(logging.FieldApplicationID, res.ApplicationID),
		logging.String("outcome", string(res.Outcome)),
	)
	return res, nil
}

// CancelDrag abandons the current drag.
func (c *Controller) CancelDrag() dragdrop.Result {
	return c.drag.Cancel()
}

// BulkMove applies status to every selected application. Destructive targets
// need confirmed when the board is configured to ask. Store updates happen
// synchronously; persistence is one background bulk write.
func (c *Controller) BulkMove(ctx context.Context, status string, confirmed bool) (selection.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pruned := c.selected.Prune(c.viewLocked()); len(pruned) > 0 {
		c.logger.Debug("dropped selected ids outside the view", logging.Any("ids", pruned))
	}
	if c.confirm {
		if err := c.selected.RequireConfirmation(status, confirmed); err != nil {
			return selection.Result{}, err
		}
	}

	var changes []pipeline.Change
	result, err := c.selected.ApplyBulk(ctx, status, func(ctx context.Context, id, status string) error {
		change, err := c.apply(ctx, id, status)
		if err != nil {
			return err
		}
		if change.Changed {
			changes = append(changes, change)
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	if len(changes) == 0 {
		return result, nil
	}

	ids := make([]string, len(changes))
	for i, ch := range changes {
		ids[i] = ch.ApplicationID
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		bg := context.WithoutCancel(ctx)
		okByID := make(map[string]bool, len(ids))
		if c.data == nil {
			c.logger.Debug("no data source; bulk move stays local", logging.Int("applications", len(ids)))
		} else if res := c.data.PersistBulk(bg, ids, status); res.Ok {
			for _, outcome := range res.Value {
				okByID[outcome.ID] = outcome.OK
			}
		}
		for _, ch := range changes {
			c.settle(bg, ch, okByID[ch.ApplicationID])
		}
	}()

	if failed := result.Failed(); len(failed) > 0 {
		c.logger.Info("bulk move partially applied",
			logging.String(logging.FieldStage, status),
			logging.Int("succeeded", result.Succeeded()),
			logging.Int("failed", len(failed)),
		)
	}
	return result, nil
}

// Wait blocks until every background write has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Unsynced returns ids whose latest change failed to persist, sorted.
func (c *Controller) Unsynced() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.unsynced))
	for id := range c.unsynced {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResyncReport summarizes a Resync call.
type ResyncReport struct {
	Mode    reconciler.Mode
	Synced  []string
	Pending []string
}

// Resync re-probes the data source when it supports it and retries every
// unsynced application with its current status. Calls are synchronous.
func (c *Controller) Resync(ctx context.Context) (ResyncReport, error) {
	if c.data == nil {
		return ResyncReport{}, services.Wrap(services.ErrConfiguration, "board", "resync", "no data source", nil)
	}
	c.Wait()

	report := ResyncReport{}
	if p, ok := c.data.(reprober); ok {
		report.Mode = p.Reprobe(ctx)
	} else {
		report.Mode = c.data.Mode()
	}

	var errs []error
	for _, id := range c.Unsynced() {
		app, found := c.store.Get(id)
		if !found {
			c.forget(id)
			continue
		}
		res := c.data.PersistStatus(ctx, id, app.Status)
		if !res.Ok {
			report.Pending = append(report.Pending, id)
			errs = append(errs, fmt.Errorf("%s: %w", id, res.Err))
			continue
		}
		c.forget(id)
		report.Synced = append(report.Synced, id)
	}
	return report, errors.Join(errs...)
}

func (c *Controller) forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.unsynced, id)
}

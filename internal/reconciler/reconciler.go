package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"talentflow/internal/logging"
	"talentflow/internal/pipeline"
	"talentflow/internal/services"
)

// Mode is the data source the reconciler currently prefers.
type Mode string

const (
	ModeRemote        Mode = "remote"
	ModeLocalFallback Mode = "local_fallback"
)

const (
	DefaultProbeTimeout   = 2 * time.Second
	DefaultRequestTimeout = 8 * time.Second
	DefaultPersistTimeout = 5 * time.Second
)

// Source is a backend the reconciler can read from and write to. The remote
// client and the fallback cache both satisfy it.
type Source interface {
	Health(ctx context.Context) error
	Job(ctx context.Context, jobID string) (pipeline.Job, error)
	Applications(ctx context.Context, jobID string) ([]pipeline.Application, error)
	UpdateStatus(ctx context.Context, id, status string) (pipeline.Application, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status string) ([]pipeline.StatusOutcome, error)
}

// Result carries a value together with where it came from. Ok reports whether
// Value is usable; Err holds a swallowed failure, which may be set even when
// Ok is true (a remote read that degraded to the fallback).
type Result[T any] struct {
	Value  T
	Source Mode
	Ok     bool
	Err    error
}

// Degraded reports whether the call succeeded only by falling back.
func (r Result[T]) Degraded() bool { return r.Ok && r.Err != nil }

// TransientSourceError wraps a failed remote read or write.
type TransientSourceError struct {
	Operation string
	Source    Mode
	Err       error
}

func (e *TransientSourceError) Error() string {
	return fmt.Sprintf("%s via %s: %v", e.Operation, e.Source, e.Err)
}

func (e *TransientSourceError) Unwrap() []error {
	return []error{services.ErrTransient, e.Err}
}

func (e *TransientSourceError) ErrorKind() string { return "transient" }

// Options tunes timeouts and logging. Zero durations use the defaults.
type Options struct {
	ProbeTimeout   time.Duration
	RequestTimeout time.Duration
	PersistTimeout time.Duration
	Logger         *slog.Logger
}

// Reconciler routes reads and writes between a remote source and a local
// fallback.
type Reconciler struct {
	remote Source
	local  Source
	opts   Options
	logger *slog.Logger

	mu        sync.RWMutex
	mode      Mode
	probeErr  error
	probedAt  time.Time
	initiated bool
}

// New returns a reconciler in local-fallback mode until Init succeeds. A nil
// remote forces local-fallback permanently.
func New(remote, local Source, opts Options) *Reconciler {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = DefaultPersistTimeout
	}
	return &Reconciler{
		remote: remote,
		local:  local,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "reconciler"),
		mode:   ModeLocalFallback,
	}
}

// Mode returns the current source mode.
func (r *Reconciler) Mode() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// ProbeError returns the error of the most recent failed health probe.
func (r *Reconciler) ProbeError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.probeErr
}

// Init runs the startup health probe and returns the chosen mode.
func (r *Reconciler) Init(ctx context.Context) Mode {
	return r.probe(ctx, "init")
}

// Reprobe re-runs the health probe, switching modes if the outcome changed.
func (r *Reconciler) Reprobe(ctx context.Context) Mode {
	return r.probe(ctx, "reprobe")
}

func (r *Reconciler) probe(ctx context.Context, reason string) Mode {
	mode := ModeLocalFallback
	var err error
	started := time.Now()
	if r.remote == nil {
		err = services.Wrap(services.ErrConfiguration, "reconciler", "probe", "no remote configured", nil)
	} else {
		probeCtx, cancel := context.WithTimeout(ctx, r.opts.ProbeTimeout)
		err = r.remote.Health(probeCtx)
		cancel()
		if err == nil {
			mode = ModeRemote
		}
	}

	r.mu.Lock()
	previous := r.mode
	first := !r.initiated
	r.mode = mode
	r.probeErr = err
	r.probedAt = time.Now()
	r.initiated = true
	r.mu.Unlock()

	attrs := []logging.Attr{
		logging.String("mode", string(mode)),
		logging.String("reason", reason),
		logging.Duration("elapsed", time.Since(started)),
	}
	switch {
	case err != nil && r.remote != nil:
		logging.WarnWithContext(r.logger, "remote health probe failed; using local fallback", "remote_probe_failed",
			append(attrs,
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check remote.base_url and that the backend is running"),
				logging.String(logging.FieldImpact, "board shows local fallback data"),
			)...)
	case first || previous != mode:
		r.logger.Info("data source selected", logging.Args(attrs...)...)
	}
	return mode
}

// LoadApplications reads the applications of jobID. In remote mode a failed
// read is retried against the fallback for this call only.
func (r *Reconciler) LoadApplications(ctx context.Context, jobID string) Result[[]pipeline.Application] {
	return readThrough(ctx, r, "load applications", jobID, func(ctx context.Context, src Source) ([]pipeline.Application, error) {
		return src.Applications(ctx, jobID)
	})
}

// LoadJob reads job metadata with the same policy as LoadApplications.
func (r *Reconciler) LoadJob(ctx context.Context, jobID string) Result[pipeline.Job] {
	return readThrough(ctx, r, "load job", jobID, func(ctx context.Context, src Source) (pipeline.Job, error) {
		return src.Job(ctx, jobID)
	})
}

func readThrough[T any](ctx context.Context, r *Reconciler, op, jobID string, read func(context.Context, Source) (T, error)) Result[T] {
	ctx = services.WithJobID(ctx, jobID)
	logger := logging.WithContext(ctx, r.logger)

	var swallowed error
	if r.Mode() == ModeRemote {
		readCtx, cancel := context.WithTimeout(ctx, r.opts.RequestTimeout)
		value, err := read(readCtx, r.remote)
		cancel()
		if err == nil {
			return Result[T]{Value: value, Source: ModeRemote, Ok: true}
		}
		swallowed = &TransientSourceError{Operation: op, Source: ModeRemote, Err: err}
		logging.WarnWithContext(logger, "remote read failed; serving local fallback", "remote_read_failed",
			logging.String("operation", op),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "refresh once the backend recovers"),
			logging.String(logging.FieldImpact, "data may be stale for this view"),
		)
	}

	if r.local == nil {
		err := services.Wrap(services.ErrConfiguration, "reconciler", op, "no local fallback configured", swallowed)
		return Result[T]{Source: ModeLocalFallback, Err: err}
	}
	value, err := read(ctx, r.local)
	if err != nil {
		return Result[T]{Source: ModeLocalFallback, Err: err}
	}
	return Result[T]{Value: value, Source: ModeLocalFallback, Ok: true, Err: swallowed}
}

// PersistStatus writes one status change. Failures are logged and returned in
// Err with Ok=false; the call never blocks beyond the persist timeout.
func (r *Reconciler) PersistStatus(ctx context.Context, id, status string) Result[struct{}] {
	ctx = services.WithApplicationID(services.WithStage(ctx, status), id)
	res := writeThrough(ctx, r, "persist status", func(ctx context.Context, src Source) (pipeline.Application, error) {
		return src.UpdateStatus(ctx, id, status)
	})
	return Result[struct{}]{Source: res.Source, Ok: res.Ok, Err: res.Err}
}

// PersistBulk writes one status to many applications through the bulk
// endpoint. Per-id outcomes are in Value when Ok.
func (r *Reconciler) PersistBulk(ctx context.Context, ids []string, status string) Result[[]pipeline.StatusOutcome] {
	ctx = services.WithStage(ctx, status)
	return writeThrough(ctx, r, "persist bulk", func(ctx context.Context, src Source) ([]pipeline.StatusOutcome, error) {
		return src.BulkUpdateStatus(ctx, ids, status)
	})
}

func writeThrough[T any](ctx context.Context, r *Reconciler, op string, write func(context.Context, Source) (T, error)) Result[T] {
	mode := r.Mode()
	src := r.local
	if mode == ModeRemote {
		src = r.remote
	}
	if src == nil {
		err := services.Wrap(services.ErrConfiguration, "reconciler", op, "no source for mode "+string(mode), nil)
		return Result[T]{Source: mode, Err: err}
	}

	writeCtx, cancel := context.WithTimeout(ctx, r.opts.PersistTimeout)
	defer cancel()
	value, err := write(writeCtx, src)
	if err != nil {
		wrapped := &TransientSourceError{Operation: op, Source: mode, Err: err}
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "status write failed; keeping local change", "persist_failed",
			logging.String("operation", op),
			logging.String(logging.FieldSource, string(mode)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "resync the board once the backend is reachable"),
			logging.String(logging.FieldImpact, "change is saved locally but not synced"),
		)
		return Result[T]{Value: value, Source: mode, Err: wrapped}
	}
	return Result[T]{Value: value, Source: mode, Ok: true}
}

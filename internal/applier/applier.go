// Package applier executes an ordered list of schema statements against a
// database handle, one at a time, recording each outcome and carrying on
// past individual failures.
package applier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aqasim81/reservation-provisioner/internal/database"
	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

// Progress status constants reported via ProgressEvent.
const (
	StatusStarting  = "starting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// ProgressEvent is emitted for each statement processed.
type ProgressEvent struct {
	Statement *schema.Statement
	Total     int
	Status    string
	Duration  time.Duration
	Error     error
}

// Applier runs statements sequentially on a single handle.
type Applier struct {
	logger     *slog.Logger
	onProgress func(ProgressEvent)
	pause      time.Duration
	dryRun     bool
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option configures an Applier.
type Option func(*Applier)

// WithLogger sets the logger receiving one line per statement attempt.
func WithLogger(l *slog.Logger) Option {
	return func(a *Applier) { a.logger = l }
}

// WithProgressCallback sets a function called for each statement processed.
func WithProgressCallback(fn func(ProgressEvent)) Option {
	return func(a *Applier) { a.onProgress = fn }
}

// WithPause waits d between consecutive statements.
func WithPause(d time.Duration) Option {
	return func(a *Applier) { a.pause = d }
}

// WithDryRun reports every statement as skipped without executing it.
func WithDryRun(b bool) Option {
	return func(a *Applier) { a.dryRun = b }
}

// New creates an Applier with the given options.
func New(opts ...Option) *Applier {
	a := &Applier{}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}

	if a.sleep == nil {
		a.sleep = sleepContext
	}

	return a
}

// Apply executes stmts in order on h. A failing statement is recorded and
// the run continues. A connection failure or context cancellation stops the
// run and is returned with no summary.
func (a *Applier) Apply(ctx context.Context, stmts []schema.Statement, h database.Handle) (*Summary, error) {
	if len(stmts) == 0 {
		return nil, ErrNoStatements
	}

	if h == nil && !a.dryRun {
		return nil, ErrNilHandle
	}

	start := time.Now()
	results := make([]Result, 0, len(stmts))

	for i := range stmts {
		if i > 0 && a.pause > 0 && !a.dryRun {
			if err := a.sleep(ctx, a.pause); err != nil {
				return nil, fmt.Errorf("apply interrupted before statement %d: %w", stmts[i].Ordinal, err)
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("apply interrupted before statement %d: %w", stmts[i].Ordinal, err)
		}

		r, err := a.applyOne(ctx, &stmts[i], len(stmts), h)
		if err != nil {
			return nil, err
		}

		results = append(results, r)
	}

	summary := summarize(results, time.Since(start))

	a.logger.Info("apply finished",
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"failed", len(summary.Failures),
		"already_existed", summary.AlreadyExistsCount(),
		"duration", summary.Duration.Truncate(time.Millisecond),
	)

	return summary, nil
}

// applyOne executes a single statement and classifies its outcome. It
// returns an error only when the run must stop.
func (a *Applier) applyOne(ctx context.Context, s *schema.Statement, total int, h database.Handle) (Result, error) {
	if a.dryRun {
		a.fireProgress(ProgressEvent{Statement: s, Total: total, Status: StatusSkipped})
		a.logger.Info("statement skipped (dry run)", "ordinal", s.Ordinal, "total", total, "source", s.Source)

		return Result{Statement: *s, Skipped: true}, nil
	}

	a.fireProgress(ProgressEvent{Statement: s, Total: total, Status: StatusStarting})

	began := time.Now()
	execErr := h.Exec(ctx, s.SQL)
	elapsed := time.Since(began)

	if execErr == nil {
		a.fireProgress(ProgressEvent{Statement: s, Total: total, Status: StatusCompleted, Duration: elapsed})
		a.logger.Info("statement applied",
			"ordinal", s.Ordinal, "total", total, "source", s.Source,
			"duration", elapsed.Truncate(time.Millisecond))

		return Result{Statement: *s, Duration: elapsed}, nil
	}

	a.fireProgress(ProgressEvent{Statement: s, Total: total, Status: StatusFailed, Duration: elapsed, Error: execErr})

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, fmt.Errorf("apply interrupted at statement %d: %w", s.Ordinal, ctxErr)
	}

	if errors.Is(execErr, database.ErrConnectionFailed) {
		a.logger.Error("connection lost, aborting", "ordinal", s.Ordinal, "total", total, "error", execErr)

		return Result{}, fmt.Errorf("statement %d: %w", s.Ordinal, execErr)
	}

	r := Result{
		Statement:     *s,
		Err:           execErr,
		Code:          errorCode(execErr),
		AlreadyExists: database.IsAlreadyExists(execErr),
		Duration:      elapsed,
	}

	if r.AlreadyExists {
		a.logger.Warn("statement failed: object already exists",
			"ordinal", s.Ordinal, "total", total, "source", s.Source, "error", failureMessage(execErr))
	} else {
		a.logger.Error("statement failed",
			"ordinal", s.Ordinal, "total", total, "source", s.Source, "code", r.Code, "error", failureMessage(execErr))
	}

	return r, nil
}

func (a *Applier) fireProgress(event ProgressEvent) {
	if a.onProgress != nil {
		a.onProgress(event)
	}
}

func errorCode(err error) string {
	var stmtErr *database.StatementError
	if errors.As(err, &stmtErr) {
		return stmtErr.Code
	}

	return ""
}

// failureMessage prefers the database's own message over the decorated
// error string.
func failureMessage(err error) string {
	var stmtErr *database.StatementError
	if errors.As(err, &stmtErr) && stmtErr.Message != "" {
		return stmtErr.Message
	}

	return err.Error()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

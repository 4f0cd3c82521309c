// Package reconciler runs the stale-job loop: generation jobs whose
// callback never arrived are failed after a TTL so they do not stay
// pending forever.
package reconciler

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/readykit/report-api/config"
	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/observability/statsd"
)

// RunnerOptions groups dependencies for Runner.
type RunnerOptions struct {
	Jobs    core.JobRepository      // Required
	Config  config.ReconcilerConfig // Required
	Metrics statsd.Sink             // Optional
	Logger  *slog.Logger            // Optional
}

// Runner periodically expires stale pending jobs.
type Runner struct {
	jobs    core.JobRepository
	cfg     config.ReconcilerConfig
	metrics statsd.Sink
	log     *slog.Logger
}

// NewRunner constructs a new Runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Config.Interval <= 0 {
		return nil, errors.New("Interval must be positive")
	}
	if opts.Config.PendingTTL <= 0 {
		return nil, errors.New("PendingTTL must be positive")
	}
	return &Runner{
		jobs:    opts.Jobs,
		cfg:     opts.Config,
		metrics: opts.Metrics,
		log:     opts.Logger,
	}, nil
}

// MustNewRunner constructs a new Runner and panics on error.
func MustNewRunner(opts RunnerOptions) *Runner {
	r, err := NewRunner(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create reconciler runner: %v", err))
	}
	return r
}

func (r *Runner) logger() *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return slog.Default()
}

// Run executes the reconcile loop until the context is cancelled.
// Returns nil on graceful shutdown.
func (r *Runner) Run(ctx context.Context) error {
	r.logger().InfoContext(ctx, "starting stale-job reconciler",
		"interval", r.cfg.Interval, "pending_ttl", r.cfg.PendingTTL, "batch_size", r.cfg.BatchSize)

	// Jitter the first scan so parallel instances don't stampede.
	r.waitWithJitter(ctx)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	if err := r.reconcile(ctx); err != nil && !isCancellation(err) {
		r.logger().ErrorContext(ctx, "initial reconcile pass failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			r.logger().InfoContext(ctx, "reconciler stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := r.reconcile(ctx); err != nil && !isCancellation(err) {
				// Keep running; the next tick gets another chance.
				r.logger().ErrorContext(ctx, "reconcile pass failed", "error", err)
			}
		}
	}
}

// reconcile runs one scan, draining full batches until fewer than a
// batch remain.
func (r *Runner) reconcile(ctx context.Context) error {
	total := 0
	for {
		cutoff := time.Now().Add(-r.cfg.PendingTTL)
		ids, err := r.jobs.ExpireStale(ctx, cutoff, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("expire stale jobs: %w", err)
		}
		total += len(ids)
		if len(ids) > 0 {
			if r.metrics != nil {
				r.metrics.Count("jobs.expired", int64(len(ids)), nil)
			}
			r.logger().WarnContext(ctx, "expired stale pending jobs",
				"count", len(ids), "cutoff", cutoff, "job_ids", ids)
		}
		if len(ids) < r.cfg.BatchSize {
			break
		}
	}
	if total == 0 {
		r.logger().DebugContext(ctx, "no stale jobs found")
	}
	return nil
}

func (r *Runner) waitWithJitter(ctx context.Context) {
	maxJitter := int64(r.cfg.Interval / 10)
	if maxJitter <= 0 {
		return
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)))
	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

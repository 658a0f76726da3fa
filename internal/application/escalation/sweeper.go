// Package escalation runs the periodic deadline sweep: pre-deadline
// reminders and the automatic first-appeal transition for requests whose
// statutory response period elapsed. Every per-request action runs under
// the same lock the lifecycle engine uses, so a sweep never races an API
// call, and re-running a sweep is a no-op for already-handled requests.
package escalation

import (
	"context"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/application/lifecycle"
	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// Sweeper scans open requests and applies reminder and escalation rules.
type Sweeper struct {
	engine   *lifecycle.Engine
	repo     request.Repository
	notifier lifecycle.Notifier
	log      logging.Logger

	reminderAfter time.Duration
	batchSize     int

	now func() time.Time
}

// New builds a sweeper. reminderAfterDays is the filing-relative day the
// reminder goes out.
func New(engine *lifecycle.Engine, repo request.Repository, notifier lifecycle.Notifier, log logging.Logger, reminderAfterDays, batchSize int) *Sweeper {
	return &Sweeper{
		engine:        engine,
		repo:          repo,
		notifier:      notifier,
		log:           log,
		reminderAfter: time.Duration(reminderAfterDays) * 24 * time.Hour,
		batchSize:     batchSize,
		now:           time.Now,
	}
}

// Result summarises one sweep run.
type Result struct {
	Scanned   int `json:"scanned"`
	Reminders int `json:"reminders"`
	Appeals   int `json:"appeals"`
	Failures  int `json:"failures"`
}

// Run executes one sweep over the open requests whose reminder window has
// started. Failures on individual requests are logged and counted; the
// sweep always finishes the batch.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	now := s.now().UTC()
	cutoff := now.Add(-s.reminderAfter)

	open, err := s.repo.ListOpen(ctx, cutoff, s.batchSize)
	if err != nil {
		return Result{}, err
	}

	result := Result{Scanned: len(open)}
	for _, candidate := range open {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		reminded, appealed, err := s.sweepOne(ctx, candidate.RefNumber)
		if err != nil {
			result.Failures++
			s.log.Error("sweep failed for request",
				logging.String("ref", candidate.RefNumber), logging.Err(err))
			continue
		}
		if reminded {
			result.Reminders++
		}
		if appealed {
			result.Appeals++
		}
	}
	s.log.Info("escalation sweep finished",
		logging.Int("scanned", result.Scanned),
		logging.Int("reminders", result.Reminders),
		logging.Int("appeals", result.Appeals),
		logging.Int("failures", result.Failures),
	)
	return result, nil
}

// sweepOne re-reads the request under its lock and applies whichever rule
// is due. The reread matters: the listing is a snapshot and the request may
// have been answered or escalated since.
func (s *Sweeper) sweepOne(ctx context.Context, refNumber string) (reminded, appealed bool, err error) {
	_, err = s.engine.WithLock(ctx, refNumber, func(req *request.Request) error {
		now := s.now().UTC()
		if !req.Status.Open() {
			return nil
		}

		if req.DeadlineElapsed(now) {
			appeal, err := s.engine.EscalateElapsed(ctx, req)
			if err != nil {
				return err
			}
			appealed = appeal != nil && req.Status == request.StatusAppealFiled
			return nil
		}

		if req.ReminderDue(now, s.reminderAfter) {
			if req.MarkReminderSent(now) {
				if err := s.repo.Update(ctx, req); err != nil {
					return err
				}
				if s.notifier != nil {
					if err := s.notifier.ReminderDue(ctx, req); err != nil {
						s.log.Warn("reminder notification failed",
							logging.String("ref", req.RefNumber), logging.Err(err))
					}
				}
				reminded = true
			}
		}
		return nil
	})
	if err != nil && errors.IsCode(err, errors.ErrCodeLockHeld) {
		// Another worker holds the request; it will finish the job.
		s.log.Debug("request locked by another sweeper, skipping",
			logging.String("ref", refNumber))
		return false, false, nil
	}
	return reminded, appealed, err
}

// Loop runs sweeps at the given interval until ctx ends. The first sweep
// runs immediately.
func (s *Sweeper) Loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Run(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("escalation sweep aborted", logging.Err(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

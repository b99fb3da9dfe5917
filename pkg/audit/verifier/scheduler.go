package verifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"veridex-hq/callisto/pkg/audit/storage"
)

// Scheduler runs full chain verification on a cron schedule, so silent
// tampering of the store at rest is noticed without waiting for the
// next operator-initiated verify.
type Scheduler struct {
	store    storage.Store
	schedule string
	onResult func(*Result)
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a verification scheduler. onResult is invoked
// after every pass with the verification outcome; nil is allowed.
func NewScheduler(store storage.Store, schedule string, onResult func(*Result)) *Scheduler {
	return &Scheduler{
		store:    store,
		schedule: schedule,
		onResult: onResult,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "audit.verifier.scheduler"),
	}
}

// Start begins scheduled verification based on the cron expression.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//
// An empty schedule disables the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("verification schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runVerification(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule verification: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("chain verification scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runVerification executes one verification pass.
func (s *Scheduler) runVerification(ctx context.Context) {
	s.logger.Info("starting scheduled chain verification")

	result, err := Verify(ctx, s.store)
	if err != nil {
		s.logger.Error("scheduled chain verification failed", "error", err)
		return
	}

	if result.IsValid {
		s.logger.Info("chain verification passed", "entries", result.TotalEntries)
	} else {
		s.logger.Error("chain verification found defects",
			"entries", result.TotalEntries,
			"defects", len(result.Errors),
		)
	}

	if s.onResult != nil {
		s.onResult(result)
	}
}

// Stop stops the scheduler and waits for any running pass to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("chain verification scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled verification time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

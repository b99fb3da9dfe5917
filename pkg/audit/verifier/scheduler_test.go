package verifier

import (
	"context"
	"testing"

	"veridex-hq/callisto/pkg/audit/storage"
)

func TestSchedulerEmptyScheduleIsDisabled(t *testing.T) {
	s := NewScheduler(storage.NewMemoryStore(), "", nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler running with empty schedule")
	}
}

func TestSchedulerRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(storage.NewMemoryStore(), "whenever", nil)

	if err := s.Start(context.Background()); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler(storage.NewMemoryStore(), "0 3 * * *", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler not running after Start")
	}
	if s.NextRun() == nil {
		t.Error("NextRun() = nil for scheduled verification")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}

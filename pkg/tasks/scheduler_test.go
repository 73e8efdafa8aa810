package tasks_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ajay-Kandakatla/synchrony-nexus-sub001/pkg/tasks"
)

func newTestScheduler() *tasks.Scheduler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return tasks.NewScheduler(logger)
}

func TestRegisteredTaskRuns(t *testing.T) {
	scheduler := newTestScheduler()

	var runs atomic.Int64
	err := scheduler.Register("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("task never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRegisterAfterStart(t *testing.T) {
	scheduler := newTestScheduler()
	scheduler.Start()
	defer scheduler.Stop()

	var runs atomic.Int64
	err := scheduler.Register("late", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("late-registered task never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDuplicateTaskNameRejected(t *testing.T) {
	scheduler := newTestScheduler()

	noop := func(ctx context.Context) error { return nil }
	if err := scheduler.Register("tick", time.Second, noop); err != nil {
		t.Fatal(err)
	}
	if err := scheduler.Register("tick", time.Second, noop); err == nil {
		t.Error("expected duplicate task name to be rejected")
	}
}

func TestInvalidIntervalRejected(t *testing.T) {
	scheduler := newTestScheduler()

	err := scheduler.Register("tick", 0, func(ctx context.Context) error { return nil })
	if err == nil {
		t.Error("expected zero interval to be rejected")
	}
}

func TestFailingTaskKeepsSchedule(t *testing.T) {
	scheduler := newTestScheduler()

	var runs atomic.Int64
	err := scheduler.Register("flaky", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("transient")
	})
	if err != nil {
		t.Fatal(err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("failing task did not keep its schedule")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopTerminatesLoops(t *testing.T) {
	scheduler := newTestScheduler()

	var runs atomic.Int64
	err := scheduler.Register("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	scheduler.Start()
	if err := scheduler.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	settled := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != settled {
		t.Error("task kept running after Stop")
	}
}

func TestStopWithoutStart(t *testing.T) {
	scheduler := newTestScheduler()
	if err := scheduler.Stop(); err != nil {
		t.Errorf("stop of a never-started scheduler failed: %v", err)
	}
}

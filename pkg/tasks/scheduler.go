// Package tasks runs the periodic background tasks plugins register
// through the host.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"
)

// Task is one periodic job. Run is invoked on every tick; a returned error
// is logged and the task keeps its schedule.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler owns the goroutines behind registered tasks. All loops share
// one tomb so Stop tears them down together.
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[string]Task
	started bool
	tomb    *tomb.Tomb
	logger  *logrus.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		tasks:  make(map[string]Task),
		tomb:   &tomb.Tomb{},
		logger: logger,
	}
}

// Register adds a task. Before Start the task is queued; after Start its
// loop is launched immediately. Task names are unique.
func (s *Scheduler) Register(name string, interval time.Duration, run func(ctx context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("task %s: interval must be positive", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("task %s already registered", name)
	}

	task := Task{Name: name, Interval: interval, Run: run}
	s.tasks[name] = task

	if s.started {
		s.tomb.Go(func() error {
			return s.loop(task)
		})
	}

	s.logger.WithFields(logrus.Fields{
		"task":     name,
		"interval": interval,
	}).Debug("Task registered")
	return nil
}

// Start launches a loop for every queued task.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, task := range s.tasks {
		task := task
		s.tomb.Go(func() error {
			return s.loop(task)
		})
	}

	// Keep the tomb alive even with no tasks registered yet.
	s.tomb.Go(func() error {
		<-s.tomb.Dying()
		return nil
	})
}

// Stop tears down every task loop and waits for them to exit.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.tomb.Kill(nil)
	return s.tomb.Wait()
}

func (s *Scheduler) loop(task Task) error {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	ctx := s.tomb.Context(nil)
	for {
		select {
		case <-s.tomb.Dying():
			return nil
		case <-ticker.C:
			if err := task.Run(ctx); err != nil {
				s.logger.WithFields(logrus.Fields{
					"task":  task.Name,
					"error": err,
				}).Warn("Task run failed")
			}
		}
	}
}

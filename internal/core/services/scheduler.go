package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// tickInterval is how often due tasks are checked. Cron specs have
// minute granularity, so checking more often buys nothing.
const tickInterval = 1 * time.Minute

// Scheduler runs background tasks on cron schedules, currently the
// periodic re-ingestion of all configured sources. Run outcomes are
// persisted through the config store so they survive restarts.
type Scheduler struct {
	config  domain.SchedulerConfig
	store   driven.ConfigStore
	sources driving.SourceService

	// tasks is built once per Start and then touched only by the run
	// loop; per-task goroutines mutate their own entry's state.
	tasks []*cronTask

	mu       sync.Mutex
	running  bool
	inFlight map[string]bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// cronTask pairs a task with its parsed schedule and the outcome of
// its most recent run.
type cronTask struct {
	id       string
	schedule cron.Schedule
	nextRun  time.Time

	lastRun     time.Time
	lastSuccess time.Time
	lastError   string
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.ConfigStore,
	sources driving.SourceService,
) *Scheduler {
	return &Scheduler{
		config:   config,
		store:    store,
		sources:  sources,
		inFlight: make(map[string]bool),
	}
}

// Start begins the scheduler loop. This method blocks until Stop is
// called or the context is cancelled. A disabled scheduler returns
// immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logger.Info("scheduler: disabled by configuration")
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.initialiseTasks(); err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	}
	if len(s.tasks) == 0 {
		logger.Info("scheduler: no tasks enabled")
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for running tasks to complete
	s.wg.Wait()

	return nil
}

// initialiseTasks parses the cron spec of every enabled task and
// hydrates its persisted state from the config store. Disabled tasks
// are left out entirely, so everything in s.tasks is runnable.
func (s *Scheduler) initialiseTasks() error {
	s.tasks = nil
	now := time.Now()

	if cfg := s.config.GetTaskConfig(domain.TaskIDSourceRefresh); cfg.Enabled {
		task, err := s.buildTask(domain.TaskIDSourceRefresh, cfg, now)
		if err != nil {
			return err
		}
		s.tasks = append(s.tasks, task)
	}

	return nil
}

func (s *Scheduler) buildTask(id string, cfg domain.TaskConfig, now time.Time) (*cronTask, error) {
	schedule, err := cron.ParseStandard(cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q for task %s: %w", cfg.Spec, id, err)
	}

	return &cronTask{
		id:          id,
		schedule:    schedule,
		nextRun:     schedule.Next(now),
		lastRun:     s.getStateTime(taskStateKey(id, "last_run")),
		lastSuccess: s.getStateTime(taskStateKey(id, "last_success")),
		lastError:   s.store.GetString(taskStateKey(id, "last_error")),
	}, nil
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkDueTasks(ctx, time.Now())
		}
	}
}

// checkDueTasks launches every task whose schedule has come due.
func (s *Scheduler) checkDueTasks(ctx context.Context, now time.Time) {
	for _, ct := range s.tasks {
		if now.Before(ct.nextRun) {
			continue
		}
		ct.nextRun = ct.schedule.Next(now)
		s.startTask(ctx, ct)
	}
}

// startTask runs a task in the background unless its previous run is
// still in progress, in which case this occurrence is skipped.
func (s *Scheduler) startTask(ctx context.Context, ct *cronTask) {
	s.mu.Lock()
	if s.inFlight[ct.id] {
		s.mu.Unlock()
		logger.Info("scheduler: skipping %s: previous run still in progress", ct.id)
		return
	}
	s.inFlight[ct.id] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, ct.id)
			s.mu.Unlock()
		}()
		s.runTask(ctx, ct)
	}()
}

// runTask executes a single task and records the outcome.
func (s *Scheduler) runTask(ctx context.Context, ct *cronTask) {
	started := time.Now()

	var err error
	switch ct.id {
	case domain.TaskIDSourceRefresh:
		err = s.runSourceRefresh(ctx)
	default:
		logger.Warn("scheduler: unknown task ID %s", ct.id)
		return
	}
	if err != nil {
		logger.Warn("scheduler: task %s failed: %v", ct.id, err)
	}

	s.recordRun(ct, started, time.Now(), err)
}

// runSourceRefresh re-ingests all configured sources.
func (s *Scheduler) runSourceRefresh(ctx context.Context) error {
	if s.sources == nil {
		return nil
	}
	return s.sources.SyncAll(ctx)
}

// recordRun updates the task's in-memory state and persists it.
func (s *Scheduler) recordRun(ct *cronTask, started, ended time.Time, err error) {
	ct.lastRun = started
	if err == nil {
		ct.lastError = ""
		ct.lastSuccess = ended
	} else {
		ct.lastError = err.Error()
	}

	s.setState(taskStateKey(ct.id, "last_run"), started.UTC().Format(time.RFC3339))
	s.setState(taskStateKey(ct.id, "last_error"), ct.lastError)
	if err == nil {
		s.setState(taskStateKey(ct.id, "last_success"), ended.UTC().Format(time.RFC3339))
	}
}

func (s *Scheduler) setState(key, value string) {
	if err := s.store.Set(key, value); err != nil {
		logger.Warn("scheduler: failed to persist %s: %v", key, err)
	}
}

func (s *Scheduler) getStateTime(key string) time.Time {
	raw := s.store.GetString(key)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func taskStateKey(taskID, field string) string {
	return "scheduler." + taskID + "." + field
}

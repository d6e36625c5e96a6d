package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// OneShot runs at most one delayed task at a time. Scheduling a new task
// cancels the pending one.
type OneShot struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	job       *gocron.Job
}

// NewOneShot creates a started scheduler
func NewOneShot() *OneShot {
	s := gocron.NewScheduler(time.UTC)
	// Start the scheduler in a non-blocking manner
	s.StartAsync()
	return &OneShot{scheduler: s}
}

// Schedule runs fn once after delay, replacing any pending task
func (o *OneShot) Schedule(delay time.Duration, fn func()) error {
	if delay <= 0 {
		return fmt.Errorf("invalid delay %s", delay)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.cancelLocked()
	job, err := o.scheduler.Every(delay).WaitForSchedule().LimitRunsTo(1).Do(fn)
	if err != nil {
		return fmt.Errorf("failed to schedule task: %w", err)
	}
	o.job = job
	return nil
}

// Cancel drops the pending task, if any
func (o *OneShot) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelLocked()
}

func (o *OneShot) cancelLocked() {
	if o.job == nil {
		return
	}
	o.scheduler.RemoveByReference(o.job)
	o.job = nil
}

// Stop cancels the pending task and terminates the scheduler
func (o *OneShot) Stop() {
	o.Cancel()
	o.scheduler.Stop()
}

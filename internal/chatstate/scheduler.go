package chatstate

import (
	"sync"
	"time"
)

type scheduledTask struct {
	timer *time.Timer
	gen   uint64
}

// Scheduler runs delayed tasks keyed by name. Scheduling a key again
// cancels the task already waiting under it; a superseded or cancelled task
// never runs.
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[string]*scheduledTask
	gen     uint64
	stopped bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[string]*scheduledTask)}
}

// Schedule returns the generation token of the new task, or 0 once the
// scheduler is stopped.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0
	}
	if prev, ok := s.tasks[key]; ok {
		prev.timer.Stop()
	}

	s.gen++
	gen := s.gen
	task := &scheduledTask{gen: gen}
	task.timer = time.AfterFunc(delay, func() { s.fire(key, gen, fn) })
	s.tasks[key] = task
	return gen
}

func (s *Scheduler) fire(key string, gen uint64, fn func()) {
	s.mu.Lock()
	task, ok := s.tasks[key]
	if !ok || task.gen != gen || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, key)
	s.mu.Unlock()

	fn()
}

func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[key]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(s.tasks, key)
	return true
}

// Stop cancels everything and rejects later Schedule calls.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for key, task := range s.tasks {
		task.timer.Stop()
		delete(s.tasks, key)
	}
}

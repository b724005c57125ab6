package chatstate

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestSchedulerRunsTask(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	done := make(chan struct{})
	if gen := s.Schedule("k", 10*time.Millisecond, func() { close(done) }); gen == 0 {
		t.Fatalf("expected a generation token")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	if s.Cancel("k") {
		t.Fatalf("fired task should no longer be pending")
	}
}

func TestSchedulerRescheduleSupersedesPrevious(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule("k", 20*time.Millisecond, func() { first.Add(1) })
	s.Schedule("k", 40*time.Millisecond, func() { second.Add(1) })

	waitFor(t, time.Second, func() bool { return second.Load() == 1 })
	time.Sleep(30 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("superseded task ran")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var ran atomic.Bool
	s.Schedule("k", 20*time.Millisecond, func() { ran.Store(true) })
	if !s.Cancel("k") {
		t.Fatalf("expected Cancel to report a pending task")
	}
	if s.Cancel("k") {
		t.Fatalf("second Cancel should find nothing")
	}

	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Fatalf("cancelled task ran")
	}
}

func TestSchedulerStopRejectsNewWork(t *testing.T) {
	s := NewScheduler()

	var ran atomic.Bool
	s.Schedule("a", 20*time.Millisecond, func() { ran.Store(true) })
	s.Stop()

	if gen := s.Schedule("b", time.Millisecond, func() { ran.Store(true) }); gen != 0 {
		t.Fatalf("expected stopped scheduler to refuse work, got gen %d", gen)
	}
	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Fatalf("no task should run after Stop")
	}
}

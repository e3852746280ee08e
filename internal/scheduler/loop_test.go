package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// stubRunner counts passes and can be scripted to fail or panic.
type stubRunner struct {
	mu     sync.Mutex
	passes int
	fail   bool
	panics bool
}

func (s *stubRunner) RunPass(_ context.Context) (PassResult, error) {
	s.mu.Lock()
	s.passes++
	s.mu.Unlock()
	if s.panics {
		panic("boom")
	}
	if s.fail {
		return PassResult{}, errors.New("store unavailable")
	}
	return PassResult{Assigned: 1}, nil
}

func (s *stubRunner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

func waitForPasses(t *testing.T, runner *stubRunner, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runner.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d passes, saw %d", want, runner.count())
}

func TestLoop_RunsPassesUntilCancelled(t *testing.T) {
	runner := &stubRunner{}
	loop := NewLoop(runner, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	waitForPasses(t, runner, 3)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}

func TestLoop_SurvivesFailingPasses(t *testing.T) {
	runner := &stubRunner{fail: true}
	loop := NewLoop(runner, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	// Multiple ticks after the first failure prove the loop keeps going.
	waitForPasses(t, runner, 3)
}

func TestLoop_SurvivesPanickingPasses(t *testing.T) {
	runner := &stubRunner{panics: true}
	loop := NewLoop(runner, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	waitForPasses(t, runner, 3)
}

func TestNewLoop_DefaultsInterval(t *testing.T) {
	loop := NewLoop(&stubRunner{}, 0, nil)
	if loop.interval != time.Minute {
		t.Fatalf("interval = %v, want 1m default", loop.interval)
	}
}

package system

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingResyncer struct {
	mu       sync.Mutex
	calls    int
	inFlight bool
	delay    time.Duration
}

func (r *countingResyncer) Resync(ctx context.Context) error {
	r.mu.Lock()
	r.calls++
	r.inFlight = true
	r.mu.Unlock()

	time.Sleep(r.delay)

	r.mu.Lock()
	r.inFlight = false
	r.mu.Unlock()
	return errors.New("store busy")
}

func (r *countingResyncer) snapshot() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.inFlight
}

func TestStartResyncStopWaitsForInFlightResync(t *testing.T) {
	r := &countingResyncer{delay: 20 * time.Millisecond}
	stop := startResync(context.Background(), time.Millisecond, r)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if calls, _ := r.snapshot(); calls > 0 {
			break
		}
		if time.Now().After(deadline) {
			stop()
			t.Fatal("resync never ran")
		}
		time.Sleep(time.Millisecond)
	}

	stop()
	calls, inFlight := r.snapshot()
	if inFlight {
		t.Fatal("resync still running after stop returned")
	}

	time.Sleep(20 * time.Millisecond)
	if after, _ := r.snapshot(); after != calls {
		t.Errorf("resync ran %d more times after stop", after-calls)
	}
}

func TestStartResyncStopsWithParentContext(t *testing.T) {
	r := &countingResyncer{}
	ctx, cancel := context.WithCancel(context.Background())
	stop := startResync(ctx, time.Hour, r)
	cancel()

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return after the parent context was cancelled")
	}
	if calls, _ := r.snapshot(); calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

package store_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avask/greenroom/internal/store"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestDispatchRunsJob(t *testing.T) {
	w := store.NewAsyncWriter(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	var ran atomic.Bool
	w.Dispatch("write", func(context.Context) error {
		ran.Store(true)
		return nil
	})

	waitFor(t, ran.Load, "dispatched job never ran")
}

func TestFailureIsSwallowed(t *testing.T) {
	w := store.NewAsyncWriter(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	var attempts atomic.Int32
	w.Dispatch("failing", func(context.Context) error {
		attempts.Add(1)
		return errors.New("store down")
	})
	w.Dispatch("next", func(context.Context) error {
		attempts.Add(1)
		return nil
	})

	waitFor(t, func() bool { return attempts.Load() == 2 }, "writer stopped after a failure")
	// No retry: give the worker a moment and confirm the count is stable.
	time.Sleep(50 * time.Millisecond)
	if attempts.Load() != 2 {
		t.Errorf("failed job was retried, %d attempts", attempts.Load())
	}
}

func TestFullQueueNeverBlocksCaller(t *testing.T) {
	// No worker running: the queue fills up and stays full.
	w := store.NewAsyncWriter(1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			w.Dispatch("flood", func(context.Context) error { return nil })
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}

package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const writeTimeout = 5 * time.Second

type job struct {
	name string
	fn   func(context.Context) error
}

// AsyncWriter decouples persistence from the relay path. Jobs are queued
// and drained by a single worker; a full queue drops the job with a log
// line instead of blocking the caller. Failures are logged and swallowed,
// never retried.
type AsyncWriter struct {
	queue chan job
}

func NewAsyncWriter(size int) *AsyncWriter {
	if size <= 0 {
		size = 256
	}
	return &AsyncWriter{queue: make(chan job, size)}
}

// Run drains the queue until ctx is canceled. Call it in its own goroutine.
func (w *AsyncWriter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "store.async").Msg("writer stopped")
			return
		case j := <-w.queue:
			jctx, cancel := context.WithTimeout(ctx, writeTimeout)
			if err := j.fn(jctx); err != nil {
				log.Error().Err(err).Str("module", "store.async").Str("job", j.name).Msg("persistence write failed")
			}
			cancel()
		}
	}
}

// Dispatch enqueues fn without blocking. The caller never learns whether
// the write succeeded; that is the contract of the gateway boundary.
func (w *AsyncWriter) Dispatch(name string, fn func(context.Context) error) {
	select {
	case w.queue <- job{name: name, fn: fn}:
	default:
		log.Warn().Str("module", "store.async").Str("job", name).Msg("queue full, write dropped")
	}
}

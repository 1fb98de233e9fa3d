// Package mining implements the parallel search for an ephemeral key
// whose sighash-tagged signature over a fixed preimage hashes (single
// SHA-256) to a value starting with the puzzle's target prefix.
package mining

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// ErrCancelled is returned when the caller's context is cancelled
// before any worker finds a winning candidate.
var ErrCancelled = errors.New("mining: cancelled")

// Job bundles everything a mining run needs: the fixed inputs and an
// optional progress outlet. The thread count is not part of Job; it
// comes from Threads(). Progress may be nil when no caller wants
// sampled attempt hashes (e.g. in tests).
type Job struct {
	Preimage []byte
	Target   []byte
	Progress chan<- Attempt
}

// Threads returns the worker count for a mining run: the
// MINER_THREADS environment variable if set to a positive integer,
// otherwise runtime.GOMAXPROCS(0).
func Threads() int {
	if v := os.Getenv("MINER_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// Coordinate runs Threads() workers in parallel against job until one
// finds a winning candidate, the context is cancelled, or the caller
// gives up. It blocks on a single channel receive and always joins
// every worker before returning.
func Coordinate(ctx context.Context, job Job) (Candidate, error) {
	n := Threads()

	var stopped atomic.Bool
	results := make(chan Candidate, 1)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go worker(&stopped, job.Preimage, job.Target, results, job.Progress, &wg)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case c := <-results:
		stopped.Store(true)
		<-done
		return c, nil
	case <-ctx.Done():
		stopped.Store(true)
		<-done
		// A worker may have won in the narrow window between the
		// context firing and the stop flag landing; prefer a real
		// result over a cancellation error if one is waiting.
		select {
		case c := <-results:
			return c, nil
		default:
			return Candidate{}, ErrCancelled
		}
	}
}

package mining

import (
	"sync"
	"sync/atomic"
)

// Attempt is a sampled, losing candidate hash forwarded to the
// progress outlet. Winning attempts are reported through the result
// channel instead, never through Attempt.
type Attempt struct {
	Hash []byte
}

// progressSampleRate controls how many losing attempts are skipped
// between progress reports, so the progress outlet never competes
// meaningfully with signing throughput.
const progressSampleRate = 256

// worker runs the per-attempt signing loop until it wins, is
// cancelled, or another worker wins first. It never blocks except on
// the final, non-blocking send of a winning candidate.
func worker(stopped *atomic.Bool, preimage, target []byte, results chan<- Candidate, progress chan<- Attempt, wg *sync.WaitGroup) {
	defer wg.Done()

	var attempts uint64
	for {
		if stopped.Load() {
			return
		}

		key, tagged, hash, err := sign(preimage)
		if err != nil {
			// A failed key draw is exceedingly rare (crypto/rand
			// exhaustion) and not worth aborting the whole run for;
			// retry on the next iteration.
			continue
		}

		if matches(hash, target) {
			stopped.Store(true)
			select {
			case results <- Candidate{Key: key, SigTagged: tagged, Hash: hash}:
			default:
			}
			return
		}

		key.Zero()

		attempts++
		if progress != nil && attempts%progressSampleRate == 0 {
			select {
			case progress <- Attempt{Hash: hash}:
			default:
			}
		}
	}
}

package mining

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// A target this short is found almost immediately, keeping the test fast
// while still exercising the real signing/hashing path end to end.
var fastTarget = []byte{0x00}

func TestCoordinate_FindsWinningCandidate(t *testing.T) {
	os.Setenv("MINER_THREADS", "2")
	defer os.Unsetenv("MINER_THREADS")

	preimage := []byte("fixed preimage for a deterministic test run")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Coordinate(ctx, Job{Preimage: preimage, Target: fastTarget})
	if err != nil {
		t.Fatalf("Coordinate: %v", err)
	}
	if c.Key == nil {
		t.Fatalf("winning candidate has no key")
	}

	hash := chainhash.HashB(c.SigTagged)
	if !matches(hash, fastTarget) {
		t.Fatalf("winning candidate's hash %x does not match target %x", hash, fastTarget)
	}
	if string(c.Hash) != string(hash) {
		t.Fatalf("Candidate.Hash = %x, want %x", c.Hash, hash)
	}
}

func TestCoordinate_CancellationDoesNotHang(t *testing.T) {
	os.Setenv("MINER_THREADS", "1")
	defer os.Unsetenv("MINER_THREADS")

	// A practically unreachable 8-byte target (a 1 in 2^64 chance per
	// attempt) so the single worker never wins before we cancel.
	impossible := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02, 0x03}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		_, err := Coordinate(ctx, Job{Preimage: []byte("cancel me"), Target: impossible})
		if err != ErrCancelled {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Coordinate did not return within 5s of cancellation")
	}
}

func TestThreads_EnvOverride(t *testing.T) {
	os.Setenv("MINER_THREADS", "7")
	defer os.Unsetenv("MINER_THREADS")
	if got := Threads(); got != 7 {
		t.Fatalf("Threads() = %d, want 7", got)
	}
}

func TestThreads_IgnoresInvalidOverride(t *testing.T) {
	os.Setenv("MINER_THREADS", "not-a-number")
	defer os.Unsetenv("MINER_THREADS")
	if got := Threads(); got <= 0 {
		t.Fatalf("Threads() = %d, want a positive fallback", got)
	}
}

func TestWorker_SingleThreadDoesNotDeadlock(t *testing.T) {
	os.Setenv("MINER_THREADS", "1")
	defer os.Unsetenv("MINER_THREADS")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Coordinate(ctx, Job{Preimage: []byte("single worker"), Target: fastTarget})
	if err != nil {
		t.Fatalf("Coordinate with a single worker: %v", err)
	}
}

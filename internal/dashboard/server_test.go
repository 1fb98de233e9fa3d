package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/21e8/miner/internal/mining"
)

func TestServer_HealthzAndIndex(t *testing.T) {
	s := New("127.0.0.1:0")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("/healthz = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("/ = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("/ returned an empty body")
	}
}

func TestServer_PipeProgressBroadcasts(t *testing.T) {
	s := New("127.0.0.1:0")
	go s.hub.Run()

	attempts := make(chan mining.Attempt, 1)
	attempts <- mining.Attempt{Hash: []byte{0xaa, 0xbb}}
	close(attempts)

	// PipeProgress returns once the channel closes; this just exercises
	// the marshal-and-broadcast path without asserting on delivery,
	// which internal/dashboard's hub test already covers end to end.
	s.PipeProgress(attempts)
}

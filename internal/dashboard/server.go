package dashboard

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/21e8/miner/internal/mining"
)

const shutdownGrace = 5 * time.Second

const statusPage = `<!doctype html>
<html><head><title>21e8 miner</title></head>
<body>
<h1>21e8 miner</h1>
<pre id="log"></pre>
<script>
const log = document.getElementById("log");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => {
  log.textContent = ev.data + "\n" + log.textContent;
};
</script>
</body></html>`

// Server runs the local live-progress dashboard.
type Server struct {
	hub    *Hub
	engine *gin.Engine
	srv    *http.Server
}

// New builds a Server listening on addr once Start is called. It does
// not bind a socket or start any goroutines yet.
func New(addr string) *Server {
	hub := NewHub()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(statusPage))
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.GET("/ws", func(c *gin.Context) {
		if err := hub.Subscribe(c.Writer, c.Request); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
		}
	})

	return &Server{
		hub:    hub,
		engine: engine,
		srv:    &http.Server{Addr: addr, Handler: engine},
	}
}

// Start runs the hub's broadcast loop and the HTTP server in
// background goroutines. The server stops when ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// The dashboard is optional and never on the correctness
			// path; a bind failure is observable only via /healthz and
			// the process log, not a fatal error for the mining run.
			log.Printf("dashboard: listen on %s: %v", s.srv.Addr, err)
		}
	}()
}

type attemptFrame struct {
	Type string `json:"type"`
	Hash string `json:"hash"`
}

type solvedFrame struct {
	Type  string `json:"type"`
	RunID string `json:"runId"`
	TxID  string `json:"txid"`
	Path  string `json:"path"`
}

// PipeProgress forwards every mining.Attempt received on attempts to
// connected clients as a JSON frame, until attempts is closed.
func (s *Server) PipeProgress(attempts <-chan mining.Attempt) {
	for a := range attempts {
		frame, err := sonic.Marshal(&attemptFrame{Type: "attempt", Hash: hex.EncodeToString(a.Hash)})
		if err != nil {
			continue
		}
		s.hub.Broadcast(frame)
	}
}

// BroadcastSolved announces a completed mining run to connected clients.
func (s *Server) BroadcastSolved(runID, txid, path string) {
	frame, err := sonic.Marshal(&solvedFrame{Type: "solved", RunID: runID, TxID: txid, Path: path})
	if err != nil {
		return
	}
	s.hub.Broadcast(frame)
}

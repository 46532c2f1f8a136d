// Package wsserver streams pipeline events to websocket clients.
// Each connection owns one orchestrator, so a new analyze or reload message
// supersedes the run that connection has in flight.
package wsserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/huangsam/repoviz/core"
	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingEvery  = (wsPongWait * 9) / 10
	wsSendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Client actions.
const (
	actionAnalyze = "analyze"
	actionReload  = "reload"
	actionClear   = "clear"
	actionState   = "state"
	actionPing    = "ping"
)

// inbound is a message sent by the client.
type inbound struct {
	Action string `json:"action"`
	URL    string `json:"url,omitempty"`
}

// outbound is a message sent to the client. Run numbers the submissions of a
// connection so clients can ignore events of superseded runs.
type outbound struct {
	Type    string                `json:"type"`
	Run     int                   `json:"run,omitempty"`
	Index   int                   `json:"index"`
	Total   int                   `json:"total,omitempty"`
	Path    string                `json:"path,omitempty"`
	Status  string                `json:"status,omitempty"`
	Reason  string                `json:"reason,omitempty"`
	Batch   *schema.AnalysisBatch `json:"batch,omitempty"`
	State   *schema.PipelineState `json:"state,omitempty"`
	Code    string                `json:"code,omitempty"`
	Message string                `json:"message,omitempty"`
}

// Server serves the /ws endpoint.
type Server struct {
	settings core.Settings
	provider contract.AccessProvider
}

// New creates a server whose connections analyze through provider.
func New(cfg *contract.Config, provider contract.AccessProvider) *Server {
	return &Server{settings: core.SettingsFromConfig(cfg), provider: provider}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func ListenAndServe(ctx context.Context, cfg *contract.Config, provider contract.AccessProvider) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           New(cfg, provider).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	if cfg.UseEmojis {
		fmt.Printf("🌐 Listening on %s (websocket: /ws)\n", cfg.Addr)
	} else {
		fmt.Printf("Listening on %s (websocket: /ws)\n", cfg.Addr)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), wsWriteWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ServeWS upgrades the request and runs the connection until the client leaves.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		contract.LogWarn("websocket set read deadline failed", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan outbound, wsSendBuffer)
	writerDone := make(chan struct{})
	go writeLoop(ctx, conn, writeCh, writerDone)

	sess := &session{
		ctx:     ctx,
		o:       core.NewOrchestrator(s.provider, s.settings),
		writeCh: writeCh,
	}
	defer sess.o.Clear() // Stops a run still in flight

	for {
		var in inbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		sess.handle(in)
	}
}

// writeLoop owns all writes to conn.
func writeLoop(ctx context.Context, conn *websocket.Conn, writeCh <-chan outbound, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case out := <-writeCh:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(out); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// session is the per-connection state driven by the read loop.
type session struct {
	ctx     context.Context
	o       *core.Orchestrator
	writeCh chan<- outbound
	lastURL string
	run     int
}

func (s *session) handle(in inbound) {
	switch strings.ToLower(strings.TrimSpace(in.Action)) {
	case actionAnalyze:
		url := strings.TrimSpace(in.URL)
		if url == "" {
			s.push(outbound{Type: "error", Code: "invalid_argument", Message: "url is required"})
			return
		}
		s.lastURL = url
		s.submit(url)
	case actionReload:
		if s.lastURL == "" {
			s.push(outbound{Type: "error", Code: "failed_precondition", Message: "nothing to reload"})
			return
		}
		s.submit(s.lastURL)
	case actionClear:
		s.o.Clear()
		s.lastURL = ""
		s.push(outbound{Type: "cleared", Status: "Cleared"})
	case actionState:
		state := s.o.State()
		s.push(outbound{Type: "state", State: &state})
	case actionPing:
		s.push(outbound{Type: "pong"})
	case "":
		s.push(outbound{Type: "error", Code: "invalid_argument", Message: "action is required"})
	default:
		s.push(outbound{Type: "error", Code: "invalid_argument", Message: "unsupported action: " + in.Action})
	}
}

// submit starts a run and forwards its events. The forwarder keeps draining
// after the client leaves so the run can reach its terminal state.
func (s *session) submit(url string) {
	s.run++
	run := s.run
	events := s.o.Submit(s.ctx, url)
	s.push(outbound{Type: "started", Run: run, Status: core.StatusFetching})

	go func() {
		for ev := range events {
			s.push(eventMessage(run, ev))
		}
	}()
}

// push delivers out unless the connection is gone.
func (s *session) push(out outbound) {
	select {
	case s.writeCh <- out:
	case <-s.ctx.Done():
	}
}

func eventMessage(run int, ev schema.Event) outbound {
	return outbound{
		Type:   string(ev.Kind),
		Run:    run,
		Index:  ev.Index,
		Total:  ev.Total,
		Path:   ev.Path,
		Status: ev.Status,
		Reason: ev.Reason,
		Batch:  ev.Batch,
	}
}

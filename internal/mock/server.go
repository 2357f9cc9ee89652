package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custom-agent-demo/agentui/internal/cobrowse"
	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options struct {
	Scenario       Scenario
	Tick           time.Duration
	Token          string // required token query value; empty disables the check
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Server struct {
	store          *session.Store
	scenario       Scenario
	tick           time.Duration
	token          string
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	logger         *zap.Logger
	ctx            context.Context
}

// NewServer creates a mock service. Connections are torn down when ctx
// is cancelled.
func NewServer(ctx context.Context, store *session.Store, opts Options) *Server {
	s := &Server{
		store:          store,
		scenario:       opts.Scenario,
		tick:           opts.Tick,
		token:          opts.Token,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		logger:         opts.Logger,
		ctx:            ctx,
	}
	if s.scenario == "" {
		s.scenario = ScenarioHappy
	}
	if s.tick <= 0 {
		s.tick = 500 * time.Millisecond
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	for _, origin := range opts.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc(cobrowse.ConnectPath, s.handleConnect)
	mux.Handle("/api/sessions", securityHeaders(http.HandlerFunc(s.handleSessions)))
	mux.Handle("/api/sessions/", securityHeaders(http.HandlerFunc(s.handleSession)))
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	demoID := r.URL.Query().Get("filter_demo_id")
	if demoID == "" {
		http.Error(w, "missing filter_demo_id", http.StatusBadRequest)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade error", zap.Error(err))
		return
	}

	id := uuid.NewString()
	logger := s.logger.With(zap.String("session", id), zap.String("demo", demoID))
	logger.Info("agent attached", zap.String("remote", r.RemoteAddr), zap.String("scenario", string(s.scenario)))

	p := newPeer(conn, logger)
	go p.writePump()
	go s.drive(p, NewDevice(id, s.scenario))
}

// drive owns the device for the lifetime of the connection: it applies
// commands and ticks the script until the session ends or the agent leaves.
func (s *Server) drive(p *peer, d *Device) {
	defer func() {
		p.close()
		s.store.Remove(d.Session().ID)
		p.logger.Info("agent detached")
	}()

	commands := make(chan cobrowse.Command, 16)
	go p.readPump(commands)

	s.store.Update(d.Session())
	p.emit(d.Hello())

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for !d.Ended() {
		var events []session.Event
		select {
		case <-s.ctx.Done():
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			p.logger.Debug("command", zap.String("command", string(cmd.Command)), zap.String("value", cmd.Value))
			if cmd.Command == cobrowse.CmdClearAnnotations {
				p.logger.Debug("annotations cleared", zap.Int("strokes", d.Annotations()))
			}
			events = d.Apply(cmd)
		case now := <-ticker.C:
			events = d.Step(now)
		}
		if len(events) > 0 {
			s.store.Update(d.Session())
			p.emit(events)
		}
	}
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.store.GetAll())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/api/sessions/"))
	if err != nil || id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	st, ok := s.store.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func (s *Server) authorize(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	if r.URL.Query().Get("token") == s.token {
		return true
	}
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.token
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Host == r.Host {
		return true
	}
	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves handler on host:port until ctx is cancelled.
func ListenAndServe(ctx context.Context, host string, port int, handler http.Handler, logger *zap.Logger) error {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock cobrowse service listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

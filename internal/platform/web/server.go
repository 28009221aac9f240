package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/registry"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

// Config holds configuration for the web server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Mode is the registry id played when a client does not pick one.
	Mode string

	// TickRate is the simulation and frame rate of every session.
	TickRate int

	// Store records finished runs. Nil disables persistence.
	Store *storage.Store
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:  ":8080",
		Mode:     "tanks",
		TickRate: core.DefaultConfig().TickRate,
	}
}

// Server hosts one private game per WebSocket connection.
type Server struct {
	config   Config
	sessions *SessionRegistry
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a web server. It does not listen until ListenAndServe.
func NewServer(cfg Config) (*Server, error) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if cfg.Mode == "" {
		cfg.Mode = "tanks"
	}
	if !registry.Exists(cfg.Mode) {
		return nil, fmt.Errorf("web: unknown mode %q", cfg.Mode)
	}

	return &Server{
		config:   cfg,
		sessions: NewSessionRegistry(),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tanks-web",
		}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     sameOrigin,
		},
	}, nil
}

// sameOrigin accepts non-browser clients and same-host browser pages.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// Sessions exposes the live session registry.
func (s *Server) Sessions() *SessionRegistry {
	return s.sessions
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // Best-effort response
		json.NewEncoder(w).Encode(map[string]any{
			"ok":       true,
			"sessions": s.sessions.Count(),
		})
	})
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = s.config.Mode
	}

	session, err := NewSession(mode, core.RuntimeConfig{
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}, s.config.Store)
	if err != nil {
		s.logger.Warn("session refused", "mode", mode, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}

	remote := r.RemoteAddr
	if host, _, splitErr := net.SplitHostPort(remote); splitErr == nil {
		remote = host
	}

	client := NewClient(conn, session, s.logger)
	s.sessions.Register(session)
	s.logger.Info("session started", "session", session.ID, "mode", mode, "remote", remote)

	client.SendJSON(WelcomeMsg{
		T:        MsgWelcome,
		Session:  session.ID,
		Mode:     mode,
		TickRate: s.config.TickRate,
		Levels:   session.Levels(),
	})

	go client.WritePump()
	go client.TickLoop(s.config.TickRate)
	go func() {
		client.ReadPump()
		s.sessions.Unregister(session.ID)
		s.logger.Info("session ended", "session", session.ID, "remote", remote)
	}()
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.config.Address, "mode", s.config.Mode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

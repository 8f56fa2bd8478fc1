// Package server exposes one gpio adapter over an authenticated HTTPS JSON
// API.
package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/edaniels/golog"

	"gpiohal/gpio"
	"gpiohal/internal/auth"
	"gpiohal/internal/config"
	"gpiohal/internal/eventlog"
)

const sessionTTL = 24 * time.Hour

// Server owns the process's only adapter.  Every pin operation holds mu, so
// the adapter is never used from two requests at once.
type Server struct {
	cfgMgr   *config.Manager
	sessions *auth.Sessions
	events   *eventlog.Logger
	log      golog.Logger
	platform string

	mu   sync.Mutex
	gpio gpio.GPIO
}

// New builds a Server around g and applies the directions configured for
// pin aliases.
func New(cfgMgr *config.Manager, g gpio.GPIO, platform string, events *eventlog.Logger, log golog.Logger) (*Server, error) {
	s := &Server{
		cfgMgr:   cfgMgr,
		sessions: auth.NewSessions(),
		events:   events,
		log:      log,
		platform: platform,
		gpio:     g,
	}
	audited := eventlog.Audit(g, events, "startup")
	for _, p := range cfgMgr.Get().Pins {
		if p.Direction == "" {
			continue
		}
		dir, err := gpio.ParseDirection(p.Direction)
		if err != nil {
			return nil, fmt.Errorf("pin alias %q: %w", p.Name, err)
		}
		if err := audited.Setup(gpio.Pin(p.Pin), dir); err != nil {
			return nil, fmt.Errorf("set up pin alias %q: %w", p.Name, err)
		}
		log.Infow("pin configured", "alias", p.Name, "pin", p.Pin, "direction", dir)
	}
	return s, nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logout", s.handleLogout)
	mux.HandleFunc("/api/platform", s.withAuth(s.handlePlatform))
	mux.HandleFunc("/api/pins", s.withAuth(s.handlePins))
	mux.HandleFunc("/api/pins/", s.withAuth(s.handlePin))
	mux.HandleFunc("/api/logs", s.withAuth(s.handleLogs))
	return mux
}

// Run serves HTTPS until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.cfgMgr.Get()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           s.Handler(),
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.purgeSessions(ctx)

	errc := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", "https://0.0.0.0"+srv.Addr, "platform", s.platform)
		errc <- srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) purgeSessions(ctx context.Context) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sessions.Purge()
		}
	}
}

// withAuth resolves the "session" cookie to a user, or answers 401.
func (s *Server) withAuth(handler func(http.ResponseWriter, *http.Request, config.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err != nil {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		sess, ok := s.sessions.Get(cookie.Value)
		if !ok {
			http.Error(w, "session expired", http.StatusUnauthorized)
			return
		}
		user, i := s.cfgMgr.FindUser(sess.Username)
		if i < 0 {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}
		handler(w, r, user)
	}
}

// handleLogin expects {"username":"...","password":"..."}.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	user, err := s.cfgMgr.Authenticate(creds.Username, creds.Password)
	if err != nil {
		s.log.Infow("login rejected", "username", creds.Username)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	id, sess, err := s.sessions.Create(user.Username, sessionTTL)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  sess.Expires,
	})
	s.events.Log("login %s", user.Username)
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie("session"); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Unix(0, 0),
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlatform(w http.ResponseWriter, r *http.Request, _ config.User) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"platform": s.platform})
}

func (s *Server) handlePins(w http.ResponseWriter, r *http.Request, _ config.User) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.cfgMgr.Get().Pins)
}

// PinState is the body of pin read responses.
type PinState struct {
	Pin   gpio.Pin   `json:"pin"`
	Level gpio.Level `json:"level"`
}

// handlePin serves /api/pins/{pin} (GET reads, PUT writes) and
// /api/pins/{pin}/setup (POST).  {pin} may be a configured alias.
func (s *Server) handlePin(w http.ResponseWriter, r *http.Request, user config.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/pins/")
	name, action, _ := strings.Cut(rest, "/")
	if name == "" {
		http.Error(w, "missing pin", http.StatusNotFound)
		return
	}
	pin := s.cfgMgr.Get().Resolve(name)
	g := eventlog.Audit(s.gpio, s.events, user.Username)

	switch {
	case action == "setup" && r.Method == http.MethodPost:
		var req struct {
			Direction string `json:"direction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		dir, err := gpio.ParseDirection(req.Direction)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.mu.Lock()
		err = g.Setup(pin, dir)
		s.mu.Unlock()
		if err != nil {
			s.fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case action == "" && r.Method == http.MethodPut:
		var req struct {
			Level *bool `json:"level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Level == nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		err := g.Output(pin, gpio.Level(*req.Level))
		s.mu.Unlock()
		if err != nil {
			s.fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case action == "" && r.Method == http.MethodGet:
		s.mu.Lock()
		v, err := g.Input(pin)
		s.mu.Unlock()
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, PinState{Pin: pin, Level: v})

	case action != "" && action != "setup":
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleLogs returns the event log to admins.  Optional query parameter
// lines=n limits the answer to the last n lines (default 200).
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request, user config.User) {
	if !user.Admin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	limit := 200
	if n, err := strconv.Atoi(r.URL.Query().Get("lines")); err == nil && n > 0 {
		limit = n
	}
	lines, err := s.events.Tail(limit)
	if err != nil {
		http.Error(w, "log not found", http.StatusNotFound)
		return
	}
	writeJSON(w, lines)
}

// fail maps caller mistakes to 400 and everything the driver reports to 502.
func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, gpio.ErrInvalidArgument) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Warnw("gpio operation failed", "error", err)
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

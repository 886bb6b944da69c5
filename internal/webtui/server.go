// Package webtui serves the ticket TUI in a browser: each websocket connection
// runs the ticketdesk executable under a pty and relays it to xterm.js.
package webtui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html static/*
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
	// Env is added to the session process environment (e.g. TICKETDESK_BASE_URL).
	Env []string
	// Command overrides the session command; default is this executable with no args.
	Command []string
	Logger  zerolog.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  zerolog.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, log: cfg.Logger}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	static, _ := fs.Sub(assetsFS, "static")

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	})
	r.Get("/terminal", s.handleTerminal)
	r.Get("/ws", s.handleWS)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.Addr()).Msg("web terminal listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web terminal shutdown: %w", err)
	}
	return nil
}

type terminalVM struct {
	Title string
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "terminal.html", terminalVM{Title: "ticketdesk"}); err != nil {
		s.log.Error().Err(err).Msg("render terminal page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Package web serves the tutorial site: server-rendered pages, raw assets,
// a small JSON API and a websocket feed of the current tutorial.
package web

import (
	"bufio"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/p-n-ai/pai-tutorials/internal/assets"
	"github.com/p-n-ai/pai-tutorials/internal/assets/layout"
	"github.com/p-n-ai/pai-tutorials/internal/session"
	"github.com/p-n-ai/pai-tutorials/internal/topics"
)

//go:embed templates/*.html
var templateFS embed.FS

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Config holds dependencies for the web server.
type Config struct {
	Sessions     *session.Manager
	Loader       *assets.Loader
	AppName      string
	AssetBaseURL string        // mount point of raw assets (default "/assets")
	Health       HealthChecker // checked by /readyz; nil means always ready
	SecureCookie bool
}

// Server renders the site for every browser session.
type Server struct {
	cfg       Config
	templates *template.Template
	markdown  *Markdown
}

// NewServer parses the page templates and creates a server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AssetBaseURL == "" {
		cfg.AssetBaseURL = "/assets"
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"topicHref": topicHref,
		"outlineOf": outlineOf,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Server{
		cfg:       cfg,
		templates: tmpl,
		markdown:  NewMarkdown(),
	}, nil
}

// Handler returns the HTTP handler of the site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /home", s.withSession(s.handlePage))
	mux.HandleFunc("GET /error", s.withSession(s.handlePage))
	mux.HandleFunc("GET /tutorials/{course}", s.withSession(s.handlePage))
	mux.HandleFunc("GET /tutorials/{course}/{topic}", s.withSession(s.handlePage))
	mux.HandleFunc("POST /tutorials/{course}/{topic}/questions/{id}/toggle", s.withSession(s.handleToggle))
	mux.HandleFunc("GET /categories/{url...}", s.withSession(s.handleCategory))

	mux.HandleFunc("GET "+s.cfg.AssetBaseURL+"/{name...}", s.handleAsset)

	mux.HandleFunc("GET /api/categories", s.withSession(s.handleAPICategories))
	mux.HandleFunc("GET /api/tutorial", s.withSession(s.handleAPITutorial))
	mux.HandleFunc("GET /ws", s.withSession(s.handleWS))

	// "/" and every unknown path go home.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/home", http.StatusFound)
	})

	return logRequests(mux)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.cfg.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.cfg.Health.HealthCheck(ctx); err != nil {
			slog.Warn("readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// outline is the render model of one level of the sidebar tree.
type outline struct {
	Course  string
	Current string
	Topics  []topics.Topic
}

func outlineOf(course, current string, ts []topics.Topic) outline {
	return outline{Course: course, Current: current, Topics: ts}
}

func topicHref(course string, t topics.Topic) string {
	if t.URL != "" {
		return t.URL
	}
	return layout.TopicURL(course, t.ID)
}

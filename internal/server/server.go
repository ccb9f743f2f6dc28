// Package server provides the HTTP API for the session store.
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/txn2/session-vault/pkg/audit"
	"github.com/txn2/session-vault/pkg/auth"
	"github.com/txn2/session-vault/pkg/health"
	"github.com/txn2/session-vault/pkg/session"
)

// Version is set at build time.
var Version = "dev"

// docsURL is where browser requests get redirected, matching the behavior
// bot developers expect from the hosted storage API.
const docsURL = "https://grammy.dev"

// Config configures the API server.
type Config struct {
	Store   *session.Store
	Tokens  *auth.Tokens
	Bots    auth.BotVerifier
	Audit   audit.Logger
	Checker *health.Checker
}

// Server hosts the session API.
type Server struct {
	store   *session.Store
	tokens  *auth.Tokens
	bots    auth.BotVerifier
	audit   audit.Logger
	checker *health.Checker
}

// New creates the API server. All collaborators are required except Audit,
// which defaults to a noop logger, and Checker, which may be nil when health
// endpoints are not exposed.
func New(cfg Config) (*Server, error) {
	if cfg.Audit == nil {
		cfg.Audit = audit.NewNoopLogger()
	}
	return &Server{
		store:   cfg.Store,
		tokens:  cfg.Tokens,
		bots:    cfg.Bots,
		audit:   cfg.Audit,
		checker: cfg.Checker,
	}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.handleLogin)

	authed := auth.Middleware(s.tokens)
	mux.Handle("/api/session/{key...}", authed(http.HandlerFunc(s.handleSession)))
	mux.Handle("/api/sessions", authed(http.HandlerFunc(s.handleSessions)))

	if s.checker != nil {
		mux.HandleFunc("GET /healthz", s.checker.LivenessHandler())
		mux.HandleFunc("GET /readyz", s.checker.ReadinessHandler())
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return redirectBrowsers(mux)
}

// redirectBrowsers sends requests that accept text/html to the docs site.
func redirectBrowsers(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for accept := range strings.SplitSeq(r.Header.Get("Accept"), ",") {
			if strings.TrimSpace(accept) == "text/html" {
				http.Redirect(w, r, docsURL, http.StatusMovedPermanently)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

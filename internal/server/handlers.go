package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/txn2/session-vault/pkg/audit"
	"github.com/txn2/session-vault/pkg/auth"
	"github.com/txn2/session-vault/pkg/session"
)

// loginRequest is the body of POST /api/login.
type loginRequest struct {
	Token string `json:"token"`
}

// loginResponse is the success body of POST /api/login.
type loginResponse struct {
	Token string `json:"token"`
}

// handleLogin exchanges a bot token for an access token. The bot token is
// verified against the bot platform and never stored.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "expected token string in request body")
		return
	}

	tenantID, err := s.bots.VerifyBotToken(r.Context(), req.Token)
	if err != nil {
		slog.Info("login: bot token rejected", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid bot token")
		return
	}

	token, err := s.tokens.Issue(tenantID)
	if err != nil {
		slog.Error("login: issuing token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logAudit(r, audit.NewEvent(tenantID, audit.OpLogin).
		WithOutcome("issued", true, "").
		WithDuration(time.Since(start)))

	writeJSON(w, http.StatusCreated, loginResponse{Token: token})
}

// handleSession dispatches read, write, and delete for one session key. The
// key is the remainder of the path and may itself contain slashes.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	key := r.PathValue("key")

	switch r.Method {
	case http.MethodGet:
		s.readSession(w, r, tenantID, key)
	case http.MethodPost:
		s.writeSession(w, r, tenantID, key)
	case http.MethodDelete:
		s.deleteSession(w, r, tenantID, key)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSessions lists all session keys for the tenant.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := auth.TenantFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()
	keys, err := s.store.ListKeys(r.Context(), tenantID)
	s.logAudit(r, audit.NewEvent(tenantID, audit.OpList).
		WithOutcome(outcomeName(err), err == nil, errMessage(err)).
		WithDuration(time.Since(start)))
	if err != nil {
		storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

func (s *Server) readSession(w http.ResponseWriter, r *http.Request, tenantID int64, key string) {
	start := time.Now()
	data, err := s.store.Read(r.Context(), tenantID, key)
	s.logAudit(r, audit.NewEvent(tenantID, audit.OpRead).
		WithKey(key).
		WithOutcome(outcomeName(err), err == nil, errMessage(err)).
		WithDuration(time.Since(start)))

	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		storageError(w, err)
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, tenantID int64, key string) {
	if r.Body == http.NoBody {
		writeError(w, http.StatusBadRequest, "missing body")
		return
	}

	start := time.Now()
	err := s.store.Write(r.Context(), tenantID, key, r.Body)
	s.logAudit(r, audit.NewEvent(tenantID, audit.OpWrite).
		WithKey(key).
		WithOutcome(outcomeName(err), err == nil, errMessage(err)).
		WithDuration(time.Since(start)))

	switch {
	case errors.Is(err, session.ErrKeyTooLong):
		writeError(w, http.StatusBadRequest, "key too long")
	case errors.Is(err, session.ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
	case errors.Is(err, session.ErrQuotaExceeded):
		writeError(w, http.StatusConflict, "session count quota exceeded")
	case err != nil:
		storageError(w, err)
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request, tenantID int64, key string) {
	start := time.Now()
	err := s.store.Delete(r.Context(), tenantID, key)
	s.logAudit(r, audit.NewEvent(tenantID, audit.OpDelete).
		WithKey(key).
		WithOutcome(outcomeName(err), err == nil, errMessage(err)).
		WithDuration(time.Since(start)))

	if err != nil {
		storageError(w, err)
		return
	}
	// Deleting an absent key is success.
	w.WriteHeader(http.StatusNoContent)
}

// storageError reports a backend failure. The store performs no internal
// retries; clients decide whether and when to retry.
func storageError(w http.ResponseWriter, err error) {
	slog.Error("session: storage failure", "error", err)
	writeError(w, http.StatusBadGateway, "storage unavailable")
}

// logAudit records the event, never failing the request over it.
func (s *Server) logAudit(r *http.Request, event *audit.Event) {
	if err := s.audit.Log(r.Context(), *event); err != nil {
		slog.Warn("audit: logging event", "error", err)
	}
}

// outcomeName renders an operation result for the audit trail.
func outcomeName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, session.ErrNotFound):
		return "not_found"
	case errors.Is(err, session.ErrKeyTooLong):
		return "key_too_long"
	case errors.Is(err, session.ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, session.ErrQuotaExceeded):
		return "quota_exceeded"
	default:
		return "storage_error"
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

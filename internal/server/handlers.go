// internal/server/handlers.go
package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"workorder-assistant/internal/common/errors"
	"workorder-assistant/internal/common/metrics"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type textRequest struct {
	Text string `json:"text"`
}

// handleLogin checks the configured credentials and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Auth.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Auth.AdminPassword)) == 1
	if !userOK || !passOK {
		s.log.Warn("login rejected", map[string]interface{}{"username": req.Username})
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.sessions.Create(r.Context(), req.Username)
	if err != nil {
		s.log.WithError(err).Error("session create failed", map[string]interface{}{})
		writeJSONError(w, http.StatusInternalServerError, "Session store unavailable")
		return
	}

	if s.audit != nil {
		if err := s.audit.StartSession(r.Context(), token, req.Username); err != nil {
			s.log.WithError(err).Warn("session audit failed", map[string]interface{}{})
		}
	}
	metrics.ActiveSessions.Inc()

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: s.cfg.Server.SessionTTL,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	if err := s.sessions.Destroy(r.Context(), sess.Token); err != nil {
		s.log.WithError(err).Warn("session destroy failed", map[string]interface{}{})
	}
	metrics.ActiveSessions.Dec()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// handleNLP exposes the raw intent resolution for debugging clients.
func (s *Server) handleNLP(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	parsed, err := s.resolver.Resolve(r.Context(), req.Text)
	if err != nil {
		writeStandardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}

// handleChat runs one full conversational turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, _ := sessionFromContext(r.Context())
	resp := s.dispatcher.ProcessText(r.Context(), sess.Token, sess.Username, req.Text)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	header, err := s.svc.HeaderByID(r.Context(), id)
	if err != nil {
		writeStandardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, header)
}

func (s *Server) handleProjectExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	result, err := s.svc.FinancesByID(r.Context(), id, r.URL.Query().Get("required"))
	if err != nil {
		writeStandardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProjectManager(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	mgr, err := s.svc.ManagerByID(r.Context(), id)
	if err != nil {
		writeStandardError(w, err)
		return
	}
	if mgr == nil {
		writeJSONError(w, http.StatusNotFound, "No project manager assigned")
		return
	}
	writeJSON(w, http.StatusOK, mgr)
}

// handleAnalytics reports per-intent usage over the trailing N days.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeJSONError(w, http.StatusNotFound, "Analytics not configured")
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSONError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	stats, err := s.audit.Analytics(r.Context(), days)
	if err != nil {
		s.log.WithError(err).Error("analytics query failed", map[string]interface{}{})
		writeJSONError(w, http.StatusInternalServerError, "Analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":    days,
		"intents": stats,
	})
}

func (s *Server) handlePopularQueries(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeJSONError(w, http.StatusNotFound, "Analytics not configured")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	queries, err := s.audit.PopularQueries(r.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("popular queries failed", map[string]interface{}{})
		writeJSONError(w, http.StatusInternalServerError, "Analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"queries": queries})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeJSONError(w, http.StatusBadRequest, "Invalid project id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStandardError maps internal error codes to HTTP statuses.
func writeStandardError(w http.ResponseWriter, err error) {
	std := errors.Normalize(err)

	status := http.StatusInternalServerError
	switch std.Code {
	case errors.ErrCodeWorkOrderNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeAuthFailure:
		status = http.StatusUnauthorized
	case errors.ErrCodePermissionDenied:
		status = http.StatusForbidden
	case errors.ErrCodeInvalidFilter, errors.ErrCodeInvalidIntent, errors.ErrCodeParseAmbiguity:
		status = http.StatusBadRequest
	case errors.ErrCodeUpstreamFailure, errors.ErrCodeNLPUnavailable:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{
		"error": std.Message,
		"code":  string(std.Code),
	})
}

// internal/server/middleware.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"workorder-assistant/internal/common/database"
	"workorder-assistant/internal/common/logger"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps login sessions in Redis so every instance behind a
// load balancer sees the same tokens. The stored value is the username.
type SessionStore struct {
	redis *database.RedisClient
	ttl   time.Duration
	log   logger.Logger
}

func NewSessionStore(rdb *database.RedisClient, ttl time.Duration, log logger.Logger) *SessionStore {
	return &SessionStore{redis: rdb, ttl: ttl, log: log}
}

// Create issues a fresh opaque token for the user.
func (s *SessionStore) Create(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()
	if err := s.redis.Set(ctx, sessionKeyPrefix+token, username, s.ttl); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return token, nil
}

// Lookup returns the username behind a token and slides its expiry.
// An unknown or expired token returns empty without error.
func (s *SessionStore) Lookup(ctx context.Context, token string) (string, error) {
	key := sessionKeyPrefix + token
	username, err := s.redis.Get(ctx, key)
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session lookup: %w", err)
	}
	if err := s.redis.GetClient().Expire(ctx, key, s.ttl).Err(); err != nil {
		s.log.WithError(err).Warn("session expiry refresh failed", map[string]interface{}{})
	}
	return username, nil
}

// Destroy invalidates a token. Unknown tokens are a no-op.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	return s.redis.Del(ctx, sessionKeyPrefix+token)
}

type sessionContextKey struct{}

// session carries the authenticated identity through the request context.
type session struct {
	Token    string
	Username string
}

func sessionFromContext(ctx context.Context) (session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(session)
	return sess, ok
}

// bearerToken extracts the session token from the Authorization header,
// falling back to X-Session-Token for clients that cannot set it.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return r.Header.Get("X-Session-Token")
}

// requireSession rejects requests without a valid login token.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		username, err := s.sessions.Lookup(r.Context(), token)
		if err != nil {
			s.log.WithError(err).Error("session store unavailable", map[string]interface{}{})
			writeJSONError(w, http.StatusInternalServerError, "Session store unavailable")
			return
		}
		if username == "" {
			writeJSONError(w, http.StatusUnauthorized, "Session expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey{}, session{Token: token, Username: username})
		next(w, r.WithContext(ctx))
	}
}

// withRequestLog logs one line per request after it completes.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http request", map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

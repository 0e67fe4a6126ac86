// internal/audit/sink.go
package audit

import (
	"context"
	"database/sql"
	"time"

	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/models"
)

// Indexer mirrors audit rows into a secondary search store. Optional.
type Indexer interface {
	Index(ctx context.Context, entry *models.QueryLog)
}

// Sink persists processed turns to Postgres. Writes run off the response
// path and failures are logged, never surfaced to the user.
type Sink struct {
	db      *sql.DB
	log     logger.Logger
	indexer Indexer
	timeout time.Duration
}

func NewSink(db *sql.DB, log logger.Logger) *Sink {
	return &Sink{
		db:      db,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// WithIndexer attaches a secondary index that receives every stored row.
func (s *Sink) WithIndexer(idx Indexer) *Sink {
	s.indexer = idx
	return s
}

// Record stores one turn asynchronously. The caller's context may be
// cancelled as soon as the response is sent, so the write gets its own.
func (s *Sink) Record(ctx context.Context, entry *models.QueryLog) {
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.store(writeCtx, entry)
	}()
}

// RecordSync stores one turn on the calling goroutine. Used by tests and
// by shutdown paths that must not lose the final entries.
func (s *Sink) RecordSync(ctx context.Context, entry *models.QueryLog) {
	s.store(ctx, entry)
}

func (s *Sink) store(ctx context.Context, entry *models.QueryLog) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_logs
			(session_id, user_query, intent, entities, response_text, erp_result,
			 success, error_code, error_message, processing_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.SessionID,
		entry.UserQuery,
		entry.Intent,
		entry.Entities,
		entry.ResponseText,
		nullIfEmpty(entry.ErpResult),
		entry.Success,
		nullIfEmpty(entry.ErrorCode),
		nullIfEmpty(entry.ErrorMessage),
		entry.ProcessingTimeMs,
		entry.CreatedAt,
	)
	if err != nil {
		s.log.WithError(err).Error("failed to store query log", map[string]interface{}{
			"session_id": entry.SessionID,
			"intent":     entry.Intent,
		})
		return
	}

	if err := s.touchSession(ctx, entry.SessionID, entry.CreatedAt); err != nil {
		s.log.WithError(err).Warn("failed to update session activity", map[string]interface{}{
			"session_id": entry.SessionID,
		})
	}

	if s.indexer != nil {
		s.indexer.Index(ctx, entry)
	}
}

// touchSession bumps the query counter and activity timestamp for the
// session, creating the row on first sight.
func (s *Sink) touchSession(ctx context.Context, sessionID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_sessions (session_id, username, query_count, started_at, last_activity)
		VALUES ($1, '', 1, $2, $2)
		ON CONFLICT (session_id) DO UPDATE
		SET query_count = user_sessions.query_count + 1,
		    last_activity = EXCLUDED.last_activity`,
		sessionID, at,
	)
	return err
}

// StartSession registers an authenticated session.
func (s *Sink) StartSession(ctx context.Context, sessionID, username string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_sessions (session_id, username, query_count, started_at, last_activity)
		VALUES ($1, $2, 0, $3, $3)
		ON CONFLICT (session_id) DO UPDATE
		SET username = EXCLUDED.username,
		    last_activity = EXCLUDED.last_activity`,
		sessionID, username, now,
	)
	return err
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

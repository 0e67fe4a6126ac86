// internal/models/audit.go
package models

import "time"

// QueryLog is one processed turn, persisted for audit and analytics.
type QueryLog struct {
	ID               int64     `json:"id"`
	SessionID        string    `json:"session_id"`
	UserQuery        string    `json:"user_query"`
	Intent           string    `json:"intent"`
	Entities         string    `json:"entities"`
	ResponseText     string    `json:"response_text"`
	ErpResult        string    `json:"erp_result,omitempty"`
	Success          bool      `json:"success"`
	ErrorCode        string    `json:"error_code,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// UserSession tracks an authenticated conversational session.
type UserSession struct {
	SessionID    string    `json:"session_id"`
	Username     string    `json:"username"`
	QueryCount   int       `json:"query_count"`
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
}

// IntentStat aggregates query volume per intent over a window.
type IntentStat struct {
	Intent       string  `json:"intent"`
	Count        int64   `json:"count"`
	SuccessRate  float64 `json:"success_rate"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// PopularQuery is a frequently asked raw query.
type PopularQuery struct {
	UserQuery string `json:"user_query"`
	Count     int64  `json:"count"`
}

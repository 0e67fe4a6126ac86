// internal/audit/analytics.go
package audit

import (
	"context"
	"fmt"

	"workorder-assistant/internal/models"
)

// Analytics aggregates query volume, success rate, and latency per
// intent over the trailing window.
func (s *Sink) Analytics(ctx context.Context, days int) ([]models.IntentStat, error) {
	if days <= 0 {
		days = 7
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT intent,
		       COUNT(*) AS total,
		       AVG(CASE WHEN success THEN 1.0 ELSE 0.0 END) AS success_rate,
		       AVG(processing_time_ms) AS avg_latency_ms
		FROM query_logs
		WHERE created_at >= NOW() - ($1 || ' days')::interval
		GROUP BY intent
		ORDER BY total DESC`,
		fmt.Sprint(days),
	)
	if err != nil {
		return nil, fmt.Errorf("analytics query failed: %w", err)
	}
	defer rows.Close()

	var stats []models.IntentStat
	for rows.Next() {
		var stat models.IntentStat
		if err := rows.Scan(&stat.Intent, &stat.Count, &stat.SuccessRate, &stat.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("failed to scan analytics row: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// PopularQueries returns the most frequent raw queries.
func (s *Sink) PopularQueries(ctx context.Context, limit int) ([]models.PopularQuery, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_query, COUNT(*) AS total
		FROM query_logs
		GROUP BY user_query
		ORDER BY total DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("popular queries lookup failed: %w", err)
	}
	defer rows.Close()

	var queries []models.PopularQuery
	for rows.Next() {
		var q models.PopularQuery
		if err := rows.Scan(&q.UserQuery, &q.Count); err != nil {
			return nil, fmt.Errorf("failed to scan popular query row: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

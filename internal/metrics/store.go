package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nutri-meal-planner/internal/shared"
)

// ExecutionMetric records metadata for a single generator call.
type ExecutionMetric struct {
	Operation        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Success          bool
	Timestamp        time.Time
}

// Store handles persistence of generation metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing, migrated database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO generation_metrics
			(operation, model, prompt_tokens, completion_tokens, latency_ms, success, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Operation, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, m.Success,
		ts.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation metric: %w", err)
	}
	return nil
}

// RecordMeta records metrics directly from shared.AgentMeta.
func (s *Store) RecordMeta(meta shared.AgentMeta, success bool) error {
	m := MapUsage(meta.AgentName, meta.Usage, meta.Latency)
	m.Success = success
	return s.Record(m)
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalExecution  int
	Failures        int
}

// GetDailyUsage retrieves usage for the last N days, oldest first.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.DateTime)
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT substr(timestamp, 1, 10) AS day,
		       COUNT(*),
		       SUM(prompt_tokens),
		       SUM(completion_tokens),
		       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)
		FROM generation_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var (
			u                            DailyUsage
			prompt, completion, failures sql.NullInt64
		)
		if err := rows.Scan(&u.Date, &u.TotalExecution, &prompt, &completion, &failures); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		u.TotalPrompt = int(prompt.Int64)
		u.TotalCompletion = int(completion.Int64)
		u.Failures = int(failures.Int64)
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(time.DateTime)
	res, err := s.db.ExecContext(context.Background(),
		"DELETE FROM generation_metrics WHERE timestamp < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	return res.RowsAffected()
}

// MapUsage converts token usage to an ExecutionMetric.
func MapUsage(operation string, usage shared.TokenUsage, latency time.Duration) ExecutionMetric {
	return ExecutionMetric{
		Operation:        operation,
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
		Success:          true,
		Timestamp:        time.Now().UTC(),
	}
}

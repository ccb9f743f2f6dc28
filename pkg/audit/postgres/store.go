// Package postgres provides PostgreSQL storage for audit logs.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/txn2/session-vault/pkg/audit"
)

const (
	defaultRetentionDays = 90
	defaultQueryLimit    = 100
	maxQueryLimit        = 10000
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// auditColumns lists columns returned by audit SELECT queries.
var auditColumns = []string{
	"id", "timestamp", "duration_ms", "tenant_id", "op", "key",
	"outcome", "success", "error_message",
}

// Store implements audit.Logger using PostgreSQL.
type Store struct {
	db            *sql.DB
	retentionDays int
	cancel        context.CancelFunc
	done          chan struct{}
}

// Config configures the PostgreSQL audit store.
type Config struct {
	RetentionDays int
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB, cfg Config) *Store {
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = defaultRetentionDays
	}
	return &Store{
		db:            db,
		retentionDays: cfg.RetentionDays,
	}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_logs
		(id, timestamp, duration_ms, tenant_id, op, key, outcome, success, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		event.DurationMS,
		event.TenantID,
		string(event.Op),
		event.Key,
		event.Outcome,
		event.Success,
		event.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}
	return nil
}

// Query retrieves audit events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	builder := psq.Select(auditColumns...).
		From("audit_logs").
		OrderBy("timestamp DESC")

	if filter.StartTime != nil {
		builder = builder.Where(sq.GtOrEq{"timestamp": *filter.StartTime})
	}
	if filter.EndTime != nil {
		builder = builder.Where(sq.LtOrEq{"timestamp": *filter.EndTime})
	}
	if filter.TenantID != nil {
		builder = builder.Where(sq.Eq{"tenant_id": *filter.TenantID})
	}
	if filter.Op != "" {
		builder = builder.Where(sq.Eq{"op": string(filter.Op)})
	}
	if filter.Success != nil {
		builder = builder.Where(sq.Eq{"success": *filter.Success})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	builder = builder.Limit(uint64(limit))
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building audit query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]audit.Event, 0, limit)
	for rows.Next() {
		var e audit.Event
		var op string
		err := rows.Scan(&e.ID, &e.Timestamp, &e.DurationMS, &e.TenantID, &op,
			&e.Key, &e.Outcome, &e.Success, &e.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		e.Op = audit.Op(op)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit rows: %w", err)
	}
	return events, nil
}

// Cleanup removes events older than the retention window.
func (s *Store) Cleanup(ctx context.Context) error {
	query := `DELETE FROM audit_logs WHERE timestamp < NOW() - $1::interval`
	_, err := s.db.ExecContext(ctx, query, fmt.Sprintf("%d days", s.retentionDays))
	if err != nil {
		return fmt.Errorf("cleaning up audit events: %w", err)
	}
	return nil
}

// StartCleanupRoutine starts a background goroutine that periodically removes
// events past retention. The goroutine is stopped when Close is called.
func (s *Store) StartCleanupRoutine(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Cleanup(ctx); err != nil {
					slog.Warn("audit cleanup failed", "error", err)
				}
			}
		}
	}()
}

// Close stops the cleanup goroutine and waits for it to exit.
// It is safe to call Close even if StartCleanupRoutine was never called.
func (s *Store) Close() error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	return nil
}

// Verify interface compliance.
var _ audit.Logger = (*Store)(nil)

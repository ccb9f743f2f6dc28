// Package audit provides audit logging for session operations.
package audit

import (
	"context"
	"time"
)

// Op identifies the session operation an event records.
type Op string

const (
	// OpRead is a session read.
	OpRead Op = "read"

	// OpWrite is a session write.
	OpWrite Op = "write"

	// OpDelete is a session delete.
	OpDelete Op = "delete"

	// OpList is a key enumeration.
	OpList Op = "list"

	// OpLogin is a bot-token login.
	OpLogin Op = "login"
)

// Logger defines the interface for audit logging.
type Logger interface {
	// Log records an audit event.
	Log(ctx context.Context, event Event) error

	// Query retrieves audit events matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Close releases resources.
	Close() error
}

// Event represents one audited session operation.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	DurationMS   int64     `json:"duration_ms"`
	TenantID     int64     `json:"tenant_id"`
	Op           Op        `json:"op"`
	Key          string    `json:"key,omitempty"`
	Outcome      string    `json:"outcome"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// QueryFilter defines criteria for querying audit events.
type QueryFilter struct {
	StartTime *time.Time
	EndTime   *time.Time
	TenantID  *int64
	Op        Op
	Success   *bool
	Limit     int
	Offset    int
}

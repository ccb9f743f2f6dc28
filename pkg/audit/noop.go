package audit

import "context"

// NoopLogger discards all events. Used when auditing is disabled.
type NoopLogger struct{}

// NewNoopLogger creates a logger that discards everything.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// Log discards the event.
func (*NoopLogger) Log(context.Context, Event) error { return nil }

// Query returns no events.
func (*NoopLogger) Query(context.Context, QueryFilter) ([]Event, error) {
	return nil, nil
}

// Close is a no-op.
func (*NoopLogger) Close() error { return nil }

// Verify interface compliance.
var _ Logger = (*NoopLogger)(nil)

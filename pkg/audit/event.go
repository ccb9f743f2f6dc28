package audit

import (
	"time"

	"github.com/google/uuid"
)

// NewEvent creates a new audit event for a session operation.
func NewEvent(tenantID int64, op Op) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		TenantID:  tenantID,
		Op:        op,
	}
}

// WithKey records the session key the operation touched.
func (e *Event) WithKey(key string) *Event {
	e.Key = key
	return e
}

// WithOutcome records the operation outcome.
func (e *Event) WithOutcome(outcome string, success bool, errorMsg string) *Event {
	e.Outcome = outcome
	e.Success = success
	e.ErrorMessage = errorMsg
	return e
}

// WithDuration records the operation duration.
func (e *Event) WithDuration(d time.Duration) *Event {
	e.DurationMS = d.Milliseconds()
	return e
}

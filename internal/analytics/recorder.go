package analytics

import "context"

// Event types emitted by the engine.
const (
	EventLeadCreated      = "lead_created"
	EventLeadUpdated      = "lead_updated"
	EventMessageProcessed = "message_processed"
	EventFallbackUsed     = "fallback_used"
)

// Recorder records per-business analytics events. Implementations must be
// fire-and-forget: failures are logged, never returned to the caller's
// request path.
type Recorder interface {
	RecordEvent(ctx context.Context, businessID, eventType string, payload map[string]string)
}

// NoopRecorder discards all events.
type NoopRecorder struct{}

// RecordEvent implements Recorder.
func (NoopRecorder) RecordEvent(ctx context.Context, businessID, eventType string, payload map[string]string) {
}

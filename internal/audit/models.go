package audit

import "time"

// EventType names an auditable action.
type EventType string

const (
	EventUserCreated     EventType = "user_created"
	EventUserUpdated     EventType = "user_updated"
	EventUserDeleted     EventType = "user_deleted"
	EventSignedIn        EventType = "signed_in"
	EventSignedOut       EventType = "signed_out"
	EventPersonCreated   EventType = "person_created"
	EventPersonUpdated   EventType = "person_updated"
	EventPersonDeleted   EventType = "person_deleted"
	EventPersonsImported EventType = "persons_imported"
	EventRateLimited     EventType = "rate_limited"
)

// Event is emitted from services to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Type       EventType         `json:"type"`
	Timestamp  time.Time         `json:"timestamp"`
	UserID     string            `json:"user_id"`
	Subject    string            `json:"subject,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

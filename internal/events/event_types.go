package events

import (
	"time"

	"github.com/campus-safety/incident-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIncidentCreated       EventType = "incident_created"
	EventIncidentStatusChanged EventType = "incident_status_changed"
	EventIncidentAssigned      EventType = "incident_assigned"
)

// Actor encapsulates actor metadata for an event. Anonymous reports carry
// no actor ID.
type Actor struct {
	Role domain.Role `json:"role,omitempty"`
	ID   string      `json:"id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	IncidentID  string      `json:"incident_id"`
	ReferenceID string      `json:"reference_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// IncidentCreatedPayload payload.
type IncidentCreatedPayload struct {
	Category    domain.IncidentCategory `json:"category"`
	Title       string                  `json:"title"`
	IsAnonymous bool                    `json:"is_anonymous"`
}

// IncidentStatusChangedPayload payload.
type IncidentStatusChangedPayload struct {
	OldStatus domain.IncidentStatus `json:"old_status"`
	NewStatus domain.IncidentStatus `json:"new_status"`
	Note      string                `json:"note,omitempty"`
}

// IncidentAssignedPayload payload.
type IncidentAssignedPayload struct {
	OldAssignee string `json:"old_assignee,omitempty"`
	NewAssignee string `json:"new_assignee"`
}

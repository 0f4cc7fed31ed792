package domain

import "time"

// IncidentHistory is an immutable status-change audit entry.
type IncidentHistory struct {
	ID         string
	IncidentID string
	ChangedBy  Role
	OldStatus  IncidentStatus
	NewStatus  IncidentStatus
	Note       string
	CreatedAt  time.Time
}

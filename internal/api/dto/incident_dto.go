package dto

import (
	"strings"
	"time"

	"github.com/campus-safety/incident-service/internal/domain"
)

// CreateIncidentRequest payload.
type CreateIncidentRequest struct {
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	Category     domain.IncidentCategory `json:"category"`
	Location     string                  `json:"location"`
	DateOccurred string                  `json:"date_occurred"`
	IsAnonymous  bool                    `json:"is_anonymous"`
	ReporterName string                  `json:"reporter_name"`
}

// ParseDateOccurred accepts a calendar date or an RFC3339 timestamp. The
// zero time is returned for empty input.
func (r CreateIncidentRequest) ParseDateOccurred() (time.Time, error) {
	val := strings.TrimSpace(r.DateOccurred)
	if val == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, val)
}

// CreateIncidentResponse is returned after submission.
type CreateIncidentResponse struct {
	ID          string `json:"id"`
	ReferenceID string `json:"reference_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.IncidentStatus `json:"status"`
	Note   string                `json:"note"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// IncidentResponse is the full incident view.
type IncidentResponse struct {
	ID           string                  `json:"id"`
	ReferenceID  string                  `json:"reference_id"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	Category     domain.IncidentCategory `json:"category"`
	Status       domain.IncidentStatus   `json:"status"`
	Location     string                  `json:"location"`
	DateOccurred time.Time               `json:"date_occurred"`
	DateReported time.Time               `json:"date_reported"`
	IsAnonymous  bool                    `json:"is_anonymous"`
	ReporterID   string                  `json:"reporter_id"`
	ReporterName string                  `json:"reporter_name,omitempty"`
	AdminNotes   string                  `json:"admin_notes,omitempty"`
	AssignedTo   string                  `json:"assigned_to,omitempty"`
}

// QueueItemResponse is an open incident with its age.
type QueueItemResponse struct {
	IncidentResponse
	AgingHours int  `json:"aging_hours"`
	Overdue    bool `json:"overdue"`
}

// StatsResponse summarizes the collection.
type StatsResponse struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InReview       int `json:"in_review"`
	Resolved       int `json:"resolved"`
	Dismissed      int `json:"dismissed"`
	ResolutionRate int `json:"resolution_rate"`
}

// HistoryResponse represents a status change.
type HistoryResponse struct {
	ID        string                `json:"id"`
	ChangedBy domain.Role           `json:"changed_by"`
	OldStatus domain.IncidentStatus `json:"old_status"`
	NewStatus domain.IncidentStatus `json:"new_status"`
	Note      string                `json:"note,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

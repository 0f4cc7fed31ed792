package domain

import (
	"fmt"
	"time"
)

// IncidentStatus enumerates triage states. Any status may move to any other.
type IncidentStatus string

const (
	IncidentStatusPending   IncidentStatus = "pending"
	IncidentStatusInReview  IncidentStatus = "in_review"
	IncidentStatusResolved  IncidentStatus = "resolved"
	IncidentStatusDismissed IncidentStatus = "dismissed"
)

// Valid reports whether s is a known status.
func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentStatusPending, IncidentStatusInReview, IncidentStatusResolved, IncidentStatusDismissed:
		return true
	}
	return false
}

// IncidentCategory classifies what kind of event was reported.
type IncidentCategory string

const (
	CategorySafety     IncidentCategory = "safety"
	CategoryHarassment IncidentCategory = "harassment"
	CategoryFacilities IncidentCategory = "facilities"
	CategoryTheft      IncidentCategory = "theft"
	CategoryOther      IncidentCategory = "other"
)

// Valid reports whether c is a known category.
func (c IncidentCategory) Valid() bool {
	switch c {
	case CategorySafety, CategoryHarassment, CategoryFacilities, CategoryTheft, CategoryOther:
		return true
	}
	return false
}

// AnonymousReporterID replaces the reporter of anonymous incidents.
const AnonymousReporterID = "anonymous"

// Incident is a single reported campus event. Empty optional strings mean unset.
type Incident struct {
	ID           string
	ReferenceID  string
	Title        string
	Description  string
	Category     IncidentCategory
	Status       IncidentStatus
	Location     string
	DateOccurred time.Time
	DateReported time.Time
	IsAnonymous  bool
	ReporterID   string
	ReporterName string
	AdminNotes   string
	AssignedTo   string
}

// AppendNote adds note to the admin notes, newline separated. Empty notes are ignored.
func (i *Incident) AppendNote(note string) {
	if note == "" {
		return
	}
	if i.AdminNotes == "" {
		i.AdminNotes = note
		return
	}
	i.AdminNotes = i.AdminNotes + "\n" + note
}

// FormatReferenceID renders the human-facing code, e.g. INC-2025-001.
func FormatReferenceID(year, seq int) string {
	return fmt.Sprintf("INC-%d-%03d", year, seq)
}

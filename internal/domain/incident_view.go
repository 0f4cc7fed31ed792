package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

// FilterAll matches every value of a status or category filter.
const FilterAll = "all"

// OverdueThreshold is the age after which an open incident is flagged.
const OverdueThreshold = 24 * time.Hour

// SearchScope selects which fields a text query is matched against.
type SearchScope int

const (
	// SearchScopeDetail matches title, reference id and description.
	SearchScopeDetail SearchScope = iota
	// SearchScopeQueue matches reference id, title and category.
	SearchScopeQueue
)

// IncidentFilter narrows a list of incidents. Zero values match everything.
type IncidentFilter struct {
	ReporterID string
	Status     string
	Category   string
	Query      string
	Scope      SearchScope
}

// Matches reports whether the incident satisfies every predicate of the filter.
func (f IncidentFilter) Matches(inc Incident) bool {
	if f.ReporterID != "" && inc.ReporterID != f.ReporterID {
		return false
	}
	return MatchesStatus(inc, f.Status) && MatchesCategory(inc, f.Category) && MatchesQuery(inc, f.Query, f.Scope)
}

// Apply returns the incidents matching the filter, preserving order.
func (f IncidentFilter) Apply(incidents []Incident) []Incident {
	out := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		if f.Matches(inc) {
			out = append(out, inc)
		}
	}
	return out
}

// MatchesStatus compares against status, treating "" and "all" as wildcards.
func MatchesStatus(inc Incident, status string) bool {
	if status == "" || status == FilterAll {
		return true
	}
	return string(inc.Status) == status
}

// MatchesCategory compares against category, treating "" and "all" as wildcards.
func MatchesCategory(inc Incident, category string) bool {
	if category == "" || category == FilterAll {
		return true
	}
	return string(inc.Category) == category
}

// MatchesQuery is a case-insensitive substring match over the scope's fields.
func MatchesQuery(inc Incident, query string, scope SearchScope) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(searchText(inc, scope)), strings.ToLower(query))
}

func searchText(inc Incident, scope SearchScope) string {
	switch scope {
	case SearchScopeQueue:
		return strings.Join([]string{inc.ReferenceID, inc.Title, string(inc.Category)}, " ")
	default:
		return strings.Join([]string{inc.Title, inc.ReferenceID, inc.Description}, " ")
	}
}

// SortByRecency orders incidents newest reported first. Ties keep their order.
func SortByRecency(incidents []Incident) {
	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].DateReported.After(incidents[j].DateReported)
	})
}

// IncidentStats holds aggregate counts over a collection.
type IncidentStats struct {
	Total     int
	Pending   int
	InReview  int
	Resolved  int
	Dismissed int
}

// ComputeStats counts incidents per status with a full scan.
func ComputeStats(incidents []Incident) IncidentStats {
	stats := IncidentStats{Total: len(incidents)}
	for _, inc := range incidents {
		switch inc.Status {
		case IncidentStatusPending:
			stats.Pending++
		case IncidentStatusInReview:
			stats.InReview++
		case IncidentStatusResolved:
			stats.Resolved++
		case IncidentStatusDismissed:
			stats.Dismissed++
		}
	}
	return stats
}

// ResolutionRate is the resolved share as a percentage, 0 for an empty collection.
func (s IncidentStats) ResolutionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Resolved) / float64(s.Total) * 100
}

// ResolutionRatePercent rounds ResolutionRate to a whole percentage.
func (s IncidentStats) ResolutionRatePercent() int {
	return int(math.Round(s.ResolutionRate()))
}

// AgingHours returns whole hours elapsed between reported and now.
func AgingHours(reported, now time.Time) int {
	return int(math.Floor(now.Sub(reported).Hours()))
}

// IsOpen reports whether the incident still needs attention.
func IsOpen(inc Incident) bool {
	return inc.Status != IncidentStatusResolved
}

// IsOverdue reports whether an open incident has aged past OverdueThreshold.
func IsOverdue(inc Incident, now time.Time) bool {
	return IsOpen(inc) && now.Sub(inc.DateReported) >= OverdueThreshold
}

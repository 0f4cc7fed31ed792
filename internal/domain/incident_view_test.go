package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIncidents() []Incident {
	base := time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)
	return []Incident{
		{ID: "inc_5", ReferenceID: "INC-2025-005", Title: "Water Leak in Dormitory", Description: "Ceiling leak in room 412", Category: CategoryFacilities, Status: IncidentStatusPending, ReporterID: "usr_student2", DateReported: base},
		{ID: "inc_3", ReferenceID: "INC-2025-003", Title: "Verbal Harassment in Library", Description: "Offensive language in the quiet area", Category: CategoryHarassment, Status: IncidentStatusPending, ReporterID: AnonymousReporterID, DateReported: base.Add(-2 * time.Hour)},
		{ID: "inc_1", ReferenceID: "INC-2025-001", Title: "Broken Emergency Exit Light", Description: "Light flickering near room 305", Category: CategoryFacilities, Status: IncidentStatusInReview, ReporterID: "usr_student1", DateReported: base.Add(-24 * time.Hour)},
		{ID: "inc_2", ReferenceID: "INC-2025-002", Title: "Suspicious Activity Near Parking Lot", Description: "Photos of vehicles", Category: CategorySafety, Status: IncidentStatusResolved, ReporterID: AnonymousReporterID, DateReported: base.Add(-48 * time.Hour)},
	}
}

func ids(incidents []Incident) []string {
	out := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, inc.ID)
	}
	return out
}

func TestMatchesQueryIsCaseInsensitive(t *testing.T) {
	inc := sampleIncidents()[0]

	assert.True(t, MatchesQuery(inc, "", SearchScopeDetail))
	assert.True(t, MatchesQuery(inc, "WATER leak", SearchScopeDetail))
	assert.True(t, MatchesQuery(inc, "inc-2025-005", SearchScopeDetail))
	assert.True(t, MatchesQuery(inc, "room 412", SearchScopeDetail))
	assert.False(t, MatchesQuery(inc, "facilities", SearchScopeDetail))

	assert.True(t, MatchesQuery(inc, "facilities", SearchScopeQueue))
	assert.False(t, MatchesQuery(inc, "room 412", SearchScopeQueue))
}

func TestStatusAndCategoryFiltersTreatAllAsWildcard(t *testing.T) {
	inc := sampleIncidents()[2]

	assert.True(t, MatchesStatus(inc, FilterAll))
	assert.True(t, MatchesStatus(inc, ""))
	assert.True(t, MatchesStatus(inc, "in_review"))
	assert.False(t, MatchesStatus(inc, "pending"))

	assert.True(t, MatchesCategory(inc, FilterAll))
	assert.True(t, MatchesCategory(inc, "facilities"))
	assert.False(t, MatchesCategory(inc, "theft"))
}

func TestFilterCompositionEqualsIntersection(t *testing.T) {
	all := sampleIncidents()
	combined := IncidentFilter{Status: "pending", Category: "facilities", Query: "leak"}.Apply(all)

	byStatus := IncidentFilter{Status: "pending"}.Apply(all)
	byCategory := IncidentFilter{Category: "facilities"}.Apply(all)
	byQuery := IncidentFilter{Query: "leak"}.Apply(all)

	var intersection []string
	for _, id := range ids(byStatus) {
		if contains(ids(byCategory), id) && contains(ids(byQuery), id) {
			intersection = append(intersection, id)
		}
	}
	assert.Equal(t, intersection, ids(combined))
	assert.Equal(t, []string{"inc_5"}, ids(combined))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func TestFilterByReporterKeepsOrder(t *testing.T) {
	got := IncidentFilter{ReporterID: AnonymousReporterID}.Apply(sampleIncidents())
	assert.Equal(t, []string{"inc_3", "inc_2"}, ids(got))
}

func TestSortByRecency(t *testing.T) {
	list := sampleIncidents()
	list[0], list[3] = list[3], list[0]

	SortByRecency(list)
	assert.Equal(t, []string{"inc_5", "inc_3", "inc_1", "inc_2"}, ids(list))
}

func TestComputeStatsAndResolutionRate(t *testing.T) {
	stats := ComputeStats(sampleIncidents())
	assert.Equal(t, IncidentStats{Total: 4, Pending: 2, InReview: 1, Resolved: 1}, stats)
	assert.InDelta(t, 25.0, stats.ResolutionRate(), 0.0001)
	assert.Equal(t, 25, stats.ResolutionRatePercent())
}

func TestResolutionRateWithNoIncidentsIsZero(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.ResolutionRate())
	assert.Equal(t, 0, stats.ResolutionRatePercent())
}

func TestAgingAndOverdue(t *testing.T) {
	reported := time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)
	inc := Incident{Status: IncidentStatusPending, DateReported: reported}

	assert.Equal(t, 0, AgingHours(reported, reported.Add(59*time.Minute)))
	assert.Equal(t, 23, AgingHours(reported, reported.Add(23*time.Hour+59*time.Minute)))
	assert.False(t, IsOverdue(inc, reported.Add(23*time.Hour)))
	assert.True(t, IsOverdue(inc, reported.Add(24*time.Hour)))

	inc.Status = IncidentStatusResolved
	assert.False(t, IsOverdue(inc, reported.Add(72*time.Hour)))

	inc.Status = IncidentStatusDismissed
	assert.True(t, IsOverdue(inc, reported.Add(72*time.Hour)))
}

func TestAppendNote(t *testing.T) {
	var inc Incident
	inc.AppendNote("")
	assert.Empty(t, inc.AdminNotes)

	inc.AppendNote("a")
	inc.AppendNote("b")
	require.Equal(t, "a\nb", inc.AdminNotes)
}

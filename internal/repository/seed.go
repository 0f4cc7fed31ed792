package repository

import (
	"time"

	"github.com/campus-safety/incident-service/internal/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// DemoIncidents returns the sample dashboard data, in display order.
func DemoIncidents() []domain.Incident {
	return []domain.Incident{
		{
			ID:           "inc_1",
			ReferenceID:  "INC-2025-001",
			Title:        "Broken Emergency Exit Light",
			Description:  "The emergency exit light in Building C, 3rd floor near room 305 has been flickering and went out completely yesterday evening.",
			Category:     domain.CategoryFacilities,
			Status:       domain.IncidentStatusInReview,
			Location:     "Building C, 3rd Floor",
			DateReported: day(2025, time.January, 8),
			DateOccurred: day(2025, time.January, 7),
			ReporterID:   "usr_student1",
			ReporterName: "Alex Johnson",
		},
		{
			ID:           "inc_2",
			ReferenceID:  "INC-2025-002",
			Title:        "Suspicious Activity Near Parking Lot",
			Description:  "Noticed an unfamiliar individual taking photos of vehicles in the faculty parking lot around 6 PM. They left when approached by security.",
			Category:     domain.CategorySafety,
			Status:       domain.IncidentStatusResolved,
			Location:     "Faculty Parking Lot B",
			DateReported: day(2025, time.January, 7),
			DateOccurred: day(2025, time.January, 7),
			IsAnonymous:  true,
			ReporterID:   domain.AnonymousReporterID,
			AdminNotes:   "Security has reviewed CCTV footage. Individual was identified as a delivery driver. No further action needed.",
		},
		{
			ID:           "inc_3",
			ReferenceID:  "INC-2025-003",
			Title:        "Verbal Harassment in Library",
			Description:  "A group of students were using offensive language and making inappropriate comments towards others in the quiet study area.",
			Category:     domain.CategoryHarassment,
			Status:       domain.IncidentStatusPending,
			Location:     "Main Library, 2nd Floor",
			DateReported: day(2025, time.January, 9),
			DateOccurred: day(2025, time.January, 9),
			IsAnonymous:  true,
			ReporterID:   domain.AnonymousReporterID,
		},
		{
			ID:           "inc_4",
			ReferenceID:  "INC-2025-004",
			Title:        "Missing Lab Equipment",
			Description:  "Two microscopes and a set of lab tools went missing from Chemistry Lab 201 sometime during the weekend.",
			Category:     domain.CategoryTheft,
			Status:       domain.IncidentStatusInReview,
			Location:     "Science Building, Lab 201",
			DateReported: day(2025, time.January, 6),
			DateOccurred: day(2025, time.January, 5),
			ReporterID:   "usr_staff1",
			ReporterName: "Dr. Maria Chen",
			AssignedTo:   "Security Team",
		},
		{
			ID:           "inc_5",
			ReferenceID:  "INC-2025-005",
			Title:        "Water Leak in Dormitory",
			Description:  "There's a persistent water leak from the ceiling in room 412 of North Dormitory. Water is dripping onto electrical outlets.",
			Category:     domain.CategoryFacilities,
			Status:       domain.IncidentStatusPending,
			Location:     "North Dormitory, Room 412",
			DateReported: day(2025, time.January, 9),
			DateOccurred: day(2025, time.January, 9),
			ReporterID:   "usr_student2",
			ReporterName: "Jamie Rivera",
		},
	}
}

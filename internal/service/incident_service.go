package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/campus-safety/incident-service/internal/domain"
	"github.com/campus-safety/incident-service/internal/events"
	"github.com/campus-safety/incident-service/internal/observability"
	"github.com/campus-safety/incident-service/internal/repository"
	apperrors "github.com/campus-safety/incident-service/pkg/util"
)

const defaultQueueLimit = 6

// IncidentService is the authoritative incident store and its derived views.
type IncidentService struct {
	incidents  repository.IncidentRepository
	history    repository.IncidentHistoryRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	validate   *validator.Validate
	now        func() time.Time
	queueLimit int
}

// IncidentDependencies bundles collaborators for the incident service.
type IncidentDependencies struct {
	IncidentRepo repository.IncidentRepository
	HistoryRepo  repository.IncidentHistoryRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Validator    *validator.Validate
	Clock        func() time.Time
	QueueLimit   int
}

// IncidentCreateInput describes a new report.
type IncidentCreateInput struct {
	Title        string                  `validate:"required"`
	Description  string                  `validate:"required"`
	Category     domain.IncidentCategory `validate:"required,oneof=safety harassment facilities theft other"`
	Location     string                  `validate:"required"`
	DateOccurred time.Time
	IsAnonymous  bool
	ReporterID   string
	ReporterName string
}

// QueueItem is an open incident with its current age.
type QueueItem struct {
	Incident   domain.Incident
	AgingHours int
	Overdue    bool
}

// NewIncidentService constructs the service.
func NewIncidentService(deps IncidentDependencies) *IncidentService {
	validate := deps.Validator
	if validate == nil {
		validate = validator.New()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	limit := deps.QueueLimit
	if limit <= 0 {
		limit = defaultQueueLimit
	}
	return &IncidentService{
		incidents:  deps.IncidentRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		validate:   validate,
		now:        clock,
		queueLimit: limit,
	}
}

// Create validates and stores a new pending incident. Anonymous reports
// lose their reporter identity here and it is never recoverable.
func (s *IncidentService) Create(ctx context.Context, input IncidentCreateInput) (*domain.Incident, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.ReporterID = strings.TrimSpace(input.ReporterID)
	input.ReporterName = strings.TrimSpace(input.ReporterName)

	now := s.now()
	if err := s.validateCreate(input, now); err != nil {
		return nil, err
	}

	incident := &domain.Incident{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Status:       domain.IncidentStatusPending,
		Location:     input.Location,
		DateOccurred: input.DateOccurred,
		DateReported: now,
		IsAnonymous:  input.IsAnonymous,
		ReporterID:   input.ReporterID,
		ReporterName: input.ReporterName,
	}
	if incident.IsAnonymous {
		incident.ReporterID = domain.AnonymousReporterID
		incident.ReporterName = ""
	}

	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordIncidentCreated(string(incident.Category))

	actor := events.Actor{}
	if !incident.IsAnonymous {
		actor.ID = incident.ReporterID
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventIncidentCreated,
		IncidentID:  incident.ID,
		ReferenceID: incident.ReferenceID,
		Actor:       actor,
		Payload: events.IncidentCreatedPayload{
			Category:    incident.Category,
			Title:       incident.Title,
			IsAnonymous: incident.IsAnonymous,
		},
	})
	return incident, nil
}

func (s *IncidentService) validateCreate(input IncidentCreateInput, now time.Time) error {
	details := map[string]any{}
	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperrors.NewInternalError(err)
		}
		for _, fe := range fieldErrs {
			details[snakeCase(fe.Field())] = fe.Tag()
		}
	}
	if input.DateOccurred.IsZero() {
		details["date_occurred"] = "required"
	} else if input.DateOccurred.After(now) {
		details["date_occurred"] = "after_date_reported"
	}
	if !input.IsAnonymous && input.ReporterID == "" {
		details["reporter_id"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid incident", details)
	}
	return nil
}

// UpdateStatus sets the status unconditionally and appends note, if any, to
// the admin notes exactly as given. Any status may follow any other.
func (s *IncidentService) UpdateStatus(ctx context.Context, actor domain.Identity, id string, status domain.IncidentStatus, note string) (*domain.Incident, error) {
	if !domain.CanChangeStatus(actor.Role) {
		return nil, apperrors.NewForbidden("role cannot change incident status")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	var oldStatus domain.IncidentStatus
	incident, err := s.incidents.Update(ctx, id, func(inc *domain.Incident) error {
		oldStatus = inc.Status
		inc.Status = status
		inc.AppendNote(note)
		return nil
	})
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	s.metrics.RecordStatusChange(string(status))

	if err := s.recordStatusChange(ctx, actor.Role, incident.ID, oldStatus, status, note); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventIncidentStatusChanged,
		IncidentID:  incident.ID,
		ReferenceID: incident.ReferenceID,
		Actor:       events.Actor{Role: actor.Role, ID: actor.ID},
		Payload: events.IncidentStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
			Note:      note,
		},
	})
	return incident, nil
}

// Assign sets the owner label of an incident.
func (s *IncidentService) Assign(ctx context.Context, actor domain.Identity, id, owner string) (*domain.Incident, error) {
	if !domain.CanAssign(actor.Role) {
		return nil, apperrors.NewForbidden("role cannot assign incidents")
	}
	owner = strings.TrimSpace(owner)

	var oldOwner string
	incident, err := s.incidents.Update(ctx, id, func(inc *domain.Incident) error {
		oldOwner = inc.AssignedTo
		inc.AssignedTo = owner
		return nil
	})
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventIncidentAssigned,
		IncidentID:  incident.ID,
		ReferenceID: incident.ReferenceID,
		Actor:       events.Actor{Role: actor.Role, ID: actor.ID},
		Payload: events.IncidentAssignedPayload{
			OldAssignee: oldOwner,
			NewAssignee: owner,
		},
	})
	return incident, nil
}

// GetByID looks up a single incident.
func (s *IncidentService) GetByID(ctx context.Context, id string) (*domain.Incident, error) {
	incident, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return incident, nil
}

// GetForViewer returns the incident if the viewer may see it. Incidents the
// viewer cannot see are reported as missing.
func (s *IncidentService) GetForViewer(ctx context.Context, viewer domain.Identity, id string) (*domain.Incident, error) {
	incident, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanSeeAllIncidents(viewer.Role) && incident.ReporterID != viewer.ID {
		return nil, apperrors.NewNotFound("incident", map[string]any{"incident_id": id})
	}
	return incident, nil
}

// GetByReference finds an incident by its reference code, case-insensitively.
// Viewers without the see-all capability can track their own reports and
// anonymous ones, whose code is the only handle the reporter keeps.
func (s *IncidentService) GetByReference(ctx context.Context, viewer domain.Identity, referenceID string) (*domain.Incident, error) {
	referenceID = strings.TrimSpace(referenceID)
	incident, err := s.incidents.GetByReferenceID(ctx, referenceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("incident", map[string]any{"reference_id": referenceID})
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.CanSeeAllIncidents(viewer.Role) && !incident.IsAnonymous && incident.ReporterID != viewer.ID {
		return nil, apperrors.NewNotFound("incident", map[string]any{"reference_id": referenceID})
	}
	return incident, nil
}

// ListByReporter returns the reporter's incidents, most recent first.
func (s *IncidentService) ListByReporter(ctx context.Context, reporterID string) ([]domain.Incident, error) {
	return s.List(ctx, domain.IncidentFilter{ReporterID: reporterID})
}

// ListAll returns every incident, most recent first.
func (s *IncidentService) ListAll(ctx context.Context) ([]domain.Incident, error) {
	return s.List(ctx, domain.IncidentFilter{})
}

// List returns incidents matching every predicate of filter.
func (s *IncidentService) List(ctx context.Context, filter domain.IncidentFilter) ([]domain.Incident, error) {
	incidents, err := s.incidents.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return incidents, nil
}

// ListForViewer scopes the filter to the viewer's own reports unless the
// role may see every incident.
func (s *IncidentService) ListForViewer(ctx context.Context, viewer domain.Identity, filter domain.IncidentFilter) ([]domain.Incident, error) {
	if !domain.CanSeeAllIncidents(viewer.Role) {
		filter.ReporterID = viewer.ID
	}
	return s.List(ctx, filter)
}

// Stats counts the whole collection on every call.
func (s *IncidentService) Stats(ctx context.Context) (domain.IncidentStats, error) {
	incidents, err := s.ListAll(ctx)
	if err != nil {
		return domain.IncidentStats{}, err
	}
	return domain.ComputeStats(incidents), nil
}

// Queue lists open incidents matching query, newest first, with their age
// measured against the current time.
func (s *IncidentService) Queue(ctx context.Context, query string, limit int) ([]QueueItem, error) {
	if limit <= 0 {
		limit = s.queueLimit
	}
	incidents, err := s.List(ctx, domain.IncidentFilter{Query: strings.TrimSpace(query), Scope: domain.SearchScopeQueue})
	if err != nil {
		return nil, err
	}
	domain.SortByRecency(incidents)

	now := s.now()
	items := make([]QueueItem, 0)
	for _, inc := range incidents {
		if !domain.IsOpen(inc) {
			continue
		}
		items = append(items, QueueItem{
			Incident:   inc,
			AgingHours: domain.AgingHours(inc.DateReported, now),
			Overdue:    domain.IsOverdue(inc, now),
		})
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

// History returns status changes of an incident, oldest first.
func (s *IncidentService) History(ctx context.Context, id string) ([]domain.IncidentHistory, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []domain.IncidentHistory{}, nil
	}
	entries, err := s.history.ListByIncident(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// Seed loads demo incidents into the store.
func (s *IncidentService) Seed(ctx context.Context, incidents []domain.Incident) error {
	return s.incidents.Seed(ctx, incidents)
}

func (s *IncidentService) recordStatusChange(ctx context.Context, actor domain.Role, incidentID string, oldStatus, newStatus domain.IncidentStatus, note string) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.IncidentHistory{
		IncidentID: incidentID,
		ChangedBy:  actor,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		Note:       note,
		CreatedAt:  s.now(),
	}
	return s.history.Create(ctx, entry)
}

func (s *IncidentService) mapRepoError(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("incident", map[string]any{"incident_id": id})
	}
	return apperrors.MapError(err)
}

func (s *IncidentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

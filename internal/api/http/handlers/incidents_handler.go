package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-safety/incident-service/internal/api/dto"
	"github.com/campus-safety/incident-service/internal/auth"
	"github.com/campus-safety/incident-service/internal/domain"
	"github.com/campus-safety/incident-service/internal/service"
	apperrors "github.com/campus-safety/incident-service/pkg/util"
)

const maxQueueLimit = 100

// IncidentsHandler manages incident endpoints.
type IncidentsHandler struct {
	service *service.IncidentService
}

// NewIncidentsHandler constructs handler.
func NewIncidentsHandler(incidentService *service.IncidentService) *IncidentsHandler {
	return &IncidentsHandler{service: incidentService}
}

// Create POST /incidents.
func (h *IncidentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.CreateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	occurred, err := req.ParseDateOccurred()
	if err != nil {
		return apperrors.NewValidationError("invalid incident", map[string]any{"date_occurred": "format"})
	}
	reporterName := strings.TrimSpace(req.ReporterName)
	if reporterName == "" {
		reporterName = principal.Name
	}

	incident, err := h.service.Create(c.UserContext(), service.IncidentCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		DateOccurred: occurred,
		IsAnonymous:  req.IsAnonymous,
		ReporterID:   principal.ID,
		ReporterName: reporterName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CreateIncidentResponse{
		ID:          incident.ID,
		ReferenceID: incident.ReferenceID,
	}})
}

// List GET /incidents.
func (h *IncidentsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	filter := domain.IncidentFilter{
		ReporterID: strings.TrimSpace(c.Query("reporter_id")),
		Status:     strings.TrimSpace(c.Query("status")),
		Category:   strings.TrimSpace(c.Query("category")),
		Query:      strings.TrimSpace(c.Query("q")),
		Scope:      domain.SearchScopeDetail,
	}
	incidents, err := h.service.ListForViewer(c.UserContext(), *principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": incidentResponses(incidents)})
}

// Mine GET /incidents/mine.
func (h *IncidentsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	incidents, err := h.service.ListByReporter(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": incidentResponses(incidents)})
}

// Get GET /incidents/:id.
func (h *IncidentsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	incident, err := h.service.GetForViewer(c.UserContext(), *principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": incidentResponse(incident)})
}

// GetByReference GET /incidents/ref/:reference.
func (h *IncidentsHandler) GetByReference(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	incident, err := h.service.GetByReference(c.UserContext(), *principal, c.Params("reference"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": incidentResponse(incident)})
}

// History GET /incidents/:id/history.
func (h *IncidentsHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.HistoryResponse{
			ID:        entry.ID,
			ChangedBy: entry.ChangedBy,
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Stats GET /incidents/stats.
func (h *IncidentsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Total:          stats.Total,
		Pending:        stats.Pending,
		InReview:       stats.InReview,
		Resolved:       stats.Resolved,
		Dismissed:      stats.Dismissed,
		ResolutionRate: stats.ResolutionRatePercent(),
	}})
}

// Queue GET /incidents/queue.
func (h *IncidentsHandler) Queue(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 0)
	if limit > maxQueueLimit {
		limit = maxQueueLimit
	}
	items, err := h.service.Queue(c.UserContext(), c.Query("q"), limit)
	if err != nil {
		return err
	}
	resp := make([]dto.QueueItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.QueueItemResponse{
			IncidentResponse: incidentResponse(&items[i].Incident),
			AgingHours:       items[i].AgingHours,
			Overdue:          items[i].Overdue,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// UpdateStatus PATCH /incidents/:id/status.
func (h *IncidentsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	incident, err := h.service.UpdateStatus(c.UserContext(), *principal, c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": incidentResponse(incident)})
}

// Assign PATCH /incidents/:id/assignee.
func (h *IncidentsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	incident, err := h.service.Assign(c.UserContext(), *principal, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": incidentResponse(incident)})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func incidentResponses(incidents []domain.Incident) []dto.IncidentResponse {
	items := make([]dto.IncidentResponse, 0, len(incidents))
	for i := range incidents {
		items = append(items, incidentResponse(&incidents[i]))
	}
	return items
}

func incidentResponse(incident *domain.Incident) dto.IncidentResponse {
	return dto.IncidentResponse{
		ID:           incident.ID,
		ReferenceID:  incident.ReferenceID,
		Title:        incident.Title,
		Description:  incident.Description,
		Category:     incident.Category,
		Status:       incident.Status,
		Location:     incident.Location,
		DateOccurred: incident.DateOccurred,
		DateReported: incident.DateReported,
		IsAnonymous:  incident.IsAnonymous,
		ReporterID:   incident.ReporterID,
		ReporterName: incident.ReporterName,
		AdminNotes:   incident.AdminNotes,
		AssignedTo:   incident.AssignedTo,
	}
}

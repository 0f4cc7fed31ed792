package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-safety/incident-service/internal/api/http/handlers"
	"github.com/campus-safety/incident-service/internal/auth"
	"github.com/campus-safety/incident-service/internal/config"
	"github.com/campus-safety/incident-service/internal/observability"
	"github.com/campus-safety/incident-service/internal/repository"
	"github.com/campus-safety/incident-service/internal/service"
)

type testServer struct {
	app      *fiber.App
	sessions *service.SessionService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	sessions := service.NewSessionService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5}, logger)
	incidents := service.NewIncidentService(service.IncidentDependencies{
		IncidentRepo: repository.NewIncidentRepository(),
		HistoryRepo:  repository.NewIncidentHistoryRepository(),
		Metrics:      metrics,
		Clock:        func() time.Time { return now },
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("campus-incident-service", "test", nil),
		Session:        handlers.NewSessionHandler(sessions),
		Incidents:      handlers.NewIncidentsHandler(incidents),
		AuthMiddleware: auth.NewAuthMiddleware(sessions.TokenManager(), sessions),
		Metrics:        metrics,
	})
	return &testServer{app: app, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, role string) string {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/session/login", "", `{"email":"x@uni.edu","password":"pw","role":"`+role+`"}`)
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["expires_at"])
	assert.Equal(t, role, data["identity"].(map[string]any)["role"])
	return data["token"].(string)
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

const createBody = `{"title":"Broken Light","description":"Hallway light is out","category":"facilities","location":"Building C","date_occurred":"2026-10-15"}`

func TestSubmitAndTriageFlow(t *testing.T) {
	s := newTestServer(t)

	studentToken := s.login(t, "student")
	status, body := s.do(t, fiber.MethodPost, "/incidents", studentToken, createBody)
	require.Equal(t, fiber.StatusCreated, status)
	created := body["data"].(map[string]any)
	assert.Equal(t, "INC-2026-001", created["reference_id"])
	id := created["id"].(string)

	status, body = s.do(t, fiber.MethodGet, "/incidents/mine", studentToken, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = s.do(t, fiber.MethodPatch, "/incidents/"+id+"/status", studentToken, `{"status":"resolved"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, _ = s.do(t, fiber.MethodGet, "/incidents/stats", studentToken, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	// a new login replaces the student session
	adminToken := s.login(t, "admin")
	status, body = s.do(t, fiber.MethodGet, "/incidents/mine", studentToken, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = s.do(t, fiber.MethodPatch, "/incidents/"+id+"/status", adminToken, `{"status":"in_review","note":"a"}`)
	require.Equal(t, fiber.StatusOK, status)
	status, body = s.do(t, fiber.MethodPatch, "/incidents/"+id+"/status", adminToken, `{"status":"resolved","note":"b"}`)
	require.Equal(t, fiber.StatusOK, status)
	incident := body["data"].(map[string]any)
	assert.Equal(t, "resolved", incident["status"])
	assert.Equal(t, "a\nb", incident["admin_notes"])

	status, body = s.do(t, fiber.MethodPatch, "/incidents/"+id+"/assignee", adminToken, `{"assigned_to":"Security Team"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Security Team", body["data"].(map[string]any)["assigned_to"])

	status, body = s.do(t, fiber.MethodGet, "/incidents/"+id+"/history", adminToken, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)

	status, body = s.do(t, fiber.MethodGet, "/incidents/stats", adminToken, "")
	require.Equal(t, fiber.StatusOK, status)
	stats := body["data"].(map[string]any)
	assert.EqualValues(t, 1, stats["total"])
	assert.EqualValues(t, 1, stats["resolved"])
	assert.EqualValues(t, 100, stats["resolution_rate"])

	status, body = s.do(t, fiber.MethodGet, "/incidents/queue", adminToken, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"])
}

func TestIncidentErrors(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login(t, "admin")

	status, body := s.do(t, fiber.MethodGet, "/incidents/inc_missing", adminToken, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = s.do(t, fiber.MethodPatch, "/incidents/inc_missing/status", adminToken, `{"status":"resolved"}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(t, fiber.MethodPost, "/incidents", adminToken, `{"title":"","category":"facilities"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, _ = s.do(t, fiber.MethodGet, "/incidents", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = s.do(t, fiber.MethodPost, "/session/login", "", `{"email":"x@uni.edu","role":"janitor"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestAnonymousReportHidesReporter(t *testing.T) {
	s := newTestServer(t)
	studentToken := s.login(t, "student")

	body := strings.Replace(createBody, `"title"`, `"is_anonymous":true,"reporter_name":"X","title"`, 1)
	status, _ := s.do(t, fiber.MethodPost, "/incidents", studentToken, body)
	require.Equal(t, fiber.StatusCreated, status)

	staffToken := s.login(t, "staff")
	status, resp := s.do(t, fiber.MethodGet, "/incidents?category=facilities", staffToken, "")
	require.Equal(t, fiber.StatusOK, status)
	items := resp["data"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "anonymous", item["reporter_id"])
	_, hasName := item["reporter_name"]
	assert.False(t, hasName)
}

func TestSessionEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "staff")

	status, body := s.do(t, fiber.MethodGet, "/session", token, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Staff Member", body["data"].(map[string]any)["name"])

	status, _ = s.do(t, fiber.MethodPost, "/session/logout", "", "")
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = s.do(t, fiber.MethodPost, "/session/logout", "", "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = s.do(t, fiber.MethodGet, "/session", token, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestOpsEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/health/ready", "", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "http_requests_total")

	status, body = s.do(t, fiber.MethodGet, "/nowhere", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func (s *testServer) listIDs(t *testing.T, token, query string) []string {
	t.Helper()
	status, body := s.do(t, fiber.MethodGet, "/incidents"+query, token, "")
	require.Equal(t, fiber.StatusOK, status, query)
	ids := []string{}
	for _, item := range body["data"].([]any) {
		ids = append(ids, item.(map[string]any)["id"].(string))
	}
	return ids
}

func TestListFiltersComposeOverHTTP(t *testing.T) {
	s := newTestServer(t)
	studentToken := s.login(t, "student")

	create := func(title, category string) (string, string) {
		body := `{"title":"` + title + `","description":"reported from the quad","category":"` + category + `","location":"Main Campus","date_occurred":"2026-10-15"}`
		status, resp := s.do(t, fiber.MethodPost, "/incidents", studentToken, body)
		require.Equal(t, fiber.StatusCreated, status)
		data := resp["data"].(map[string]any)
		return data["id"].(string), data["reference_id"].(string)
	}
	brokenLight, lightRef := create("Broken Light", "facilities")
	brokenDoor, _ := create("Broken door", "facilities")
	brokenLock, _ := create("Broken bike lock", "theft")
	flooded, _ := create("Flooded stairwell", "facilities")

	status, body := s.do(t, fiber.MethodGet, "/incidents/ref/"+strings.ToLower(lightRef), studentToken, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, brokenLight, body["data"].(map[string]any)["id"])

	adminToken := s.login(t, "admin")
	status, _ = s.do(t, fiber.MethodPatch, "/incidents/"+brokenDoor+"/status", adminToken, `{"status":"in_review"}`)
	require.Equal(t, fiber.StatusOK, status)

	byStatus := s.listIDs(t, adminToken, "?status=pending")
	assert.ElementsMatch(t, []string{brokenLight, brokenLock, flooded}, byStatus)
	byCategory := s.listIDs(t, adminToken, "?category=facilities")
	assert.ElementsMatch(t, []string{brokenLight, brokenDoor, flooded}, byCategory)
	byQuery := s.listIDs(t, adminToken, "?q=BROKEN")
	assert.ElementsMatch(t, []string{brokenLight, brokenDoor, brokenLock}, byQuery)

	combined := s.listIDs(t, adminToken, "?status=pending&category=facilities&q=broken")
	assert.Equal(t, []string{brokenLight}, combined)
	for _, id := range combined {
		assert.Contains(t, byStatus, id)
		assert.Contains(t, byCategory, id)
		assert.Contains(t, byQuery, id)
	}

	assert.Len(t, s.listIDs(t, adminToken, "?status=all"), 4)
	assert.Len(t, s.listIDs(t, adminToken, "?status=all&category=all&q="), 4)
	assert.Equal(t, []string{brokenLock}, s.listIDs(t, adminToken, "?status=pending&category=theft"))
	assert.Empty(t, s.listIDs(t, adminToken, "?status=resolved&category=facilities"))
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/alumni-service/internal/config"
	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/services"
	"github.com/SAP-F-2025/alumni-service/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAlumniService returns canned results and records what it was asked
type stubAlumniService struct {
	listResult *services.AlumniListResult
	err        error

	gotQuery directory.Query
	gotPage  string
	gotID    uint
	patched  bool
}

func (s *stubAlumniService) List(ctx context.Context, query directory.Query, page string) (*services.AlumniListResult, error) {
	s.gotQuery, s.gotPage = query, page
	return s.listResult, s.err
}

func (s *stubAlumniService) Aggregates(ctx context.Context) (*directory.Aggregates, error) {
	return s.listResult.Aggregates, s.err
}

func (s *stubAlumniService) PageSize() int { return 2 }

func (s *stubAlumniService) Create(ctx context.Context, req *services.CreateAlumniRequest) (*services.AlumniResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.AlumniResponse{ID: 10, Name: req.Name, Skills: req.Skills}, nil
}

func (s *stubAlumniService) GetByID(ctx context.Context, id uint) (*services.AlumniResponse, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return &services.AlumniResponse{ID: id, Name: "Ankit Verma", Skills: []string{}}, nil
}

func (s *stubAlumniService) Update(ctx context.Context, id uint, req *services.UpdateAlumniRequest) (*services.AlumniResponse, error) {
	s.gotID, s.patched = id, false
	if s.err != nil {
		return nil, s.err
	}
	return &services.AlumniResponse{ID: id, Skills: []string{}}, nil
}

func (s *stubAlumniService) Patch(ctx context.Context, id uint, req *services.UpdateAlumniRequest) (*services.AlumniResponse, error) {
	s.gotID, s.patched = id, true
	if s.err != nil {
		return nil, s.err
	}
	return &services.AlumniResponse{ID: id, Skills: []string{}}, nil
}

func (s *stubAlumniService) Delete(ctx context.Context, id uint) error {
	s.gotID = id
	return s.err
}

type stubExportService struct {
	err error
}

func (s *stubExportService) ExportXLSX(ctx context.Context, query directory.Query, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := w.Write([]byte("PK"))
	return err
}

type stubServiceManager struct {
	alumni *stubAlumniService
	export *stubExportService
	health *services.HealthReport
}

func (m *stubServiceManager) Alumni() services.AlumniService { return m.alumni }
func (m *stubServiceManager) Seed() services.SeedService     { return nil }
func (m *stubServiceManager) Export() services.ExportService { return m.export }

func (m *stubServiceManager) Initialize(ctx context.Context) error { return nil }
func (m *stubServiceManager) Shutdown(ctx context.Context) error   { return nil }

func (m *stubServiceManager) HealthCheck(ctx context.Context) *services.HealthReport {
	return m.health
}

func sampleAggregates() *directory.Aggregates {
	return directory.NewAggregates(directory.FilterOptions{
		Batches:     []string{"2020", "2019"},
		Departments: []string{"CS"},
		Companies:   []string{"Google", "Microsoft"},
		Industries:  []string{"Technology"},
	}, 2, 2)
}

func newTestRouter(sm *stubServiceManager, auth *CasdoorAuthMiddleware) *gin.Engine {
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hm := NewHandlerManager(sm, logger, false, config.CasdoorConfig{})
	if auth != nil {
		hm.authMiddleware = auth
	}

	router := gin.New()
	SetupMiddleware(router, logger)
	hm.SetupRoutes(router)
	return router
}

func newStubs() *stubServiceManager {
	return &stubServiceManager{
		alumni: &stubAlumniService{listResult: &services.AlumniListResult{
			Results:    []models.AlumniListItem{{ID: 1, Name: "Ankit Verma", Skills: []string{"Go"}}},
			Aggregates: sampleAggregates(),
		}},
		export: &stubExportService{},
		health: &services.HealthReport{Status: "healthy", Components: map[string]string{"database": "up"}},
	}
}

func serve(router *gin.Engine, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAlumniHandler_ListEnvelope(t *testing.T) {
	sm := newStubs()
	sm.alumni.listResult.Page = &directory.Page{Number: 2, Size: 2, TotalItems: 5}
	router := newTestRouter(sm, nil)

	w := serve(router, http.MethodGet, "/api/v1/alumni/?page=2&department=CS&available=yes", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "CS", sm.alumni.gotQuery.Department)
	require.NotNil(t, sm.alumni.gotQuery.Available)
	assert.True(t, *sm.alumni.gotQuery.Available)
	assert.Equal(t, "2", sm.alumni.gotPage)

	body := decode(t, w)
	assert.Equal(t, float64(5), body["count"])
	assert.Equal(t, "http://example.com/api/v1/alumni/?available=yes&department=CS&page=3", body["next"])
	assert.Equal(t, "http://example.com/api/v1/alumni/?available=yes&department=CS", body["previous"])
	assert.Len(t, body["results"], 1)

	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["companies_count"])
	options := body["filter_options"].(map[string]interface{})
	assert.Equal(t, []interface{}{"2019", "2020"}, options["batches"])
}

func TestAlumniHandler_ListFirstPage(t *testing.T) {
	sm := newStubs()
	sm.alumni.listResult.Page = &directory.Page{Number: 1, Size: 2, TotalItems: 1}
	router := newTestRouter(sm, nil)

	for _, target := range []string{"/api/v1/alumni", "/api/v1/alumni/"} {
		w := serve(router, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, w.Code, target)

		body := decode(t, w)
		assert.Nil(t, body["next"])
		assert.Nil(t, body["previous"])
	}
}

func TestAlumniHandler_ListUnpaginated(t *testing.T) {
	router := newTestRouter(newStubs(), nil)

	w := serve(router, http.MethodGet, "/api/v1/alumni/", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.NotContains(t, body, "count")
	assert.Contains(t, body, "results")
	assert.Contains(t, body, "filter_options")
	assert.Contains(t, body, "stats")
}

func TestAlumniHandler_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{"invalid page", services.ErrInvalidPage, http.MethodGet, "/api/v1/alumni/?page=9", "", http.StatusNotFound, "Invalid page."},
		{"not found", services.ErrAlumniNotFound, http.MethodGet, "/api/v1/alumni/42/", "", http.StatusNotFound, "Not found."},
		{"bad id", nil, http.MethodGet, "/api/v1/alumni/abc/", "", http.StatusBadRequest, "Invalid id"},
		{"malformed json", nil, http.MethodPost, "/api/v1/alumni/", "{", http.StatusBadRequest, "Invalid request payload"},
		{"validation", services.NewFieldError("name", "This field is required.", "required"), http.MethodPost, "/api/v1/alumni/", "{}", http.StatusBadRequest, "Validation failed"},
		{"internal", errors.New("db down"), http.MethodDelete, "/api/v1/alumni/1", "", http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := newStubs()
			sm.alumni.err = tt.err
			router := newTestRouter(sm, nil)

			w := serve(router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["message"])
		})
	}
}

func TestAlumniHandler_ValidationDetails(t *testing.T) {
	sm := newStubs()
	sm.alumni.err = services.NewFieldError("email", "alumni with this email already exists.", "unique")
	router := newTestRouter(sm, nil)

	w := serve(router, http.MethodPatch, "/api/v1/alumni/3/", `{"email":"a@b.c"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	details := decode(t, w)["details"].(map[string]interface{})
	assert.Equal(t, []interface{}{"alumni with this email already exists."}, details["email"])
}

func TestAlumniHandler_Writes(t *testing.T) {
	sm := newStubs()
	router := newTestRouter(sm, nil)

	w := serve(router, http.MethodPost, "/api/v1/alumni/", `{"name":"New","skills":["Go"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "New", decode(t, w)["name"])

	w = serve(router, http.MethodPut, "/api/v1/alumni/7/", `{"name":"X"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), sm.alumni.gotID)
	assert.False(t, sm.alumni.patched)

	w = serve(router, http.MethodPatch, "/api/v1/alumni/8", `{"available":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(8), sm.alumni.gotID)
	assert.True(t, sm.alumni.patched)

	w = serve(router, http.MethodDelete, "/api/v1/alumni/9/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, uint(9), sm.alumni.gotID)
}

func TestAlumniHandler_Export(t *testing.T) {
	router := newTestRouter(newStubs(), nil)

	w := serve(router, http.MethodGet, "/api/v1/alumni/export?department=CS", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="alumni.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestHealthHandler(t *testing.T) {
	sm := newStubs()
	router := newTestRouter(sm, nil)

	w := serve(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "alumni-service", body["service"])

	sm.health = &services.HealthReport{Status: "unhealthy", Components: map[string]string{"database": "connection refused"}}
	w = serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMiddleware(t *testing.T) {
	router := newTestRouter(newStubs(), nil)

	w := serve(router, http.MethodGet, "/health", "", "X-Request-ID", "req-123")
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = serve(router, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(router, http.MethodOptions, "/api/v1/alumni/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

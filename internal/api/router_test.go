package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/dbx"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/logging"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/auth"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/drafts"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/repomanager"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/resources"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/surveys"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/services"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/testutil"
)

const testSecret = "api-test-secret"

// stubManager vends the injected repositories regardless of the DBTX.
type stubManager struct {
	resources resources.Repository
	surveys   surveys.Repository
	drafts    drafts.Repository
}

func (m *stubManager) Resources(db dbx.DBTX) resources.Repository { return m.resources }
func (m *stubManager) Surveys(db dbx.DBTX) surveys.Repository     { return m.surveys }
func (m *stubManager) Drafts(db dbx.DBTX) drafts.Repository       { return m.drafts }
func (m *stubManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

var _ repomanager.RepositoryManager = (*stubManager)(nil)

// nullObjectStore accepts every put and delete.
type nullObjectStore struct{}

func (nullObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "https://files.test.local/" + key, nil
}

func (nullObjectStore) Delete(ctx context.Context, key string) error { return nil }

type testEnv struct {
	server *httptest.Server
	mock   sqlmock.Sqlmock

	resources *resources.InMemoryRepository
	drafts    *drafts.InMemoryRepository
	surveys   *surveys.InMemoryRepository
}

func newTestEnv(t *testing.T, seed []models.Resource) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rr := resources.NewInMemoryRepository(seed)
	sr := surveys.NewInMemoryRepository(nil)
	dr := drafts.NewInMemoryRepository(nil)
	manager := &stubManager{resources: rr, surveys: sr, drafts: dr}

	cfg := &config.Config{StoreTimeout: time.Second, SecretKey: testSecret}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	resourceSvc := services.NewResourceService(db, manager, resources.NewInMemoryRepository(nil), nullObjectStore{}, logger, cfg)
	surveySvc := services.NewSurveyService(db, manager, logger, cfg)
	analyticsSvc := services.NewAnalyticsService(db, manager,
		surveys.NewInMemoryRepository(nil), drafts.NewInMemoryRepository(nil), logger, cfg, 1)

	rt := NewRouter(resourceSvc, surveySvc, analyticsSvc, logger, cfg)
	srv := httptest.NewServer(rt.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, mock: mock, resources: rr, drafts: dr, surveys: sr}
}

func token(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Principal{ID: "u1", Email: "u1@example.org", Name: "User One"},
		[]byte(testSecret), time.Hour)
	require.NoError(t, err)
	return tok
}

// do sends the request and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) (int, envelope, json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var full struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&full))
	return resp.StatusCode, envelope{Success: full.Success, Message: full.Message}, full.Data
}

func TestAPI_QueryResources(t *testing.T) {
	env := newTestEnv(t, []models.Resource{
		testutil.NewResource("a").Type(models.TypeReports).Size(100).Build(),
		testutil.NewResource("b").Type(models.TypeVideos).Size(900).Build(),
		testutil.NewResource("c").Type(models.TypeReports).Size(500).Build(),
	})

	status, env2, data := env.do(t, http.MethodGet, "/api/resources?types=reports&sortBy=size&sortOrder=desc", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env2.Success)

	var page models.ResourcePage
	require.NoError(t, json.Unmarshal(data, &page))
	require.Len(t, page.Resources, 2)
	assert.Equal(t, "c", page.Resources[0].ID)
	assert.Equal(t, "a", page.Resources[1].ID)
	assert.Equal(t, 2, page.Pagination.TotalItems)
}

func TestAPI_GetResourceNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	status, e, _ := env.do(t, http.MethodGet, "/api/resources/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, e.Success)
	assert.Equal(t, "not found", e.Message)
}

func TestAPI_CreateResourceRequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	status, e, _ := env.do(t, http.MethodPost, "/api/resources", "", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, e.Success)
}

func TestAPI_CreateResource(t *testing.T) {
	env := newTestEnv(t, nil)

	status, e, data := env.do(t, http.MethodPost, "/api/resources", token(t), map[string]any{
		"title":       "Malaria Brief",
		"type":        "program-briefs",
		"partnerId":   "p1",
		"partnerName": "Ghana Health Service",
		"fileName":    "brief.pdf",
		"fileData":    []byte("content"),
		"contentType": "application/pdf",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, e.Success)

	var created models.Resource
	require.NoError(t, json.Unmarshal(data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "pdf", created.FileFormat)

	stored, err := env.resources.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Malaria Brief", stored.Title)
}

func TestAPI_CreateResourceValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	status, e, _ := env.do(t, http.MethodPost, "/api/resources", token(t), map[string]any{
		"type":      "reports",
		"partnerId": "p1",
		"fileName":  "x.pdf",
		"fileData":  []byte("z"),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, e.Message, "title")
}

func TestAPI_MalformedBody(t *testing.T) {
	env := newTestEnv(t, nil)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/resources", bytes.NewReader([]byte("{broken")))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token(t))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_InvalidTokenRejected(t *testing.T) {
	env := newTestEnv(t, nil)

	status, e, _ := env.do(t, http.MethodGet, "/api/resources", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid token", e.Message)
}

func TestAPI_Suggestions(t *testing.T) {
	env := newTestEnv(t, []models.Resource{
		testutil.NewResource("a").Title("Hypertension Study").Build(),
	})

	status, _, data := env.do(t, http.MethodGet, "/api/resources/suggestions?q=hyper", "", nil)
	require.Equal(t, http.StatusOK, status)

	var got []models.Suggestion
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, models.SuggestionTitle, got[0].Category)
}

func TestAPI_CountersAndRating(t *testing.T) {
	env := newTestEnv(t, []models.Resource{testutil.NewResource("a").Build()})

	status, _, _ := env.do(t, http.MethodPost, "/api/resources/a/view", "", nil)
	require.Equal(t, http.StatusOK, status)
	status, _, _ = env.do(t, http.MethodPost, "/api/resources/a/download", "", nil)
	require.Equal(t, http.StatusOK, status)

	status, e, _ := env.do(t, http.MethodPost, "/api/resources/a/rating", token(t), map[string]int{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, e.Message, "rating")

	status, _, _ = env.do(t, http.MethodPost, "/api/resources/a/rating", token(t), map[string]int{"rating": 5})
	require.Equal(t, http.StatusOK, status)

	r, err := env.resources.GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, r.ViewCount)
	assert.Equal(t, 1, r.DownloadCount)
	assert.Equal(t, 5, r.Rating)
}

func TestAPI_ResourceStats(t *testing.T) {
	env := newTestEnv(t, []models.Resource{
		testutil.NewResource("a").Downloads(3).Build(),
		testutil.NewResource("b").Downloads(7).Build(),
	})

	status, _, data := env.do(t, http.MethodGet, "/api/resources/stats", "", nil)
	require.Equal(t, http.StatusOK, status)

	var stats models.ResourceStats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 2, stats.TotalResources)
	assert.Equal(t, 10, stats.TotalDownloads)
}

func TestAPI_SurveyLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mock.ExpectBegin()
	env.mock.ExpectCommit()

	content := map[string]any{
		"organisationInfo": map[string]any{
			"organisationName": "RHD",
			"region":           "Ashanti",
			"email":            "rhd@example.org",
		},
		"projectInfo": map[string]any{
			"projectName": "Screening",
			"startDate":   "2025-02-01",
			"projectGoal": "Screen adults",
		},
	}

	// Draft first.
	status, _, data := env.do(t, http.MethodPost, "/api/drafts", token(t), map[string]any{
		"content":     content,
		"currentStep": "projectInfo",
	})
	require.Equal(t, http.StatusOK, status)

	var draft models.Draft
	require.NoError(t, json.Unmarshal(data, &draft))
	assert.Equal(t, 67, draft.Progress)

	status, _, _ = env.do(t, http.MethodGet, "/api/drafts", token(t), nil)
	require.Equal(t, http.StatusOK, status)

	// Submit clears the draft.
	status, _, data = env.do(t, http.MethodPost, "/api/surveys", token(t), content)
	require.Equal(t, http.StatusCreated, status)

	var survey models.Survey
	require.NoError(t, json.Unmarshal(data, &survey))
	assert.Equal(t, "submitted", survey.Status)

	status, e, _ := env.do(t, http.MethodGet, "/api/drafts", token(t), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, e.Success)

	status, _, data = env.do(t, http.MethodGet, "/api/surveys", token(t), nil)
	require.Equal(t, http.StatusOK, status)
	var list []models.Survey
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, survey.ID, list[0].ID)

	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestAPI_DraftRequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	status, _, _ := env.do(t, http.MethodGet, "/api/drafts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_AnalyticsEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.surveys.Insert(context.Background(),
		&models.Survey{ID: "s1", Status: "submitted", SubmissionDate: time.Now(),
			Content: models.SurveyContent{OrganisationInfo: &models.OrganisationInfo{
				OrganisationName: "RHD", Region: "Ashanti", Email: "x@example.org",
			}}}))

	status, _, data := env.do(t, http.MethodGet, "/api/surveys/analytics", "", nil)
	require.Equal(t, http.StatusOK, status)

	var report models.SurveyAnalytics
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 1, report.TotalSurveys)
	assert.Len(t, report.Monthly, 6)

	status, _, data = env.do(t, http.MethodGet, "/api/surveys/predictions", "", nil)
	require.Equal(t, http.StatusOK, status)

	var pred models.PredictiveAnalytics
	require.NoError(t, json.Unmarshal(data, &pred))
	assert.Len(t, pred.Timeline, 60)
	assert.NotEmpty(t, pred.Milestones)
}

func TestAPI_AnalyticsScopedByPrincipalParam(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, s := range []models.Survey{
		testutil.NewSurvey("s1", "u1", "Ashanti", time.Now()),
		testutil.NewSurvey("s2", "u2", "Volta", time.Now()),
	} {
		require.NoError(t, env.surveys.Insert(context.Background(), &s))
	}

	status, _, data := env.do(t, http.MethodGet, "/api/surveys/analytics?principalId=u1", "", nil)
	require.Equal(t, http.StatusOK, status)

	var report models.SurveyAnalytics
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 1, report.TotalSurveys)
	require.Len(t, report.RegionalInsights, 1)
	assert.Equal(t, "Ashanti", report.RegionalInsights[0].Region)

	status, _, _ = env.do(t, http.MethodGet, "/api/surveys/predictions?principalId=u1", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_UpdateAndDeleteResource(t *testing.T) {
	env := newTestEnv(t, []models.Resource{testutil.NewResource("a").Title("Old").Build()})

	status, _, data := env.do(t, http.MethodPut, "/api/resources/a", token(t), map[string]any{"title": "New"})
	require.Equal(t, http.StatusOK, status)

	var updated models.Resource
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, "New", updated.Title)

	status, _, _ = env.do(t, http.MethodDelete, "/api/resources/a", token(t), nil)
	require.Equal(t, http.StatusOK, status)

	status, _, _ = env.do(t, http.MethodGet, "/api/resources/a", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopvine/shopvine/internal/config"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/shopvine/shopvine/internal/logger"
	"github.com/shopvine/shopvine/internal/repository"
	"github.com/shopvine/shopvine/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testOwnerKey  = "sk-test-owner"
	testViewerKey = "sk-test-viewer"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	logger.SetDefaultLogger(logger.New(&logger.Config{Level: "error", Output: io.Discard}))

	workspaces := repository.NewWorkspaceRepository(db)
	posts := repository.NewPostRepository(db)
	rights := repository.NewRightsRequestRepository(db)
	logs := repository.NewImportLogRepository(db)

	ws, err := workspaces.EnsureBootstrap(t.Context(), "Test", "test", testOwnerKey)
	require.NoError(t, err)
	require.NoError(t, workspaces.CreateKey(t.Context(), &domain.APIKey{
		ID:          uuid.New().String(),
		WorkspaceID: ws.ID,
		Key:         testViewerKey,
		Role:        domain.RoleViewer,
	}))

	imports := service.NewImportService(posts, rights, logs, nil,
		logger.New(&logger.Config{Level: "error", Output: io.Discard}), nil)

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Server.CORS.AllowAllOrigins = true
	cfg.Import.MaxBatchRows = 100

	return NewRouter(RouterDeps{
		Config:     cfg,
		Workspaces: workspaces,
		Posts:      posts,
		Rights:     rights,
		Logs:       logs,
		Imports:    imports,
	})
}

func doJSON(router *gin.Engine, method, path, apiKey string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/posts", "sk-bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestViewerCannotImport(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/imports", testViewerKey, map[string]string{
		"post_url":       "https://www.tiktok.com/@jane/video/1",
		"platform":       "tiktok",
		"creator_handle": "@jane",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSingleImportFlow(t *testing.T) {
	router := newTestRouter(t)
	payload := map[string]string{
		"post_url":       "https://www.tiktok.com/@jane/video/1",
		"platform":       "tiktok",
		"creator_handle": "@jane",
		"caption":        "spring haul #ootd",
	}

	w := doJSON(router, http.MethodPost, "/api/v1/imports", testOwnerKey, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["run_id"])
	post := body["post"].(map[string]interface{})
	assert.Equal(t, "jane", post["creator_handle"])

	// resubmitting the same post is acknowledged, not an error
	w = doJSON(router, http.MethodPost, "/api/v1/imports", testOwnerKey, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decodeBody(t, w)
	assert.Equal(t, true, body["duplicate"])
	assert.Equal(t, post["id"], body["existing_post_id"])
}

func TestSingleImportValidationFailure(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/imports", testOwnerKey, map[string]string{
		"post_url":       "not-a-url",
		"platform":       "tiktok",
		"creator_handle": "@jane",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	body := decodeBody(t, w)
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "post_url")
}

func TestBatchImportAndRunInspection(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/imports/batch", testOwnerKey, map[string]interface{}{
		"rows": []map[string]string{
			{"post_url": "https://tiktok.com/v/1", "platform": "tiktok", "creator_handle": "@a"},
			{"post_url": "bad", "platform": "tiktok", "creator_handle": "@b"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "partial", body["status"])
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 1, body["imported"])
	assert.EqualValues(t, 1, body["failed"])

	runID := body["run_id"].(string)

	// the run and its ordered trail are readable afterwards
	w = doJSON(router, http.MethodGet, "/api/v1/imports/"+runID, testOwnerKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	entries := body["entries"].([]interface{})
	assert.NotEmpty(t, entries)

	w = doJSON(router, http.MethodGet, "/api/v1/imports", testOwnerKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.EqualValues(t, 1, body["count"])
}

func TestGetRunNotFound(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(router, http.MethodGet, "/api/v1/imports/"+uuid.New().String(), testOwnerKey, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCSVImportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "posts.csv")
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(
		"post_url,platform,creator_handle\nhttps://tiktok.com/v/1,tiktok,@a\nhttps://tiktok.com/v/2,tiktok,@b\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", testOwnerKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "completed", body["status"])
	assert.EqualValues(t, 2, body["imported"])
}

func TestRightsRequestLifecycleOverAPI(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/imports", testOwnerKey, map[string]string{
		"post_url":       "https://tiktok.com/v/1",
		"platform":       "tiktok",
		"creator_handle": "@a",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/rights-requests?status=pending", testOwnerKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	reqs := body["rights_requests"].([]interface{})
	require.Len(t, reqs, 1)
	id := reqs[0].(map[string]interface{})["id"].(string)

	w = doJSON(router, http.MethodPatch, "/api/v1/rights-requests/"+id, testOwnerKey,
		map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decodeBody(t, w)
	updated := body["rights_request"].(map[string]interface{})
	assert.Equal(t, "approved", updated["status"])
	assert.NotNil(t, updated["responded_at"])
}

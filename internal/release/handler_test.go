// AngelaMos | 2026
// handler_test.go

package release

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/releasetrack/internal/middleware"
)

// stubIdentity injects an authenticated caller the way the real verifier
// middleware would.
func stubIdentity(userID, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(
	t *testing.T,
	fake *fakeReleaseStore,
	userID, role string,
) http.Handler {
	t.Helper()

	handler := NewHandler(newTestService(t, fake))
	router := chi.NewRouter()
	handler.RegisterRoutes(router, stubIdentity(userID, role))
	return router
}

func TestHandlerListReturnsArray(t *testing.T) {
	fake := newFakeReleaseStore()
	fake.seed("u1", "api", "1.0.0", "Planned")
	router := newTestRouter(t, fake, "u1", "user")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/releases", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var releases []Release
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&releases))
	require.Len(t, releases, 1)
	assert.Equal(t, "api", releases[0].ProjectName)
}

func TestHandlerCreateRequiresAdmin(t *testing.T) {
	router := newTestRouter(t, newFakeReleaseStore(), "u1", "user")

	body := strings.NewReader(`{"project_name": "api", "version": "1.0.0"}`)
	req := httptest.NewRequest(http.MethodPost, "/releases", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "required_roles")
}

func TestHandlerCreateAsAdmin(t *testing.T) {
	router := newTestRouter(t, newFakeReleaseStore(), "admin-1", "admin")

	body := strings.NewReader(`{"project_name": "api", "version": "1.0.0"}`)
	req := httptest.NewRequest(http.MethodPost, "/releases", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Release
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "admin-1", created.UserID)
	assert.Equal(t, DefaultStatus, created.Status)
}

func TestHandlerCreateMissingFields(t *testing.T) {
	router := newTestRouter(t, newFakeReleaseStore(), "admin-1", "admin")

	req := httptest.NewRequest(
		http.MethodPost,
		"/releases",
		strings.NewReader(`{}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "project_name is required")
}

func TestHandlerUpdateInvalidID(t *testing.T) {
	router := newTestRouter(t, newFakeReleaseStore(), "u1", "user")

	req := httptest.NewRequest(
		http.MethodPatch,
		"/releases/abc",
		strings.NewReader(`{"status": "Shipped"}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid release id")
}

func TestHandlerUpdateNoMatchReportsSuccess(t *testing.T) {
	router := newTestRouter(t, newFakeReleaseStore(), "u1", "user")

	req := httptest.NewRequest(
		http.MethodPatch,
		"/releases/42",
		strings.NewReader(`{"status": "Shipped"}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
}

func TestHandlerUpdateReturnsRow(t *testing.T) {
	fake := newFakeReleaseStore()
	fake.seed("u1", "api", "1.0.0", "Planned")
	router := newTestRouter(t, fake, "u1", "user")

	req := httptest.NewRequest(
		http.MethodPatch,
		"/releases/1",
		strings.NewReader(`{"status": "Shipped"}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated Release
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "Shipped", updated.Status)
}

func TestHandlerUpdateBlankStatusRejected(t *testing.T) {
	fake := newFakeReleaseStore()
	fake.seed("u1", "api", "1.0.0", "Planned")
	router := newTestRouter(t, fake, "u1", "user")

	req := httptest.NewRequest(
		http.MethodPatch,
		"/releases/1",
		strings.NewReader(`{"status": "   "}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status is required")
	assert.Equal(t, "Planned", fake.rows[0]["status"])
}

func TestHandlerCreateBlankFieldsRejected(t *testing.T) {
	fake := newFakeReleaseStore()
	router := newTestRouter(t, fake, "admin-1", "admin")

	body := strings.NewReader(`{"project_name": "   ", "version": "\t"}`)
	req := httptest.NewRequest(http.MethodPost, "/releases", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "project_name is required")
	assert.Equal(t, 0, fake.count())
}

func TestHandlerDeleteNoContent(t *testing.T) {
	fake := newFakeReleaseStore()
	fake.seed("u1", "api", "1.0.0", "Planned")
	router := newTestRouter(t, fake, "u1", "user")

	req := httptest.NewRequest(http.MethodDelete, "/releases/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, fake.count())
}

func TestHandlerImportScanEmptyRows(t *testing.T) {
	router := newTestRouter(t, newFakeReleaseStore(), "u1", "user")

	req := httptest.NewRequest(
		http.MethodPost,
		"/releases/import-scan",
		strings.NewReader(`{"rows": []}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rows[] required")
}

func TestHandlerImportScanReturnsRows(t *testing.T) {
	router := newTestRouter(t, newFakeReleaseStore(), "u1", "user")

	req := httptest.NewRequest(
		http.MethodPost,
		"/releases/import-scan",
		strings.NewReader(`{"rows": [{"name": "chi", "latest_version": "5.2.3"}]}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var results []Release
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	require.Len(t, results, 1)
	assert.Equal(t, "chi", results[0].ProjectName)
}

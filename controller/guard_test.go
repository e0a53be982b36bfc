package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
	"github.com/Xushengqwer/fruitmaster_service/repo/kvstore"
	"github.com/Xushengqwer/fruitmaster_service/security"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	repo := collection.NewRepository(kvstore.NewAdapter(kvstore.NewMemoryStore(), logger), logger)
	store := service.NewStore(service.StoreDeps{Repo: repo, Hasher: security.DemoHasher{}, Logger: logger})
	require.True(t, store.InitStore(context.Background()).Success)

	guard := NewGuard(store, logger)
	engine := gin.New()
	v1 := engine.Group("/api/v1")
	NewAuthController(store, guard).RegisterRoutes(v1)
	NewPostController(store, guard).RegisterRoutes(v1)
	NewAdminController(store, guard).RegisterRoutes(v1)
	NewContentController(store, guard).RegisterRoutes(v1)
	return engine
}

func do(engine *gin.Engine, method, path, body string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestGuardRequiresAuth(t *testing.T) {
	engine := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(engine, http.MethodGet, "/api/v1/posts", ""))
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/auth/session", ""))

	require.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"user","password":"user123"}`))
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/posts", ""))
}

func TestGuardPublicOnly(t *testing.T) {
	engine := newTestRouter(t)

	require.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"user","password":"user123"}`))
	assert.Equal(t, http.StatusConflict, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"admin","password":"admin123"}`))

	require.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/api/v1/auth/logout", ""))
	assert.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"admin","password":"admin123"}`))
}

func TestGuardRoles(t *testing.T) {
	engine := newTestRouter(t)

	require.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"maintainer","password":"maintain123"}`))
	assert.Equal(t, http.StatusForbidden, do(engine, http.MethodGet, "/api/v1/admin/users", ""))
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/maintainer/history/u_user", ""))
	assert.Equal(t, http.StatusForbidden, do(engine, http.MethodPost, "/api/v1/nutrition", `{"title":"苹果"}`))

	require.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/api/v1/auth/logout", ""))
	require.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"admin","password":"admin123"}`))
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/admin/users", ""))
}

func TestErrorKindsMapToStatus(t *testing.T) {
	engine := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"user","password":"nope"}`))
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"ghost","password":"x"}`))

	require.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/api/v1/auth/login", `{"account":"user","password":"user123"}`))
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodPost, "/api/v1/posts/p_404/like", ""))
	assert.Equal(t, http.StatusBadRequest, do(engine, http.MethodPost, "/api/v1/posts", `{"title":"","content":""}`))
	assert.Equal(t, http.StatusForbidden, do(engine, http.MethodDelete, "/api/v1/posts/p_2", ""))
}

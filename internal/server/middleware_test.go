package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/auth"
	"github.com/Linn-Htet123/mini-gym-api/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware...)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func TestRequestLoggingMiddleware(t *testing.T) {
	router := newTestRouter(RequestLoggingMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping?verbose=1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	router := newTestRouter(MetricsMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	router := newTestRouter(RateLimitMiddleware(1, 2))

	allowed := 0
	limited := 0
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)

		switch w.Code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			limited++
		}
	}

	assert.Equal(t, 2, allowed)
	assert.Equal(t, 3, limited)
}

func TestIPLimiterPerClientBuckets(t *testing.T) {
	l := newIPLimiter(1, 1, 50*time.Millisecond)

	assert.True(t, l.allow("10.0.0.2"))
	assert.False(t, l.allow("10.0.0.2"))

	// A different IP gets its own bucket.
	assert.True(t, l.allow("10.0.0.3"))
}

func TestIPLimiterSweepsStaleClients(t *testing.T) {
	l := newIPLimiter(1, 1, 10*time.Millisecond)

	assert.True(t, l.allow("10.0.0.4"))
	time.Sleep(20 * time.Millisecond)

	// the stale bucket is dropped, so the client starts fresh
	assert.True(t, l.allow("10.0.0.5"))
	l.mu.Lock()
	_, kept := l.clients["10.0.0.4"]
	l.mu.Unlock()
	assert.False(t, kept)
}

func TestCORSMiddleware(t *testing.T) {
	router := newTestRouter(corsMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router := newTestRouter(auth.AuthMiddleware("test-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	router := newTestRouter(auth.AuthMiddleware("test-secret"))

	accessToken, _, err := auth.GenerateTokens(uuid.New().String(), "test@example.com", auth.RoleMember, "test-secret", "test-secret")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleBlocksMembers(t *testing.T) {
	router := newTestRouter(auth.AuthMiddleware("test-secret"), auth.RequireRole(auth.RoleAdmin))

	accessToken, _, err := auth.GenerateTokens(uuid.New().String(), "member@example.com", auth.RoleMember, "test-secret", "test-secret")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllowsAdmins(t *testing.T) {
	router := newTestRouter(auth.AuthMiddleware("test-secret"), auth.RequireRole(auth.RoleAdmin))

	accessToken, _, err := auth.GenerateTokens(uuid.New().String(), "admin@example.com", auth.RoleAdmin, "test-secret", "test-secret")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Count int    `validate:"gte=1"`
	}

	errs := ValidateStruct(payload{Email: "not-an-email", Count: 0})
	require.Len(t, errs, 2)
	assert.Equal(t, "Email", errs[0].Field)
	assert.Equal(t, "email", errs[0].Tag)
	assert.Equal(t, "gte", errs[1].Tag)

	assert.Empty(t, ValidateStruct(payload{Email: "a@b.com", Count: 1}))
}

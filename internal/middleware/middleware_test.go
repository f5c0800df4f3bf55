package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/residence-backend/internal/config"
	"github.com/javajoker/residence-backend/internal/models"
	"github.com/javajoker/residence-backend/internal/testutil"
	"github.com/javajoker/residence-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(I18nMiddleware())
	r.Use(mw...)
	handler := func(c *gin.Context) {
		claims, ok := utils.GetClaimsFromContext(c)
		if !ok {
			c.String(http.StatusOK, "guest")
			return
		}
		c.String(http.StatusOK, claims.Role)
	}
	r.GET("/whoami", handler)
	r.POST("/v1/lease-requests/:id/cancel", handler)
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	signed, err := utils.GenerateJWT(uuid.New(), "jane@x.com", role, "Jane Doe", "0900000099", ttl)
	require.NoError(t, err)
	return signed
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(AuthRequired())

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, token(t, "root", time.Hour)).Code)

	expired := get(r, token(t, "user", -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, expired.Code)
	assert.Contains(t, expired.Body.String(), "expired")

	ok := get(r, token(t, "manager", time.Hour))
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "manager", ok.Body.String())
}

func TestAuthRequired_RejectsNonBearerScheme(t *testing.T) {
	r := newEngine(AuthRequired())
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic "+token(t, "user", time.Hour))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine(OptionalAuth())

	guest := get(r, "")
	assert.Equal(t, http.StatusOK, guest.Code)
	assert.Equal(t, "guest", guest.Body.String())

	user := get(r, token(t, "user", time.Hour))
	assert.Equal(t, "user", user.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "not-a-jwt").Code)
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	limiter := LeaseCreateRateLimiter(configFor(60, 2))
	r := newEngine(limiter.Middleware())

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	blocked := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), "RATE_LIMITED")
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Now()
	limiter.now = func() time.Time { return now }
	limiter.getVisitor("10.0.0.1")

	now = now.Add(visitorTTL + time.Second)
	limiter.getVisitor("10.0.0.2")
	limiter.evictIdle()

	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Contains(t, limiter.visitors, "10.0.0.2")
}

func TestPreferredLanguage(t *testing.T) {
	cases := map[string]string{
		"":                        "en",
		"zh-TW,zh;q=0.9,en;q=0.8": "zh_TW",
		"zh-Hant":                 "zh_TW",
		"en-US,en;q=0.9":          "en",
		"fr-FR":                   "en",
	}
	for header, want := range cases {
		assert.Equal(t, want, preferredLanguage(header), header)
	}
}

func TestExtractResource(t *testing.T) {
	id := uuid.New()
	path := "/v1/lease-requests/" + id.String() + "/cancel"

	assert.Equal(t, "lease-requests", extractResourceType(path))
	assert.Equal(t, id.String(), extractResourceID(path))
	assert.Equal(t, "health", extractResourceType("/health"))
	assert.Empty(t, extractResourceID("/v1/apartments/listings"))
}

func TestAuditLogger_RecordsMutatingRequests(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	audit := NewAuditLogger(db)
	r := newEngine(OptionalAuth(), audit.Middleware())
	id := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/v1/lease-requests/"+id.String()+"/cancel", strings.NewReader(`{"note":"moving abroad","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token(t, "user", time.Hour))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	get(r, "")
	audit.Wait()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "lease-requests", logs[0].ResourceType)
	assert.Equal(t, http.StatusOK, logs[0].StatusCode)
	require.NotNil(t, logs[0].ResourceID)
	assert.Equal(t, id, *logs[0].ResourceID)
	assert.NotNil(t, logs[0].UserID)
	assert.Equal(t, "moving abroad", logs[0].NewValues["note"])
	assert.NotContains(t, logs[0].NewValues, "password")
}

func configFor(perMinute, burst int) config.RateLimitConfig {
	return config.RateLimitConfig{LeaseCreatePerMinute: perMinute, LeaseCreateBurst: burst}
}

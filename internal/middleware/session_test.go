package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-site-api/internal/models"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

var adminClaims = &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}

func newAuthRouter(validator stubValidator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(Authenticate(validator))
	r.GET("/login-as/:token", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionTokenKey, c.Param("token"))
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})
	handlers := append([]gin.HandlerFunc{RequireSession()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})
	r.GET("/admin/news", handlers...)
	return r
}

func TestRequireSessionRejectsAnonymousAPIClient(t *testing.T) {
	r := newAuthRouter(stubValidator{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	req.Header.Set("Accept", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireSessionRedirectsBrowser(t *testing.T) {
	r := newAuthRouter(stubValidator{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

func TestAuthenticateBearer(t *testing.T) {
	r := newAuthRouter(stubValidator{"good": adminClaims})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	req.Header.Set("Authorization", "Bearer forged")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateSessionCookie(t *testing.T) {
	r := newAuthRouter(stubValidator{"good": adminClaims})

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as/good", nil))
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	stale := httptest.NewRecorder()
	r.ServeHTTP(stale, httptest.NewRequest(http.MethodGet, "/login-as/expired", nil))
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	for _, ck := range stale.Result().Cookies() {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateInvalidBearerFallsBackToSession(t *testing.T) {
	r := newAuthRouter(stubValidator{"good": adminClaims})

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as/good", nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	req.Header.Set("Authorization", "Bearer stale")
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	viewer := &models.JWTClaims{UserID: "u2", Role: "VIEWER"}
	r := newAuthRouter(stubValidator{"admin": adminClaims, "viewer": viewer}, RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	req.Header.Set("Authorization", "Bearer viewer")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	req.Header.Set("Authorization", "Bearer admin")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

type observed struct {
	method, path string
	status       int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observed
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, observed{method, path, status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(obs, "/metrics"))
	r.GET("/news/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/news/open-day", "/metrics", "/" + strings.Repeat("x", 5)} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, obs.seen, 2)
	assert.Equal(t, observed{http.MethodGet, "/news/:slug", http.StatusOK}, obs.seen[0])
	assert.Equal(t, observed{http.MethodGet, "unmatched", http.StatusNotFound}, obs.seen[1])
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-site-api/internal/middleware"
	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

type authServiceMock struct {
	loggedOut bool
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != "password123" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return &models.LoginResponse{AccessToken: "token-1", User: models.UserInfo{ID: "u1", Email: req.Email}}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, actor *models.JWTClaims, ip, userAgent string) {
	m.loggedOut = actor != nil
}

func (m *authServiceMock) Me(ctx context.Context, actor *models.JWTClaims) (*models.UserInfo, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.UserInfo{ID: actor.UserID}, nil
}

func (m *authServiceMock) ValidateToken(token string) (*models.JWTClaims, error) {
	if token == "token-1" {
		return &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}, nil
	}
	return nil, appErrors.ErrUnauthorized
}

func authRouter(svc *authServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.Use(middleware.Authenticate(svc))
	h := NewAuthHandler(svc)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", middleware.RequireSession(), h.Me)
	return r
}

func TestAuthHandlerLoginSetsSession(t *testing.T) {
	svc := &authServiceMock{}
	r := authRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@college.am","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token-1")
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u1"`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, svc.loggedOut)
}

func TestAuthHandlerLoginFormRedirects(t *testing.T) {
	r := authRouter(&authServiceMock{})

	form := url.Values{"email": {"admin@college.am"}, "password": {"password123"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, AdminHomePath, w.Header().Get("Location"))
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	r := authRouter(&authServiceMock{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@college.am","password":"nope12"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

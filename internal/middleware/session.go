package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
	"github.com/noah-isme/college-site-api/pkg/response"
)

const (
	// ContextUserKey is the gin context key storing JWT claims.
	ContextUserKey = "currentUser"
	// SessionTokenKey is the session value holding the signed access token.
	SessionTokenKey = "token"
	// LoginPath is where browsers without a session are sent.
	LoginPath = "/admin/login"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// Authenticate attaches verified claims from a Bearer header or, failing
// that, the session cookie. It never rejects a request; RequireSession does.
func Authenticate(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionFrom(c)

		if token, ok := bearerToken(c); ok {
			if claims, err := auth.ValidateToken(token); err == nil {
				c.Set(ContextUserKey, claims)
				c.Next()
				return
			}
		}

		if session != nil {
			if token, ok := session.Get(SessionTokenKey).(string); ok && token != "" {
				claims, err := auth.ValidateToken(token)
				if err != nil {
					session.Delete(SessionTokenKey)
					_ = session.Save()
				} else {
					c.Set(ContextUserKey, claims)
				}
			}
		}
		c.Next()
	}
}

// RequireSession aborts requests that carry no verified claims. Browsers are
// redirected to the login page; API clients get 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserKey); ok {
			c.Next()
			return
		}
		if response.WantsHTML(c) {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
		c.Abort()
	}
}

// Claims returns the verified claims for the request, or nil.
func Claims(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func sessionFrom(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

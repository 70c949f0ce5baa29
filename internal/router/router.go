// Package router assembles the gin engine: global middleware, public pages,
// the session-gated admin API and operational endpoints.
package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/internal/handler"
	"github.com/noah-isme/college-site-api/internal/middleware"
	"github.com/noah-isme/college-site-api/internal/models"
	"github.com/noah-isme/college-site-api/internal/service"
	"github.com/noah-isme/college-site-api/pkg/config"
	"github.com/noah-isme/college-site-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/college-site-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/college-site-api/pkg/middleware/requestid"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth      *handler.AuthHandler
	Public    *handler.PublicHandler
	News      *handler.NewsHandler
	Faculties *handler.FacultyHandler
	Teachers  *handler.TeacherHandler
	Uploads   *handler.UploadHandler
	Metrics   *handler.MetricsHandler
}

// Options carries the process-wide collaborators of the engine.
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService
	Tokens  tokenValidator
	// UploadsDir is served read-only under Config.Uploads.PublicPrefix.
	UploadsDir string
}

// New builds the engine.
func New(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics, "/metrics", "/health", "/ready"))
	r.Use(sessions.Sessions(cfg.Session.CookieName, sessionStore(cfg.Session)))
	r.Use(middleware.Authenticate(opts.Tokens))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opts.UploadsDir != "" {
		r.Static(cfg.Uploads.PublicPrefix, opts.UploadsDir)
	}

	api := r.Group(cfg.APIPrefix)

	api.GET("/news", h.Public.ListNews)
	api.GET("/news/:slug", h.Public.GetNews)
	api.GET("/faculties", h.Public.ListFaculties)
	api.GET("/teachers", h.Public.ListTeachers)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", middleware.RequireSession(), h.Auth.Me)

	admin := api.Group("/admin", middleware.RequireSession(), middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))

	news := admin.Group("/news")
	news.GET("", h.News.List)
	news.GET("/:id", h.News.Get)
	news.POST("", h.News.Upsert)
	news.PUT("/:id", h.News.Upsert)
	news.POST("/:id", h.News.Upsert)
	news.DELETE("/:id", h.News.Delete)
	news.POST("/:id/delete", h.News.Delete)

	faculties := admin.Group("/faculties")
	faculties.GET("", h.Faculties.List)
	faculties.GET("/:id", h.Faculties.Get)
	faculties.POST("", h.Faculties.Upsert)
	faculties.PUT("/:id", h.Faculties.Upsert)
	faculties.POST("/:id", h.Faculties.Upsert)
	faculties.DELETE("/:id", h.Faculties.Delete)
	faculties.POST("/:id/delete", h.Faculties.Delete)

	teachers := admin.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.GET("/export", h.Teachers.Export)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.POST("", h.Teachers.Upsert)
	teachers.PUT("/:id", h.Teachers.Upsert)
	teachers.POST("/:id", h.Teachers.Upsert)
	teachers.DELETE("/:id", h.Teachers.Delete)
	teachers.POST("/:id/delete", h.Teachers.Delete)

	admin.POST("/uploads", h.Uploads.Upload)

	return r
}

func sessionStore(cfg config.SessionConfig) sessions.Store {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

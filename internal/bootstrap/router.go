package bootstrap

import (
	"database/sql"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cascade-digital/agency-backend/config"
	httpapi "github.com/cascade-digital/agency-backend/internal/api/http"
	"github.com/cascade-digital/agency-backend/internal/api/http/middleware"
	cataloghttp "github.com/cascade-digital/agency-backend/internal/catalog/http"
	catalogsvc "github.com/cascade-digital/agency-backend/internal/catalog/service"
	"github.com/cascade-digital/agency-backend/internal/httpx"
	inquiryhttp "github.com/cascade-digital/agency-backend/internal/inquiries/http"
	"github.com/cascade-digital/agency-backend/internal/inquiries/repository"
	inquirysvc "github.com/cascade-digital/agency-backend/internal/inquiries/service"
	"github.com/cascade-digital/agency-backend/internal/logging"
	"github.com/cascade-digital/agency-backend/internal/staff"
)

type RouterDeps struct {
	Config      *config.Config
	DB          *sql.DB
	Cache       *redis.Client
	Catalog     *catalogsvc.CatalogService
	Intake      *inquirysvc.IntakeService
	InquiryRepo *repository.InquiryRepository
	AuthClient  *firebaseauth.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())

	secret := dep.Config.Server.SessionSecret
	if secret == "" {
		secret = "dev-session-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true})
	r.Use(sessions.Sessions("agency_session", store))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = dep.Config.Server.CORSOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders,
		"X-Requested-With", "X-CSRF-Token", "X-API-Key", "Authorization")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(
		dep.Config.App.SiteName, dep.Config.App.Version, dep.DB, dep.Cache)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	api.GET("/csrf", middleware.IssueCSRFToken)
	api.GET("/flashes", httpx.FlashesHandler)

	catalogHandler := cataloghttp.NewHandler(dep.Catalog)
	catalogHandler.Register(api)

	intakeHandler := inquiryhttp.NewIntakeHandler(dep.Intake, dep.Config.Intake)

	submitGroup := api.Group("")
	submitGroup.Use(middleware.RateLimitMiddleware(
		dep.Config.Intake.RatePerMinute, dep.Config.Intake.RateBurst))
	submitGroup.Use(middleware.CSRFMiddleware())
	intakeHandler.Register(submitGroup)

	// Step validation runs several times per submission, so it gets its own
	// bucket instead of draining the submit budget.
	validateGroup := api.Group("")
	validateGroup.Use(middleware.RateLimitMiddleware(
		dep.Config.Intake.RatePerMinute*10, dep.Config.Intake.RateBurst*10))
	validateGroup.Use(middleware.CSRFMiddleware())
	intakeHandler.RegisterValidation(validateGroup)

	admin := api.Group("/admin")
	if dep.AuthClient != nil {
		staffRepo := staff.NewRepo(dep.DB)
		admin.Use(staff.AuthMiddleware(dep.AuthClient, staffRepo))
	} else {
		logging.L.Warn().Msg("firebase auth not configured, admin API guarded by static key only")
		admin.Use(middleware.APIKeyMiddleware(dep.Config.Intake.AdminAPIKey))
	}

	adminHandler := inquiryhttp.NewAdminHandler(dep.InquiryRepo)
	adminHandler.Register(admin)
	catalogHandler.RegisterAdmin(admin)

	return r
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dawerha/dawerha-api/internal/api/handler"
	"github.com/dawerha/dawerha-api/internal/api/middleware"
	"github.com/dawerha/dawerha-api/internal/api/snapshot"
	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

// Dependencies carries everything the router needs to wire routes. Services
// are built in main so the background scheduler can share them.
type Dependencies struct {
	AuthService       ports.AuthService
	CompanyService    ports.CompanyService
	GameService       ports.GameService
	InfluencerService ports.InfluencerService
	Codec             *snapshot.Codec
	Mongo             *mongo.Database
	Redis             *redis.Client
	Logger            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("dawerha"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Codec)
	companyHandler := handler.NewCompanyHandler(deps.AuthService, deps.CompanyService)
	gameHandler := handler.NewGameHandler(deps.GameService)
	influencerHandler := handler.NewInfluencerHandler(deps.InfluencerService)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	// --- Guards ---
	// Admins pass the company guard too; requireOwner in the handlers
	// decides which accounts they may touch.
	companyGuard := middleware.RequireSession(deps.Codec, deps.AuthService, domain.UserTypeCompany, domain.UserTypeAdmin)
	adminGuard := middleware.RequireSession(deps.Codec, deps.AuthService, domain.UserTypeAdmin)

	// --- Auth ---
	e.POST("/auth/company/login", authHandler.CompanyLogin)
	e.POST("/auth/admin/login", authHandler.AdminLogin)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Public ---
	e.POST("/companies", companyHandler.Register)
	e.GET("/play/:slug", companyHandler.PlayConfig)
	e.POST("/play/:slug/spin", gameHandler.Spin)

	// --- Influencer giveaways ---
	e.POST("/influencers", influencerHandler.Register)
	e.GET("/influencers/:slug", influencerHandler.GiveawayConfig)
	e.POST("/influencers/:slug/participants", influencerHandler.AddParticipant)
	e.GET("/influencers/:slug/participants/count", influencerHandler.ParticipantCount)
	e.POST("/influencers/:slug/draw", influencerHandler.Draw)

	// --- Company area ---
	companies := e.Group("/companies", companyGuard)
	companies.GET("/:id", companyHandler.Get)
	companies.GET("/:id/dashboard", gameHandler.Dashboard)

	// --- Admin area ---
	admin := e.Group("/admin", adminGuard)
	admin.POST("/companies/:id/approve", companyHandler.Approve)
	admin.POST("/companies/:id/reject", companyHandler.Reject)
	admin.POST("/companies/:id/activate", companyHandler.ActivateNow)
	admin.POST("/companies/:id/schedules", companyHandler.AddSchedule)
	admin.POST("/influencers/:id/approve", influencerHandler.Approve)
	admin.POST("/influencers/:id/reject", influencerHandler.Reject)
	admin.GET("/influencers/:id/participants/export", influencerHandler.ExportParticipants)

	// --- Probes & metrics ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

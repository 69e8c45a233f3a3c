package routes

import (
	"time"

	"github.com/civicux/civicux-api/internal/config"
	"github.com/civicux/civicux-api/internal/handlers"
	"github.com/civicux/civicux-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Report      *handlers.ReportHandler
	Proposition *handlers.PropositionHandler
	Civic       *handlers.CivicHandler
	Reward      *handlers.RewardHandler
	Upload      *handlers.UploadHandler
	Health      *handlers.HealthHandler
	Legal       *handlers.LegalHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	jwt := middleware.JWTProtected(cfg)
	optionalJWT := middleware.OptionalJWT(cfg)

	api.Get("/health", h.Health.Check)
	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", jwt, h.Auth.Logout)
	auth.Delete("/account", jwt, h.Auth.DeleteAccount)

	// Users & ranking
	api.Get("/user/:id", h.User.GetProfile)
	api.Put("/user/:id", jwt, h.User.UpdateProfile)
	api.Get("/ranking", h.User.Ranking)

	// Reports
	api.Get("/reports", optionalJWT, h.Report.List)
	api.Post("/reports", jwt, h.Report.Create)
	api.Post("/reports/analyze", jwt, h.Report.Analyze)
	api.Get("/reports/:id", h.Report.Get)
	api.Post("/reports/:id/vote", jwt, h.Report.Vote)

	// Propositions
	api.Get("/propositions", optionalJWT, h.Proposition.List)
	api.Post("/propositions/vote", jwt, h.Proposition.Vote)
	api.Post("/propositions/summarize", h.Proposition.Summarize)
	api.Get("/propositions/:id", optionalJWT, h.Proposition.Get)

	// Activity, DOU, mentor
	api.Get("/activity", h.Civic.Activity)
	api.Get("/dou", h.Civic.DOUHighlights)
	api.Post("/dou/summarize", h.Civic.DOUSummarize)
	api.Post("/mentor/chat", h.Civic.MentorChat)

	// Rewards
	api.Get("/rewards", h.Reward.Catalogue)
	api.Get("/rewards/redemptions", jwt, h.Reward.Redemptions)
	api.Post("/rewards/:id/redeem", jwt, h.Reward.Redeem)

	// Upload & geocoding
	api.Post("/upload", jwt, h.Upload.Upload)
	api.Get("/geocode/reverse", h.Upload.ReverseGeocode)

	// Admin: X-Admin-Token, an ADMIN_EMAILS token, or an admin role
	admin := api.Group("/admin", optionalJWT, middleware.AdminRequired(db, cfg))
	admin.Put("/reports/:id/status", h.Report.UpdateStatus)
}

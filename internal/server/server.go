package server

import (
	"errors"
	"log/slog"

	"github.com/civicux/civicux-api/internal/catalog"
	"github.com/civicux/civicux-api/internal/config"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/handlers"
	"github.com/civicux/civicux-api/internal/middleware"
	"github.com/civicux/civicux-api/internal/routes"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// BodyLimit leaves headroom above the 5 MB image cap for multipart framing.
const BodyLimit = 6 * 1024 * 1024

type Options struct {
	// Quiet drops the per-request access log line.
	Quiet bool
}

// New builds the Fiber app with every service, handler and route wired.
func New(cfg *config.Config, db *gorm.DB, rewards *catalog.Registry, opts Options) *fiber.App {
	// Services
	llm := services.NewLLMClient(cfg)
	moderationService := services.NewModerationService()
	gamificationService := services.NewGamificationService(db)
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	reportService := services.NewReportService(db, gamificationService, moderationService)
	propositionService := services.NewPropositionService(db, cfg, services.NewCamaraClient(cfg.CamaraAPIURL), llm, gamificationService, moderationService)
	rewardService := services.NewRewardService(db, rewards)

	// Handlers
	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		User:        handlers.NewUserHandler(userService),
		Report:      handlers.NewReportHandler(reportService, services.NewAnalysisService(llm)),
		Proposition: handlers.NewPropositionHandler(propositionService),
		Civic: handlers.NewCivicHandler(
			services.NewActivityService(db),
			services.NewDOUService(cfg, llm),
			services.NewMentorService(llm),
		),
		Reward: handlers.NewRewardHandler(rewardService),
		Upload: handlers.NewUploadHandler(services.NewStorageService(cfg), services.NewGeocodingService(cfg)),
		Health: handlers.NewHealthHandler(db),
		Legal:  handlers.NewLegalHandler(),
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if !opts.Quiet {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, db, h)

	return app
}

// ErrorHandler renders errors that escaped the handlers. Details are only
// exposed for client errors; 5xx go to the log and to Sentry.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}

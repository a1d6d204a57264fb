package routes

import (
	"time"

	"github.com/daybook-app/daybook-backend/internal/config"
	"github.com/daybook-app/daybook-backend/internal/handlers"
	"github.com/daybook-app/daybook-backend/internal/middleware"
	"github.com/daybook-app/daybook-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	userService *services.UserService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	relationshipHandler *handlers.RelationshipHandler,
	reportHandler *handlers.ReportHandler,
	timelineHandler *handlers.TimelineHandler,
	imageHandler *handlers.ImageHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Registration is public; everything else on /users requires a token.
	api.Post("/users", userHandler.Register)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	jwt := middleware.JWTProtected(cfg)
	// Graph and timeline handlers work on the loaded user row, not just the
	// token subject.
	withUser := middleware.CurrentUser(userService)

	api.Get("/users", jwt, withUser, userHandler.Profile)
	api.Put("/users", jwt, userHandler.Update)

	api.Get("/following", jwt, withUser, relationshipHandler.ListFollowing)
	api.Post("/following/:username", jwt, withUser, relationshipHandler.Follow)
	api.Delete("/following/:id", jwt, withUser, relationshipHandler.Unfollow)

	api.Get("/followers", jwt, withUser, relationshipHandler.ListFollowers)
	api.Put("/followers/:id", jwt, withUser, relationshipHandler.UpdateFollower)

	api.Post("/reports", jwt, reportHandler.Create)
	api.Get("/reports/:skip/:number", jwt, reportHandler.OwnPage)
	api.Put("/reports/:id", jwt, reportHandler.Update)
	api.Delete("/reports/:id", jwt, reportHandler.Delete)

	api.Post("/timeline/page", jwt, withUser, timelineHandler.Page)
	api.Post("/timeline/range", jwt, withUser, timelineHandler.Range)

	api.Post("/images/:reportId", jwt, imageHandler.Upload)
	api.Get("/images/:id", jwt, withUser, imageHandler.Download)
	api.Delete("/images/:id", jwt, imageHandler.Delete)
}

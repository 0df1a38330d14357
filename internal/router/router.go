package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lingua-exam-api/internal/config"
	"github.com/noah-isme/lingua-exam-api/internal/handler"
	"github.com/noah-isme/lingua-exam-api/internal/middleware"
	"github.com/noah-isme/lingua-exam-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SubmissionHandler *handler.SubmissionHandler
	ContentHandler    *handler.ContentHandler
	JWTMiddleware     fiber.Handler
	HealthProbes      map[string]handler.HealthProbe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware, middleware.RequireUser())
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.ContentHandler != nil {
		tests := api.Group("/tests", jwtMiddleware)
		deps.ContentHandler.RegisterPublic(tests)

		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole("admin", "teacher"))
		deps.ContentHandler.RegisterAdmin(admin)
	}
}

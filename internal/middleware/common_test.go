package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestRegisterLimitsCORSToExamMethods(t *testing.T) {
	app := fiber.New()
	Register(app, Config{})
	app.Post("/api/v1/submissions", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/submissions", nil)
	req.Header.Set("Origin", "https://exam.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.Equal(t, "GET,POST,OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestRegisterEchoesCorrelationID(t *testing.T) {
	app := fiber.New()
	Register(app, Config{})
	app.Get("/api/v1/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(CorrelationHeader, "exam-run-7")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "exam-run-7", resp.Header.Get(CorrelationHeader))
}

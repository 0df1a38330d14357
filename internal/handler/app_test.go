package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-exam-api/internal/config"
	"github.com/noah-isme/lingua-exam-api/internal/grading"
	"github.com/noah-isme/lingua-exam-api/internal/handler"
	"github.com/noah-isme/lingua-exam-api/internal/models"
	"github.com/noah-isme/lingua-exam-api/internal/repository"
	"github.com/noah-isme/lingua-exam-api/internal/router"
	"github.com/noah-isme/lingua-exam-api/internal/service"
	"github.com/noah-isme/lingua-exam-api/pkg/ai"
)

type fixedJudge struct {
	score float64
}

func (j fixedJudge) Judge(context.Context, ai.WritingInput) ai.WritingResult {
	return ai.WritingResult{Score: j.score, Feedback: "good structure", Suggestion: "Liebe Anna, ..."}
}

type apiResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details"`
}

// setupGradingApp builds the full router. The stub JWT middleware reads the caller from the
// X-Test-User and X-Test-Role headers.
func setupGradingApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CourseTest{}, &models.CourseModule{}, &models.TestResult{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()

	contentRepo := repository.NewContentRepository(db)
	resultRepo := repository.NewResultRepository(db)

	contentService := service.NewContentService(contentRepo, validate, logger)
	submissionService := service.NewSubmissionService(contentRepo, resultRepo, grading.NewEngine(fixedJudge{score: 3}), nil, nil, service.SubmissionConfig{CacheTTL: time.Minute}, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", AppEnv: "test", JWTSecret: "secret"}, router.Dependencies{
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		ContentHandler:    handler.NewContentHandler(contentService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if user := c.Get("X-Test-User"); user != "" {
				c.Locals("user_id", user)
			}
			if role := c.Get("X-Test-Role"); role != "" {
				c.Locals("user_role", role)
			}
			return c.Next()
		},
	})

	return app, db
}

func doRequest(t *testing.T, app *fiber.App, method, path, user, role string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload apiResponse
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

// authorGoetheTest creates a small test through the admin API and returns its id.
func authorGoetheTest(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, payload := doRequest(t, app, http.MethodPost, "/api/v1/admin/tests", "teacher-1", "teacher", map[string]interface{}{
		"testName": "Goethe B1",
		"language": "German",
		"duration": 180,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var test struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload.Data, &test))
	require.NotEmpty(t, test.ID)

	modules := []map[string]interface{}{
		{"name": "Listening", "level": "1", "content": map[string]interface{}{
			"media": "https://cdn.example.com/track1.mp3",
			"questions": []interface{}{
				map[string]interface{}{"text": "Der Zug fährt um 9 Uhr.", "correctAnswer": true},
			},
		}},
		{"name": "Reading", "level": "1", "content": map[string]interface{}{
			"paragraphs": []interface{}{
				map[string]interface{}{"paragraph": "Text <b>A</b>", "answer": "c"},
			},
		}},
		{"name": "Writing", "level": "1", "content": map[string]interface{}{
			"task_a": map[string]interface{}{"questionId": "task_a", "title": "E-Mail", "body": "Schreiben Sie an Anna."},
		}},
	}

	for _, module := range modules {
		resp, _ := doRequest(t, app, http.MethodPost, "/api/v1/admin/tests/"+test.ID+"/modules", "teacher-1", "teacher", module)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	return test.ID
}

func moduleID(t *testing.T, app *fiber.App, testID, name string) string {
	t.Helper()

	resp, payload := doRequest(t, app, http.MethodGet, "/api/v1/tests/"+testID+"/content", "student-1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var content struct {
		Modules []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(payload.Data, &content))
	for _, module := range content.Modules {
		if module.Name == name {
			return module.ID
		}
	}
	t.Fatalf("module %s not found", name)
	return ""
}

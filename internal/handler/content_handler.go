package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lingua-exam-api/internal/dto"
	"github.com/noah-isme/lingua-exam-api/internal/service"
	"github.com/noah-isme/lingua-exam-api/internal/utils"
)

// ContentHandler serves test content and its authoring endpoints.
type ContentHandler struct {
	service service.ContentService
	logger  zerolog.Logger
}

// NewContentHandler builds a content handler instance.
func NewContentHandler(service service.ContentService, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		logger:  logger.With().Str("component", "content_handler").Logger(),
	}
}

// RegisterPublic attaches the test-taker routes.
func (h *ContentHandler) RegisterPublic(router fiber.Router) {
	router.Get("/:id/content", h.getContent)
}

// RegisterAdmin attaches the authoring routes.
func (h *ContentHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/tests", h.createTest)
	router.Post("/tests/:id/modules", h.addModule)
}

func (h *ContentHandler) getContent(c *fiber.Ctx) error {
	content, err := h.service.GetTestContent(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "test content retrieved", content)
}

func (h *ContentHandler) createTest(c *fiber.Ctx) error {
	var payload dto.CreateTestRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	test, err := h.service.CreateTest(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "test created", test)
}

func (h *ContentHandler) addModule(c *fiber.Ctx) error {
	var payload dto.CreateModuleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	module, err := h.service.AddModule(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "module added", module)
}

func (h *ContentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	case errors.Is(err, service.ErrModuleInvalid):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTestNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "test not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

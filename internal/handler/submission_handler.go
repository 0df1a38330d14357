package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lingua-exam-api/internal/service"
	"github.com/noah-isme/lingua-exam-api/internal/utils"
)

// SubmissionHandler exposes grading and result review endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// The body is passed through untouched; it is decoded by the service and stored verbatim.
func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	summary, err := h.service.Submit(c.UserContext(), c.Body(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission graded", summary)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	results, err := h.service.ListByUser(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "results retrieved", results)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	viewer := service.Viewer{
		UserID: userIDFromContext(c),
		Role:   userRoleFromContext(c),
	}

	result, err := h.service.Get(c.UserContext(), c.Params("id"), viewer)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrPayloadRequired), errors.Is(err, service.ErrTestIDRequired):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPayloadInvalid):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	case errors.Is(err, service.ErrUserIDRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

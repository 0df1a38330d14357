package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lingua-exam-api/internal/utils"
)

// RequireUser rejects requests whose token carried no usable user id. Grading needs the
// submitter's id, so every submission route sits behind it.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUserID(c) == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) string {
	switch v := c.Locals("user_id").(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

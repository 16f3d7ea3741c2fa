package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pasar/internal/apperror"
	"pasar/internal/logging"
)

// ErrorHandler renders errors returned by handlers and guards as
// {"status": KIND, "message": ..., "errors": {...}}. Causes of internal errors are logged and
// never sent.
func ErrorHandler(log logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"status":  statusName(fiberErr.Code),
				"message": fiberErr.Message,
			})
		}

		appErr := apperror.From(err)
		if appErr.Kind == apperror.KindInternal {
			log.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		body := fiber.Map{
			"status":  appErr.Kind,
			"message": appErr.Message,
		}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		return c.Status(appErr.Status()).JSON(body)
	}
}

func statusName(code int) apperror.Kind {
	switch code {
	case fiber.StatusNotFound:
		return apperror.KindNotFound
	case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return apperror.KindBadRequest
	case fiber.StatusUnauthorized:
		return apperror.KindUnauthorized
	case fiber.StatusForbidden:
		return apperror.KindForbidden
	case fiber.StatusConflict:
		return apperror.KindConflict
	}
	return apperror.KindInternal
}

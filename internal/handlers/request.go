package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/middleware"
)

// bind parses the JSON body into dst and validates it.
func bind(c *fiber.Ctx, validate *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperror.BadRequest("Invalid request body")
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return apperror.Invalid(errorMessages)
	}
	return nil
}

// caller returns the identity placed on the request by the guard.
func caller(c *fiber.Ctx) (auth.Claims, error) {
	identity, ok := middleware.Identity(c)
	if !ok {
		return auth.Claims{}, apperror.Unauthorized("unauthenticated")
	}
	return identity, nil
}

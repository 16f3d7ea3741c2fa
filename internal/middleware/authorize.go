package middleware

import (
	"context"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/models"
)

const msgForbidden = "forbidden"

// Authorize checks the identity stored in ctx against allowed. An empty set
// admits any authenticated caller. A missing identity is refused.
func Authorize(ctx context.Context, allowed []models.Role) error {
	identity, ok := auth.IdentityFrom(ctx)
	if !ok {
		return apperror.Forbidden(msgForbidden)
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return apperror.Forbidden(msgForbidden)
}

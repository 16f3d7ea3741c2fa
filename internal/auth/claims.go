package auth

import (
	"context"

	"pasar/internal/models"
)

// Claims is the identity carried by a token.
type Claims struct {
	Subject string      `json:"sub"`
	Email   string      `json:"email"`
	Role    models.Role `json:"role"`
}

// ClaimsFor builds the claims of a user record.
func ClaimsFor(u *models.User) Claims {
	return Claims{Subject: u.ID, Email: u.Email, Role: u.Role}
}

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity returns a copy of ctx carrying the authenticated caller.
func WithIdentity(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, identityKey, c)
}

// IdentityFrom returns the authenticated caller stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Claims, bool) {
	if ctx == nil {
		return Claims{}, false
	}
	c, ok := ctx.Value(identityKey).(Claims)
	return c, ok
}

package middleware

import (
	"errors"
	"strings"

	"pasar/internal/apperror"
	"pasar/internal/auth"
)

const msgUnauthenticated = "unauthenticated"

var (
	errMissingHeader = errors.New("authorization header is missing")
	errBadScheme     = errors.New("authorization header format must be 'Bearer <token>'")
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Authenticate verifies the value of an Authorization header. Every failure
// is an Unauthorized error with the same generic message; the cause is kept
// in Err for logging. The credential store is never consulted.
func Authenticate(tokens TokenVerifier, header string) (auth.Claims, error) {
	if header == "" {
		return auth.Claims{}, unauthenticated(errMissingHeader)
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return auth.Claims{}, unauthenticated(errBadScheme)
	}

	claims, err := tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return auth.Claims{}, unauthenticated(err)
	}
	return claims, nil
}

func unauthenticated(cause error) *apperror.Error {
	return &apperror.Error{Kind: apperror.KindUnauthorized, Message: msgUnauthenticated, Err: cause}
}

// failureReason names why authentication failed, for logs only.
func failureReason(err error) string {
	if kind, ok := auth.TokenErrorKind(err); ok {
		return kind.String()
	}
	switch {
	case errors.Is(err, errMissingHeader):
		return "missing_header"
	case errors.Is(err, errBadScheme):
		return "bad_scheme"
	}
	return "unknown"
}

package middleware

import (
	"github.com/gofiber/fiber/v2"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/logging"
)

// Guard runs authentication then authorization in front of a handler.
type Guard struct {
	tokens TokenVerifier
	policy Policy
	log    logging.Logger
}

func NewGuard(tokens TokenVerifier, policy Policy, log logging.Logger) *Guard {
	return &Guard{tokens: tokens, policy: policy, log: log.With("component", "guard")}
}

// Require returns the middleware protecting operation op. An operation
// missing from the policy is refused for everyone.
func (g *Guard) Require(op string) fiber.Handler {
	allowed, known := g.policy[op]

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		claims, err := Authenticate(g.tokens, c.Get(fiber.HeaderAuthorization))
		if err != nil {
			g.log.Info(ctx, "authentication failed", "op", op, "reason", failureReason(err), "path", c.Path())
			return err
		}

		ctx = auth.WithIdentity(ctx, claims)
		c.SetUserContext(ctx)

		if !known {
			g.log.Error(ctx, "operation has no access policy", "op", op)
			return apperror.Forbidden(msgForbidden)
		}
		if err := Authorize(ctx, allowed); err != nil {
			g.log.Info(ctx, "authorization failed", "op", op, "role", claims.Role, "user_id", claims.Subject)
			return err
		}
		return c.Next()
	}
}

// Identity returns the caller stored by Require.
func Identity(c *fiber.Ctx) (auth.Claims, bool) {
	return auth.IdentityFrom(c.UserContext())
}

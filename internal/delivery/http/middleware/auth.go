package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/pkg/errors"
	"github.com/country-explorer/internal/pkg/token"
	"github.com/country-explorer/internal/pkg/utils"
)

// UserIDKey - fiber.Ctx locals key holding the authenticated user id.
const UserIDKey = "userID"

// RequireAuth - middleware that verifies the bearer token and resolves the
// account it belongs to. Clients treat a 401 from any protected endpoint as
// credential invalidation, so expired tokens and deleted accounts both land
// here.
func RequireAuth(tokens *token.Manager, userRepo repository.UserRepository, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		bearer, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(bearer) == "" {
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		userID, err := tokens.Verify(bearer)
		if err != nil {
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		user, err := userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return utils.SendError(c, err)
		}
		if user == nil {
			logger.Warn("Valid token for missing account", zap.String("user_id", userID))
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		c.Locals(UserIDKey, user.ID)
		return c.Next()
	}
}

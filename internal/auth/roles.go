package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrimech/crm-service/internal/domain"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// RequireRole ensures the authenticated user holds one of the allowed roles.
// SUPER_ADMIN always passes.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if user.Role == domain.RoleSuperAdmin {
			return c.Next()
		}
		if _, permitted := allowedSet[user.Role]; !permitted {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequirePage ensures the user's page permissions include the given page.
func RequirePage(page string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !user.HasPermission(page) {
			return apperrors.NewForbidden("page not permitted")
		}
		return c.Next()
	}
}

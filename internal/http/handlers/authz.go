package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

const authCookie = "token"

// RequireAuth verifies the JWT cookie and stores the claims for handlers.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(authCookie)
		if token == "" {
			return fail(c, fiber.StatusUnauthorized, "Authentication required")
		}
		claims, err := auth.Verify(token)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		c.Locals("claims", claims)
		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// RequireAdmin gates admin-only endpoints. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil || claims.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", nil)
			return fail(c, fiber.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}

// CurrentClaims returns the verified identity set by RequireAuth.
func CurrentClaims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals("claims").(*services.Claims)
	return claims
}

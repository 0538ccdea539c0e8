package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // set true behind HTTPS
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
}

func clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func userPayload(u *domain.User) fiber.Map {
	return fiber.Map{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Please provide name, email, and password")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Please provide name, email, and password")
	}

	u, token, err := h.Auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return failErr(c, err, "auth.register", "Server error during registration")
	}

	setAuthCookie(c, token)
	applog.Audit(c, "auth.register", map[string]any{"email": u.Email})
	return ok(c, fiber.StatusCreated, fiber.Map{
		"message": "User registered successfully",
		"user":    userPayload(u),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Please provide email and password")
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Please provide email and password")
	}

	u, token, err := h.Auth.Login(req.Email, req.Password)
	if err == services.ErrBadCreds {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return failErr(c, err, "auth.login", "Server error during login")
	}

	setAuthCookie(c, token)
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Login successful",
		"user":    userPayload(u),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearAuthCookie(c)
	applog.Audit(c, "auth.logout", nil)
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Logout successful"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := CurrentClaims(c)
	u, err := h.Auth.CurrentUser(claims)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	return ok(c, fiber.StatusOK, fiber.Map{"user": userPayload(u)})
}

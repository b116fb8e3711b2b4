// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"strings"

	"payva/internal/models"
	"payva/internal/repositories"
	"payva/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// UserContextKey is the locals key the authenticated user is stored under.
const UserContextKey = "currentUser"

// AuthMiddleware validates bearer tokens and resolves the acting user.
type AuthMiddleware struct {
	users repositories.UserRepository
}

func NewAuthMiddleware(users repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// Handler checks the Authorization header, validates the JWT and loads
// the current user into the request context.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return utils.Unauthorized(c, "invalid token")
	}

	user, err := m.users.GetByID(claims.UserID)
	if err != nil {
		return utils.Unauthorized(c, "unknown user")
	}
	if user.Blocked {
		return utils.Unauthorized(c, "account is blocked")
	}

	c.Locals(UserContextKey, user)
	return c.Next()
}

// RequireEmployee restricts a route to employee accounts.
func RequireEmployee(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil || !user.IsEmployee() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "employee access required"})
	}
	return c.Next()
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserContextKey).(*models.User)
	return user
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/pkg/utils"
)

// TokenCookie is the cookie that carries the session token.
const TokenCookie = "token"

// Locals keys set by AuthRequired. They survive a WebSocket upgrade.
const (
	LocalUserEmail = "user_email"
	LocalUserName  = "user_name"
)

type TokenVerifier interface {
	VerifyToken(token string) (*utils.Claims, error)
}

// AuthRequired accepts the session cookie, or a Bearer header for non-browser
// clients, and stores the caller's claims in Locals.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(TokenCookie)
		if token == "" {
			token = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return unauthorized(c)
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserName, claims.Name)

		return c.Next()
	}
}

// CurrentUser returns the caller stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) (models.PublicUser, bool) {
	email, ok := c.Locals(LocalUserEmail).(string)
	if !ok || email == "" {
		return models.PublicUser{}, false
	}
	name, _ := c.Locals(LocalUserName).(string)
	return models.PublicUser{Name: name, Email: email}, true
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}

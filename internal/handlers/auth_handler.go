package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/ChatAppBack/internal/metrics"
	"github.com/saeid-a/ChatAppBack/internal/middleware"
	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/internal/services"
	"github.com/saeid-a/ChatAppBack/pkg/utils"
)

type authService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	VerifyToken(token string) (*utils.Claims, error)
}

type sessionCloser interface {
	Disconnect(userID string)
}

type AuthHandler struct {
	service      authService
	sessions     sessionCloser
	cookieSecure bool
}

func NewAuthHandler(service authService, sessions sessionCloser, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		sessions:     sessions,
		cookieSecure: cookieSecure,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	_, err := h.service.Register(c.UserContext(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.RecordAuth("register", outcomeFor(err))
		return mapAuthError(c, err, "Failed to create user")
	}

	metrics.RecordAuth("register", "ok")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		metrics.RecordAuth("login", outcomeFor(err))
		return mapAuthError(c, err, "Failed to login")
	}

	c.Cookie(h.tokenCookie(result.Token, result.ExpiresAt))
	metrics.RecordAuth("login", "ok")
	return c.JSON(fiber.Map{"user": result.User})
}

// Logout expires the session cookie and ends the caller's live sessions.
// It succeeds even without a valid session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(middleware.TokenCookie); token != "" && h.sessions != nil {
		if claims, err := h.service.VerifyToken(token); err == nil {
			h.sessions.Disconnect(claims.Email)
		}
	}

	c.Cookie(h.tokenCookie("", time.Unix(0, 0)))
	metrics.RecordAuth("logout", "ok")
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) AuthCheck(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *AuthHandler) tokenCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// mapAuthError never tells a caller whether the email or the password was
// wrong.
func mapAuthError(c *fiber.Ctx, err error, fallback string) error {
	switch services.KindOf(err) {
	case services.KindNotFound, services.KindInvalidCredentials:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email or password"})
	case services.KindValidation:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.Detail(err)})
	case services.KindInvalidToken, services.KindUnauthorized:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	default:
		log.Printf("auth handler: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}

func outcomeFor(err error) string {
	if services.KindOf(err) == services.KindUnknown {
		return "error"
	}
	return "rejected"
}

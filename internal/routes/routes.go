package routes

import (
	"context"
	"errors"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/saeid-a/ChatAppBack/internal/config"
	"github.com/saeid-a/ChatAppBack/internal/handlers"
	"github.com/saeid-a/ChatAppBack/internal/metrics"
	"github.com/saeid-a/ChatAppBack/internal/middleware"
	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/internal/ratelimit"
	"github.com/saeid-a/ChatAppBack/internal/services"
	chatws "github.com/saeid-a/ChatAppBack/internal/websocket"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ChatStore interface {
	CreateOrGet(ctx context.Context, chat *models.Chat) (*models.Chat, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Chat, error)
}

// Dependencies are the backends chosen at startup. Limiter may be nil.
type Dependencies struct {
	Users       UserStore
	Chats       ChatStore
	Limiter     middleware.Allower
	Hub         *chatws.Hub
	SessionOpts chatws.SessionOptions
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, deps Dependencies) error {
	if deps.Users == nil || deps.Chats == nil || deps.Hub == nil {
		return errors.New("routes: user store, chat store and hub are required")
	}

	authService := services.NewAuthService(deps.Users, cfg.JWTSecret)
	directoryService := services.NewDirectoryService(deps.Users, deps.Chats)

	authHandler := handlers.NewAuthHandler(authService, deps.Hub, cfg.CookieSecure)
	chatHandler := handlers.NewChatHandler(directoryService, deps.Hub, deps.SessionOpts)
	authRequired := middleware.AuthRequired(authService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	app.Post("/register", middleware.RateLimit(deps.Limiter, ratelimit.RuleRegister, "register"), authHandler.Register)
	app.Post("/login", middleware.RateLimit(deps.Limiter, ratelimit.RuleLogin, "login"), authHandler.Login)
	app.Get("/logout", authHandler.Logout)
	app.Get("/auth-check", authRequired, authHandler.AuthCheck)

	app.Post("/add-to-chat", authRequired, chatHandler.AddToChat)
	app.Get("/chats", authRequired, chatHandler.ListChats)

	app.Use("/ws", authRequired, chatHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(chatHandler.HandleWebSocket))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not Found"})
	})

	return nil
}

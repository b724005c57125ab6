package handlers

import (
	"context"
	"log"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/ChatAppBack/internal/middleware"
	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/internal/services"
	chatws "github.com/saeid-a/ChatAppBack/internal/websocket"
)

type directoryService interface {
	AddUserToChat(ctx context.Context, email string, callerID string) (*models.Chat, error)
	ListChats(ctx context.Context, callerID string) ([]models.Chat, error)
}

type ChatHandler struct {
	service     directoryService
	hub         *chatws.Hub
	sessionOpts chatws.SessionOptions
}

type addToChatRequest struct {
	Email string `json:"email"`
}

func NewChatHandler(service directoryService, hub *chatws.Hub, opts chatws.SessionOptions) *ChatHandler {
	return &ChatHandler{
		service:     service,
		hub:         hub,
		sessionOpts: opts,
	}
}

func (h *ChatHandler) AddToChat(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req addToChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	chat, err := h.service.AddUserToChat(c.UserContext(), req.Email, user.Email)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"data": chat})
}

func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	chats, err := h.service.ListChats(c.UserContext(), user.Email)
	if err != nil {
		return mapChatError(c, err)
	}
	if chats == nil {
		chats = []models.Chat{}
	}

	page, limit, paged := pageParams(c)
	if !paged {
		return c.JSON(fiber.Map{"data": chats})
	}
	return c.JSON(fiber.Map{
		"data":       paginate(chats, page, limit),
		"pagination": buildPaginationMeta(page, limit, len(chats)),
	})
}

// WebSocketUpgrade runs after AuthRequired and only lets upgrade requests
// through.
func (h *ChatHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	email, _ := conn.Locals(middleware.LocalUserEmail).(string)
	name, _ := conn.Locals(middleware.LocalUserName).(string)
	user := models.PublicUser{Name: name, Email: email}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := chatws.NewClient(h.hub, conn, user.Email)
	session, err := chatws.NewSession(ctx, user, h.service, client.Enqueue, h.sessionOpts)
	if err != nil {
		log.Printf("chat session for %s: %v", user.Email, err)
		_ = conn.WriteJSON(chatws.Frame{Type: "error", Error: "Failed to load chats"})
		_ = conn.Close()
		return
	}
	defer session.Close()

	h.hub.Register(client)
	session.SendState()
	go client.WritePump()
	client.ReadPump(ctx, session)
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch services.KindOf(err) {
	case services.KindNotFound:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User not found"})
	case services.KindValidation:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.Detail(err)})
	case services.KindUnauthorized, services.KindInvalidToken:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	default:
		log.Printf("chat handler: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process chat request"})
	}
}

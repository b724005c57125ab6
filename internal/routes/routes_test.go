package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/ChatAppBack/internal/config"
	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/internal/repository"
	chatws "github.com/saeid-a/ChatAppBack/internal/websocket"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = strconv.Itoa(len(m.users) + 1)
	copied := *user
	m.users[user.Email] = &copied
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type memoryChats struct {
	mu    sync.Mutex
	chats []models.Chat
}

func (m *memoryChats) CreateOrGet(_ context.Context, chat *models.Chat) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.chats {
		if existing.User == chat.User && existing.Email == chat.Email {
			copied := existing
			return &copied, nil
		}
	}
	created := *chat
	created.ID = "chat-" + strconv.Itoa(len(m.chats)+1)
	m.chats = append(m.chats, created)
	return &created, nil
}

func (m *memoryChats) ListByOwner(_ context.Context, owner string) ([]models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Chat
	for _, chat := range m.chats {
		if chat.User == owner {
			out = append(out, chat)
		}
	}
	return out, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	hub := chatws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	app := fiber.New()
	cfg := &config.Config{JWTSecret: "test-secret", AppEnv: "test"}
	err := RegisterRoutes(app, cfg, Dependencies{
		Users: &memoryUsers{users: map[string]*models.User{}},
		Chats: &memoryChats{},
		Hub:   hub,
	})
	if err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string, cookies ...*http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, int((5 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

func TestAuthAndDirectoryFlow(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/register", `{"name":"Ann","email":"ann@x.com","password":"pw1"}`)
	if resp.StatusCode != http.StatusCreated || body["message"] != "User created" {
		t.Fatalf("register ann: %d %v", resp.StatusCode, body)
	}
	if resp, body = do(t, app, http.MethodPost, "/register", `{"name":"bob","email":"Bob@X.com","password":"pw2"}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("register bob: %d %v", resp.StatusCode, body)
	}
	if resp, _ = do(t, app, http.MethodPost, "/register", `{"name":"Ann again","email":"ann@x.com","password":"pw3"}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", resp.StatusCode)
	}

	if resp, body = do(t, app, http.MethodPost, "/login", `{"email":"ann@x.com","password":"wrong"}`); resp.StatusCode != http.StatusBadRequest || body["error"] != "Invalid email or password" {
		t.Fatalf("bad login: %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, app, http.MethodPost, "/login", `{"email":"ann@x.com","password":"pw1"}`)
	cookie := sessionCookie(resp)
	if resp.StatusCode != http.StatusOK || cookie == nil {
		t.Fatalf("login: %d %v", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["name"] != "Ann" || user["email"] != "ann@x.com" {
		t.Fatalf("login user: %v", body)
	}

	resp, body = do(t, app, http.MethodGet, "/auth-check", "", cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("auth-check: %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, app, http.MethodPost, "/add-to-chat", `{"email":"bob@x.com"}`, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add-to-chat: %d %v", resp.StatusCode, body)
	}
	chat, _ := body["data"].(map[string]any)
	if chat["avatar"] != "B" || chat["user"] != "ann@x.com" || chat["name"] != "bob" || chat["unread"] != float64(0) {
		t.Fatalf("unexpected chat: %v", chat)
	}

	do(t, app, http.MethodPost, "/add-to-chat", `{"email":"bob@x.com"}`, cookie)
	resp, body = do(t, app, http.MethodGet, "/chats", "", cookie)
	if data, _ := body["data"].([]any); resp.StatusCode != http.StatusOK || len(data) != 1 {
		t.Fatalf("expected one membership after repeated add, got %d %v", resp.StatusCode, body)
	}

	if resp, body = do(t, app, http.MethodPost, "/add-to-chat", `{"email":"ghost@x.com"}`, cookie); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("add unknown: %d %v", resp.StatusCode, body)
	}
	if resp, _ = do(t, app, http.MethodPost, "/add-to-chat", `{"email":"bob@x.com"}`); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("add without cookie: expected 401, got %d", resp.StatusCode)
	}

	resp, _ = do(t, app, http.MethodGet, "/logout", "", cookie)
	if cleared := sessionCookie(resp); resp.StatusCode != http.StatusOK || cleared == nil || cleared.Value != "" {
		t.Fatalf("logout: %d %+v", resp.StatusCode, cleared)
	}
}

func TestHealthMetricsAndFallback(t *testing.T) {
	app := newTestApp(t)

	if resp, body := do(t, app, http.MethodGet, "/health", ""); resp.StatusCode != http.StatusOK || body["status"] != "OK" {
		t.Fatalf("health: %d %v", resp.StatusCode, body)
	}
	if resp, body := do(t, app, http.MethodGet, "/nope", ""); resp.StatusCode != http.StatusNotFound || body["error"] != "Not Found" {
		t.Fatalf("fallback: %d %v", resp.StatusCode, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", resp.StatusCode)
	}
}

func TestRegisterRoutesRequiresBackends(t *testing.T) {
	if err := RegisterRoutes(fiber.New(), &config.Config{JWTSecret: "x"}, Dependencies{}); err == nil {
		t.Fatalf("expected missing dependencies to fail")
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/saeid-a/ChatAppBack/internal/models"
)

func seededDirectory(t *testing.T) (*DirectoryService, *memoryChatStore) {
	t.Helper()
	users := newMemoryUserStore()
	users.users["bob@x.com"] = models.User{ID: "2", Name: "bob", Email: "bob@x.com"}
	chats := &memoryChatStore{}
	return NewDirectoryService(users, chats), chats
}

func TestAddUserToChatCreatesMembership(t *testing.T) {
	service, _ := seededDirectory(t)

	chat, err := service.AddUserToChat(context.Background(), "Bob@X.com", "ann@x.com")
	if err != nil {
		t.Fatalf("AddUserToChat: %v", err)
	}

	if chat.Name != "bob" || chat.Email != "bob@x.com" {
		t.Fatalf("unexpected chat: %+v", chat)
	}
	if chat.User != "ann@x.com" {
		t.Fatalf("expected owner ann@x.com, got %q", chat.User)
	}
	if chat.Avatar != "B" {
		t.Fatalf("expected avatar B, got %q", chat.Avatar)
	}
	if chat.Unread != 0 {
		t.Fatalf("expected unread 0, got %d", chat.Unread)
	}
}

func TestAddUserToChatUnknownEmailIsNotFound(t *testing.T) {
	service, _ := seededDirectory(t)

	_, err := service.AddUserToChat(context.Background(), "ghost@x.com", "ann@x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddUserToChatReturnsExistingMembershipOnRepeat(t *testing.T) {
	service, chats := seededDirectory(t)
	ctx := context.Background()

	first, err := service.AddUserToChat(ctx, "bob@x.com", "ann@x.com")
	if err != nil {
		t.Fatalf("AddUserToChat: %v", err)
	}
	second, err := service.AddUserToChat(ctx, "bob@x.com", "ann@x.com")
	if err != nil {
		t.Fatalf("AddUserToChat repeat: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected the same membership, got %q and %q", first.ID, second.ID)
	}
	if len(chats.chats) != 1 {
		t.Fatalf("expected 1 stored membership, got %d", len(chats.chats))
	}
}

func TestAddUserToChatRejectsSelfAndAnonymous(t *testing.T) {
	service, _ := seededDirectory(t)
	ctx := context.Background()

	if _, err := service.AddUserToChat(ctx, "bob@x.com", "bob@x.com"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for self add, got %v", err)
	}
	if _, err := service.AddUserToChat(ctx, "bob@x.com", ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without caller, got %v", err)
	}
}

func TestListChatsReturnsOnlyCallerMemberships(t *testing.T) {
	service, chats := seededDirectory(t)
	chats.chats = []models.Chat{
		{ID: "1", Name: "bob", Email: "bob@x.com", User: "ann@x.com"},
		{ID: "2", Name: "ann", Email: "ann@x.com", User: "bob@x.com"},
		{ID: "3", Name: "cy", Email: "cy@x.com", User: "ann@x.com"},
	}

	list, err := service.ListChats(context.Background(), "ann@x.com")
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(list) != 2 || list[0].ID != "1" || list[1].ID != "3" {
		t.Fatalf("unexpected chats: %+v", list)
	}
}

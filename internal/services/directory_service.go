package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/internal/repository"
)

type userLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type chatStore interface {
	CreateOrGet(ctx context.Context, chat *models.Chat) (*models.Chat, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Chat, error)
}

type DirectoryService struct {
	users userLookup
	chats chatStore
}

func NewDirectoryService(users userLookup, chats chatStore) *DirectoryService {
	return &DirectoryService{users: users, chats: chats}
}

// AddUserToChat adds the user registered under email to callerID's chat
// list. Repeated calls return the existing membership.
func (s *DirectoryService) AddUserToChat(ctx context.Context, email string, callerID string) (*models.Chat, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if normalized == callerID {
		return nil, validationError("cannot add yourself to a chat")
	}

	target, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	chat, err := s.chats.CreateOrGet(ctx, &models.Chat{
		Name:   target.Name,
		Email:  target.Email,
		User:   callerID,
		Avatar: models.AvatarFor(target.Name),
		Unread: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

func (s *DirectoryService) ListChats(ctx context.Context, callerID string) ([]models.Chat, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	chats, err := s.chats.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return chats, nil
}

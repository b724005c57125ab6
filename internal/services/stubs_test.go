package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/internal/repository"
)

type memoryUserStore struct {
	users map[string]models.User
	err   error
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]models.User)}
}

func (s *memoryUserStore) CreateUser(_ context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	key := strings.ToLower(user.Email)
	if _, exists := s.users[key]; exists {
		return repository.ErrDuplicate
	}
	user.ID = strconv.Itoa(len(s.users) + 1)
	s.users[key] = *user
	return nil
}

func (s *memoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

type memoryChatStore struct {
	chats []models.Chat
	err   error
}

func (s *memoryChatStore) CreateOrGet(_ context.Context, chat *models.Chat) (*models.Chat, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, existing := range s.chats {
		if existing.User == chat.User && existing.Email == chat.Email {
			found := existing
			return &found, nil
		}
	}
	created := *chat
	created.ID = strconv.Itoa(len(s.chats) + 1)
	s.chats = append(s.chats, created)
	return &created, nil
}

func (s *memoryChatStore) ListByOwner(_ context.Context, owner string) ([]models.Chat, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]models.Chat, 0)
	for _, chat := range s.chats {
		if chat.User == owner {
			result = append(result, chat)
		}
	}
	return result, nil
}

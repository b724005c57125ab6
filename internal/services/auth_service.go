package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/internal/repository"
	"github.com/saeid-a/ChatAppBack/pkg/utils"
)

type userStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthService struct {
	users    userStore
	secret   string
	tokenTTL time.Duration
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.PublicUser
}

func NewAuthService(users userStore, secret string) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		tokenTTL: utils.TokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, validationError("password is required")
	}

	salt, err := utils.NewSalt()
	if err != nil {
		return nil, err
	}
	digest, err := utils.HashPassword(input.Password, salt)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Salt:         salt,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login returns ErrNotFound for an unknown email and ErrInvalidCredentials
// for a wrong password. Callers must not reveal which one happened.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !utils.CheckPassword(password, user.Salt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateTokenWithTTL(user.Email, user.Name, s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokenTTL),
		User:      user.Public(),
	}, nil
}

func (s *AuthService) VerifyToken(token string) (*utils.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	claims, err := utils.ValidateToken(token, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func normalizeEmail(raw string) (string, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", validationError("invalid email format")
	}
	return strings.ToLower(parsed.Address), nil
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/saeid-a/ChatAppBack/pkg/utils"
)

func TestRegisterThenLoginReturnsPublicProfile(t *testing.T) {
	ctx := context.Background()
	service := NewAuthService(newMemoryUserStore(), "test-secret")

	if _, err := service.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	result, err := service.Login(ctx, "ann@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.User.Name != "Ann" || result.User.Email != "ann@x.com" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}

	_, err = service.Login(ctx, "ann@x.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterStoresDigestNotPassword(t *testing.T) {
	store := newMemoryUserStore()
	service := NewAuthService(store, "test-secret")

	user, err := service.Register(context.Background(), RegisterInput{Name: " Ann ", Email: "Ann@X.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Name != "Ann" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.Email != "ann@x.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}

	stored := store.users["ann@x.com"]
	if stored.PasswordHash == "" || stored.PasswordHash == "pw1" || stored.Salt == "" {
		t.Fatalf("expected salted digest, got hash=%q salt=%q", stored.PasswordHash, stored.Salt)
	}
	if !utils.CheckPassword("pw1", stored.Salt, stored.PasswordHash) {
		t.Fatalf("stored digest does not verify")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	service := NewAuthService(newMemoryUserStore(), "test-secret")

	if _, err := service.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := service.Register(ctx, RegisterInput{Name: "Other Ann", Email: "ANN@x.com", Password: "pw2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected duplicate registration to be a validation failure, got %s", KindOf(err))
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	service := NewAuthService(newMemoryUserStore(), "test-secret")
	cases := []RegisterInput{
		{Name: "", Email: "ann@x.com", Password: "pw1"},
		{Name: "Ann", Email: "not-an-email", Password: "pw1"},
		{Name: "Ann", Email: "ann@x.com", Password: ""},
	}

	for _, input := range cases {
		_, err := service.Register(context.Background(), input)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("input %+v: expected ErrValidation, got %v", input, err)
		}
	}
}

func TestLoginUnknownEmailIsNotFound(t *testing.T) {
	service := NewAuthService(newMemoryUserStore(), "test-secret")

	_, err := service.Login(context.Background(), "ghost@x.com", "pw1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoginPropagatesStoreFailureAsUnknown(t *testing.T) {
	store := newMemoryUserStore()
	store.err = errors.New("connection reset")
	service := NewAuthService(store, "test-secret")

	_, err := service.Login(context.Background(), "ann@x.com", "pw1")
	if KindOf(err) != KindUnknown {
		t.Fatalf("expected Unknown kind, got %s (%v)", KindOf(err), err)
	}
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	service := NewAuthService(newMemoryUserStore(), "test-secret")
	if _, err := service.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "pw1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	result, err := service.Login(ctx, "ann@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := service.VerifyToken(result.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Email != "ann@x.com" || claims.Name != "Ann" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyTokenRejectsForeignAndEmptyTokens(t *testing.T) {
	service := NewAuthService(newMemoryUserStore(), "test-secret")

	foreign, err := utils.GenerateToken("ann@x.com", "Ann", "other-secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	for _, token := range []string{"", "not.a.token", foreign} {
		if _, err := service.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestKindOfClassifiesTaxonomy(t *testing.T) {
	cases := map[error]ErrorKind{
		ErrNotFound:           KindNotFound,
		ErrInvalidCredentials: KindInvalidCredentials,
		ErrInvalidToken:       KindInvalidToken,
		ErrUnauthorized:       KindUnauthorized,
		ErrEmailTaken:         KindValidation,
		errors.New("boom"):    KindUnknown,
	}
	for err, want := range cases {
		if got := KindOf(err); got != want {
			t.Errorf("KindOf(%v) = %s, want %s", err, got, want)
		}
	}
	if KindOf(nil) != "" {
		t.Errorf("expected nil error to have no kind")
	}
}

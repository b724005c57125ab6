// Package client talks to the chat backend over HTTP on behalf of the
// terminal frontend. The session cookie set by Login is kept in a cookie jar.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/saeid-a/ChatAppBack/internal/models"
)

// APIError is a non-2xx response decoded from its {"error": ...} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

type API struct {
	base *url.URL
	http *http.Client
}

func New(baseURL string) (*API, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &API{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

func (a *API) Register(ctx context.Context, name, email, password string) error {
	return a.do(ctx, http.MethodPost, "/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
}

func (a *API) Login(ctx context.Context, email, password string) (models.PublicUser, error) {
	var out struct {
		User models.PublicUser `json:"user"`
	}
	err := a.do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out.User, err
}

func (a *API) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodGet, "/logout", nil, nil)
}

func (a *API) AuthCheck(ctx context.Context) (models.PublicUser, error) {
	var out struct {
		User models.PublicUser `json:"user"`
	}
	err := a.do(ctx, http.MethodGet, "/auth-check", nil, &out)
	return out.User, err
}

func (a *API) AddToChat(ctx context.Context, email string) (models.Chat, error) {
	var out struct {
		Data models.Chat `json:"data"`
	}
	err := a.do(ctx, http.MethodPost, "/add-to-chat", map[string]string{"email": email}, &out)
	return out.Data, err
}

func (a *API) ListChats(ctx context.Context) ([]models.Chat, error) {
	var out struct {
		Data []models.Chat `json:"data"`
	}
	err := a.do(ctx, http.MethodGet, "/chats", nil, &out)
	return out.Data, err
}

func (a *API) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base.String()+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Error == "" {
			failure.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: failure.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

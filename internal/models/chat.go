package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Chat is a persisted chat membership: a contact the owning user added to
// their chat list.
type Chat struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	User            string     `json:"user"`
	Avatar          string     `json:"avatar"`
	Unread          int        `json:"unread"`
	LastMessage     *string    `json:"lastMessage,omitempty"`
	LastMessageTime *time.Time `json:"lastMessageTime,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AvatarFor returns the upper-cased first letter of name.
func AvatarFor(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(r))
}

package chatstate

import "github.com/saeid-a/ChatAppBack/internal/models"

// ChatFromMembership converts a stored chat membership into a container chat.
func ChatFromMembership(m models.Chat) Chat {
	chat := Chat{
		ID:     m.ID,
		Name:   m.Name,
		Avatar: m.Avatar,
		Email:  m.Email,
		User:   m.User,
		Unread: m.Unread,
	}
	if m.LastMessage != nil {
		chat.LastMessage = *m.LastMessage
	}
	if m.LastMessageTime != nil {
		chat.LastMessageTime = m.LastMessageTime.UnixMilli()
	}
	return chat
}

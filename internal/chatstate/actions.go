package chatstate

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Env supplies the clock and id source used by actions that create messages.
type Env struct {
	Now   func() time.Time
	NewID func() string
}

func DefaultEnv() Env {
	return Env{Now: time.Now, NewID: NewMessageID}
}

// NewMessageID returns a time-ordered (UUIDv7) message id.
func NewMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "msg-" + uuid.NewString()
	}
	return "msg-" + id.String()
}

func (e Env) withDefaults() Env {
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.NewID == nil {
		e.NewID = NewMessageID
	}
	return e
}

// timestampFor reads the clock but never goes below the chat's last message.
func (e Env) timestampFor(s State, chatID string) int64 {
	ts := e.Now().UnixMilli()
	if last := s.lastTimestamp(chatID); last > ts {
		return last
	}
	return ts
}

type Action interface {
	Name() string
	apply(s State, env Env) (State, bool)
}

// Apply runs action against s. The boolean reports whether anything
// changed; invalid actions return s untouched and false.
func Apply(s State, action Action, env Env) (State, bool) {
	if action == nil {
		return s, false
	}
	return action.apply(s, env.withDefaults())
}

func Reduce(s State, action Action, env Env) State {
	next, _ := Apply(s, action, env)
	return next
}

type AddChat struct {
	Chat Chat
}

func (AddChat) Name() string { return "add_chat" }

func (a AddChat) apply(s State, _ Env) (State, bool) {
	if a.Chat.ID == "" || s.indexOf(a.Chat.ID) >= 0 {
		return s, false
	}
	chat := a.Chat
	if chat.Unread < 0 {
		chat.Unread = 0
	}
	s.Chats = append(s.cloneChats(), chat)
	return s, true
}

type SetActiveChat struct {
	ChatID string
}

func (SetActiveChat) Name() string { return "set_active_chat" }

func (a SetActiveChat) apply(s State, _ Env) (State, bool) {
	idx := s.indexOf(a.ChatID)
	if idx < 0 {
		return s, false
	}
	if s.ActiveChatID == a.ChatID && s.Chats[idx].Unread == 0 {
		return s, false
	}
	chats := s.cloneChats()
	chats[idx].Unread = 0
	s.Chats = chats
	s.ActiveChatID = a.ChatID
	return s, true
}

type SendMessage struct {
	ChatID string
	Text   string
	Type   MessageType
}

func (SendMessage) Name() string { return "send_message" }

func (a SendMessage) apply(s State, env Env) (State, bool) {
	msgType := a.Type
	if msgType == "" {
		msgType = TypeText
	}
	if strings.TrimSpace(a.Text) == "" || !msgType.Valid() {
		return s, false
	}
	idx := s.indexOf(a.ChatID)
	if idx < 0 {
		return s, false
	}

	msg := Message{
		ID:        env.NewID(),
		ChatID:    a.ChatID,
		SenderID:  s.CurrentUserID,
		Text:      a.Text,
		Timestamp: env.timestampFor(s, a.ChatID),
		Type:      msgType,
	}

	s = s.withMessage(msg)
	chats := s.cloneChats()
	chats[idx].LastMessage = preview(msg.Text, msg.Type)
	chats[idx].LastMessageTime = msg.Timestamp
	s.Chats = chats
	if _, ok := s.Drafts[a.ChatID]; ok {
		s = s.withDraft(a.ChatID, "")
	}
	return s, true
}

// ReceiveMessage appends a message authored by a counterpart.
type ReceiveMessage struct {
	Message Message
}

func (ReceiveMessage) Name() string { return "receive_message" }

func (a ReceiveMessage) apply(s State, env Env) (State, bool) {
	msg := a.Message
	idx := s.indexOf(msg.ChatID)
	if idx < 0 || msg.SenderID == "" || msg.SenderID == s.CurrentUserID {
		return s, false
	}
	if msg.Type == "" {
		msg.Type = TypeText
	}
	if !msg.Type.Valid() {
		return s, false
	}
	if msg.ID == "" {
		msg.ID = env.NewID()
	} else if _, dup := s.FindMessage(msg.ChatID, msg.ID); dup {
		return s, false
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = env.timestampFor(s, msg.ChatID)
	} else if last := s.lastTimestamp(msg.ChatID); msg.Timestamp < last {
		msg.Timestamp = last
	}

	s = s.withMessage(msg)
	chats := s.cloneChats()
	chats[idx].LastMessage = preview(msg.Text, msg.Type)
	chats[idx].LastMessageTime = msg.Timestamp
	if s.ActiveChatID != msg.ChatID {
		chats[idx].Unread++
	}
	s.Chats = chats
	return s, true
}

// ForwardMessage copies Message into ToChatID as a new outgoing message.
// The original and its chat are left as they were.
type ForwardMessage struct {
	Message  Message
	ToChatID string
}

func (ForwardMessage) Name() string { return "forward_message" }

func (a ForwardMessage) apply(s State, env Env) (State, bool) {
	idx := s.indexOf(a.ToChatID)
	if idx < 0 {
		return s, false
	}
	msgType := a.Message.Type
	if msgType == "" {
		msgType = TypeText
	}
	if !msgType.Valid() {
		return s, false
	}

	source := "Unknown"
	if chat, ok := s.Chat(a.Message.ChatID); ok {
		source = chat.Name
	}

	forwarded := Message{
		ID:            env.NewID(),
		ChatID:        a.ToChatID,
		SenderID:      s.CurrentUserID,
		Text:          a.Message.Text,
		Timestamp:     env.timestampFor(s, a.ToChatID),
		Type:          msgType,
		Forwarded:     true,
		ForwardedFrom: source,
	}

	s = s.withMessage(forwarded)
	chats := s.cloneChats()
	chats[idx].LastMessage = forwardedPreview(forwarded.Text, forwarded.Type)
	chats[idx].LastMessageTime = forwarded.Timestamp
	s.Chats = chats
	return s, true
}

type UpdateDraft struct {
	ChatID string
	Text   string
}

func (UpdateDraft) Name() string { return "update_draft" }

func (a UpdateDraft) apply(s State, _ Env) (State, bool) {
	if s.indexOf(a.ChatID) < 0 {
		return s, false
	}
	current, ok := s.Drafts[a.ChatID]
	if (!ok && a.Text == "") || (ok && current == a.Text) {
		return s, false
	}
	return s.withDraft(a.ChatID, a.Text), true
}

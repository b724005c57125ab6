// Package chatstate holds the in-memory chat container: the chat list, each
// chat's message thread, the active selection and per-chat drafts. State
// only changes through the actions in this package, each of which turns an
// old snapshot into a new one without touching the old.
package chatstate

import (
	"strings"
)

// CurrentUserID is the sender id of every locally authored message.
const CurrentUserID = "me"

type MessageType string

const (
	TypeText  MessageType = "text"
	TypeImage MessageType = "image"
	TypeVideo MessageType = "video"
)

func (t MessageType) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeVideo:
		return true
	default:
		return false
	}
}

type Message struct {
	ID            string      `json:"id"`
	ChatID        string      `json:"chatId"`
	SenderID      string      `json:"senderId"`
	Text          string      `json:"text"`
	Timestamp     int64       `json:"timestamp"`
	Type          MessageType `json:"type"`
	Forwarded     bool        `json:"forwarded,omitempty"`
	ForwardedFrom string      `json:"forwardedFrom,omitempty"`
}

type Chat struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Avatar          string `json:"avatar"`
	Email           string `json:"email"`
	User            string `json:"user"`
	LastMessage     string `json:"lastMessage,omitempty"`
	LastMessageTime int64  `json:"lastMessageTime,omitempty"`
	Unread          int    `json:"unread"`
	Online          bool   `json:"online"`
}

// State is an immutable snapshot. Actions never write into the slices or
// maps of a State they were given.
type State struct {
	Chats         []Chat               `json:"chats"`
	Messages      map[string][]Message `json:"messages"`
	ActiveChatID  string               `json:"activeChatId"`
	CurrentUserID string               `json:"currentUserId"`
	Drafts        map[string]string    `json:"drafts"`
}

func NewState() State {
	return State{
		Chats:         []Chat{},
		Messages:      map[string][]Message{},
		CurrentUserID: CurrentUserID,
		Drafts:        map[string]string{},
	}
}

func (s State) indexOf(chatID string) int {
	if chatID == "" {
		return -1
	}
	for i := range s.Chats {
		if s.Chats[i].ID == chatID {
			return i
		}
	}
	return -1
}

func (s State) Chat(chatID string) (Chat, bool) {
	idx := s.indexOf(chatID)
	if idx < 0 {
		return Chat{}, false
	}
	return s.Chats[idx], true
}

func (s State) ActiveChat() (Chat, bool) {
	return s.Chat(s.ActiveChatID)
}

// MessagesFor returns a copy of the chat's thread in append order.
func (s State) MessagesFor(chatID string) []Message {
	thread := s.Messages[chatID]
	out := make([]Message, len(thread))
	copy(out, thread)
	return out
}

func (s State) FindMessage(chatID, messageID string) (Message, bool) {
	for _, msg := range s.Messages[chatID] {
		if msg.ID == messageID {
			return msg, true
		}
	}
	return Message{}, false
}

func (s State) Draft(chatID string) string {
	return s.Drafts[chatID]
}

func (s State) TotalUnread() int {
	total := 0
	for _, chat := range s.Chats {
		total += chat.Unread
	}
	return total
}

// SearchChats filters the chat list by a case-insensitive name match.
func (s State) SearchChats(query string) []Chat {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]Chat, 0, len(s.Chats))
	for _, chat := range s.Chats {
		if needle == "" || strings.Contains(strings.ToLower(chat.Name), needle) {
			out = append(out, chat)
		}
	}
	return out
}

func (s State) lastTimestamp(chatID string) int64 {
	thread := s.Messages[chatID]
	if len(thread) == 0 {
		return 0
	}
	return thread[len(thread)-1].Timestamp
}

func (s State) cloneChats() []Chat {
	chats := make([]Chat, len(s.Chats))
	copy(chats, s.Chats)
	return chats
}

func (s State) withMessage(msg Message) State {
	old := s.Messages[msg.ChatID]
	thread := make([]Message, len(old), len(old)+1)
	copy(thread, old)
	thread = append(thread, msg)

	messages := make(map[string][]Message, len(s.Messages)+1)
	for id, msgs := range s.Messages {
		messages[id] = msgs
	}
	messages[msg.ChatID] = thread
	s.Messages = messages
	return s
}

func (s State) withDraft(chatID, text string) State {
	drafts := make(map[string]string, len(s.Drafts)+1)
	for id, draft := range s.Drafts {
		drafts[id] = draft
	}
	if text == "" {
		delete(drafts, chatID)
	} else {
		drafts[chatID] = text
	}
	s.Drafts = drafts
	return s
}

func preview(text string, msgType MessageType) string {
	if msgType == TypeText {
		return text
	}
	return "📎 " + string(msgType)
}

func forwardedPreview(text string, msgType MessageType) string {
	if msgType == TypeText {
		return "↗️ Forwarded: " + text
	}
	return "↗️ Forwarded: " + string(msgType)
}

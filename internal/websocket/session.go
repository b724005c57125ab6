package chatws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/saeid-a/ChatAppBack/internal/chatstate"
	"github.com/saeid-a/ChatAppBack/internal/metrics"
	"github.com/saeid-a/ChatAppBack/internal/models"
	"github.com/saeid-a/ChatAppBack/internal/services"
)

type directory interface {
	AddUserToChat(ctx context.Context, email string, callerID string) (*models.Chat, error)
	ListChats(ctx context.Context, callerID string) ([]models.Chat, error)
}

// Command is a client request on a live session.
type Command struct {
	Type        string `json:"type"`
	ChatID      string `json:"chatId,omitempty"`
	Text        string `json:"text,omitempty"`
	MessageType string `json:"messageType,omitempty"`
	MessageID   string `json:"messageId,omitempty"`
	FromChatID  string `json:"fromChatId,omitempty"`
	ToChatID    string `json:"toChatId,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Frame is pushed to the client after each transition or failed command.
type Frame struct {
	Type  string           `json:"type"`
	State *chatstate.State `json:"state,omitempty"`
	Error string           `json:"error,omitempty"`
}

type SessionOptions struct {
	Env        chatstate.Env
	DraftDelay time.Duration
	Replies    []chatstate.ReplyOption
}

var errBadCommand = errors.New("bad command")

// Session is the chat container of one connection. It lives as long as the
// connection and is discarded with it.
type Session struct {
	owner     models.PublicUser
	directory directory
	emit      func([]byte) bool

	store       *chatstate.Store
	scheduler   *chatstate.Scheduler
	replies     *chatstate.ReplySimulator
	drafts      *chatstate.DraftDebouncer
	unsubscribe func()
}

// NewSession seeds a container with owner's chat memberships and starts its
// reply and draft timers. emit receives every outbound frame.
func NewSession(ctx context.Context, owner models.PublicUser, dir directory, emit func([]byte) bool, opts SessionOptions) (*Session, error) {
	memberships, err := dir.ListChats(ctx, owner.Email)
	if err != nil {
		return nil, fmt.Errorf("load chats: %w", err)
	}

	initial := chatstate.NewState()
	for _, chat := range memberships {
		initial = chatstate.Reduce(initial, chatstate.AddChat{Chat: chatstate.ChatFromMembership(chat)}, opts.Env)
	}

	store := chatstate.NewStoreWithState(initial, opts.Env)
	scheduler := chatstate.NewScheduler()
	s := &Session{
		owner:     owner,
		directory: dir,
		emit:      emit,
		store:     store,
		scheduler: scheduler,
		replies:   chatstate.NewReplySimulator(store, scheduler, opts.Replies...),
		drafts:    chatstate.NewDraftDebouncer(store, scheduler, opts.DraftDelay),
	}
	s.unsubscribe = store.Subscribe(s.onTransition)
	s.replies.Start()
	s.drafts.Start()
	return s, nil
}

func (s *Session) Snapshot() chatstate.State {
	return s.store.Snapshot()
}

// SendState pushes the current snapshot.
func (s *Session) SendState() {
	s.push(Frame{Type: "state", State: ptr(s.store.Snapshot())})
}

// Handle decodes and runs one client command. Failures are reported to the
// client as error frames and never end the session.
func (s *Session) Handle(ctx context.Context, payload []byte) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		s.fail("invalid command payload")
		return
	}
	if err := s.Execute(ctx, cmd); err != nil {
		s.fail(err.Error())
	}
}

func (s *Session) Execute(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case "state":
		s.SendState()
	case "select":
		s.store.Dispatch(chatstate.SetActiveChat{ChatID: cmd.ChatID})
	case "send":
		s.drafts.Cancel(cmd.ChatID)
		s.store.Dispatch(chatstate.SendMessage{
			ChatID: cmd.ChatID,
			Text:   strings.TrimSpace(cmd.Text),
			Type:   chatstate.MessageType(cmd.MessageType),
		})
	case "forward":
		msg, ok := s.store.Snapshot().FindMessage(cmd.FromChatID, cmd.MessageID)
		if !ok {
			return fmt.Errorf("%w: message not found", errBadCommand)
		}
		s.store.Dispatch(chatstate.ForwardMessage{Message: msg, ToChatID: cmd.ToChatID})
	case "draft":
		s.drafts.Edit(cmd.ChatID, cmd.Text)
	case "add_chat":
		return s.addChat(ctx, cmd.Email)
	default:
		return fmt.Errorf("%w: unsupported command %q", errBadCommand, cmd.Type)
	}
	return nil
}

func (s *Session) addChat(ctx context.Context, email string) error {
	chat, err := s.directory.AddUserToChat(ctx, strings.TrimSpace(email), s.owner.Email)
	if err != nil {
		switch services.KindOf(err) {
		case services.KindNotFound:
			return errors.New("User not found")
		case services.KindValidation:
			return errors.New(services.Detail(err))
		default:
			log.Printf("chat session add_chat for %s: %v", s.owner.Email, err)
			return errors.New("Failed to add user to chat")
		}
	}

	// Already listed: AddChat would be a no-op and push nothing.
	if _, ok := s.store.Snapshot().Chat(chat.ID); ok {
		s.SendState()
		return nil
	}
	s.store.Dispatch(chatstate.AddChat{Chat: chatstate.ChatFromMembership(*chat)})
	return nil
}

// Close stops the session's timers. Pending replies and drafts are dropped.
func (s *Session) Close() {
	s.replies.Stop()
	s.drafts.Stop()
	s.scheduler.Stop()
	s.unsubscribe()
}

func (s *Session) onTransition(state chatstate.State, action chatstate.Action) {
	metrics.ChatTransitionsTotal.WithLabelValues(action.Name()).Inc()
	s.push(Frame{Type: "state", State: &state})
}

func (s *Session) fail(message string) {
	s.push(Frame{Type: "error", Error: message})
}

func (s *Session) push(frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("chat session encode frame: %v", err)
		return
	}
	s.emit(payload)
}

func ptr[T any](v T) *T {
	return &v
}

package chatstate

import (
	"math/rand/v2"
	"sync"
	"time"
)

var cannedReplies = []string{
	"That's interesting! Tell me more.",
	"I totally agree with you on that.",
	"Haha, nice one! 😄",
	"Let me think about that...",
	"Sounds like a plan! 🎉",
	"Got it, thanks for letting me know.",
	"I'll get back to you on that.",
	"That's awesome!",
}

const (
	defaultReplyDelay  = 1500 * time.Millisecond
	defaultReplyJitter = 1000 * time.Millisecond
)

type ReplyOption func(*ReplySimulator)

func WithReplyDelay(base, jitter time.Duration) ReplyOption {
	return func(r *ReplySimulator) {
		r.baseDelay = base
		r.jitter = jitter
	}
}

func WithReplyPicker(pick func(n int) int) ReplyOption {
	return func(r *ReplySimulator) {
		r.pick = pick
	}
}

// ReplySimulator answers the active chat's counterpart after the local user
// sends. The pending reply is rescheduled whenever the watched chat's
// message count changes and dropped when the active chat changes.
type ReplySimulator struct {
	store     *Store
	scheduler *Scheduler
	baseDelay time.Duration
	jitter    time.Duration
	pick      func(n int) int

	mu           sync.Mutex
	watchedChat  string
	watchedCount int
	unsubscribe  func()
}

func NewReplySimulator(store *Store, scheduler *Scheduler, opts ...ReplyOption) *ReplySimulator {
	r := &ReplySimulator{
		store:     store,
		scheduler: scheduler,
		baseDelay: defaultReplyDelay,
		jitter:    defaultReplyJitter,
		pick:      rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ReplySimulator) Start() {
	r.mu.Lock()
	if r.unsubscribe != nil {
		r.mu.Unlock()
		return
	}
	r.unsubscribe = r.store.Subscribe(r.observe)
	r.mu.Unlock()

	r.observe(r.store.Snapshot(), nil)
}

func (r *ReplySimulator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	if r.watchedChat != "" {
		r.scheduler.Cancel(replyKey(r.watchedChat))
	}
}

func (r *ReplySimulator) observe(state State, _ Action) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chatID := state.ActiveChatID
	thread := state.Messages[chatID]
	if chatID == r.watchedChat && len(thread) == r.watchedCount {
		return
	}

	if r.watchedChat != "" {
		r.scheduler.Cancel(replyKey(r.watchedChat))
	}
	r.watchedChat = chatID
	r.watchedCount = len(thread)

	if chatID == "" || len(thread) == 0 {
		return
	}
	if thread[len(thread)-1].SenderID != state.CurrentUserID {
		return
	}

	text := cannedReplies[r.pick(len(cannedReplies))]
	r.scheduler.Schedule(replyKey(chatID), r.delay(), func() {
		r.store.Dispatch(ReceiveMessage{Message: Message{
			ChatID:   chatID,
			SenderID: chatID,
			Text:     text,
			Type:     TypeText,
		}})
	})
}

func (r *ReplySimulator) delay() time.Duration {
	if r.jitter <= 0 {
		return r.baseDelay
	}
	return r.baseDelay + rand.N(r.jitter)
}

func replyKey(chatID string) string {
	return "reply:" + chatID
}

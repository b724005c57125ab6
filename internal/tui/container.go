package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saeid-a/ChatAppBack/internal/chatstate"
	"github.com/saeid-a/ChatAppBack/internal/models"
)

// stateChangedMsg tells the model to re-read the store. Timers fire off the
// program goroutine, so the store is never read from the message itself.
type stateChangedMsg struct{}

// container owns the chat state of a logged in terminal session.
type container struct {
	store     *chatstate.Store
	scheduler *chatstate.Scheduler
	replies   *chatstate.ReplySimulator
	drafts    *chatstate.DraftDebouncer
	changes   chan struct{}
	done      chan struct{}
	unsub     func()
}

func newContainer(memberships []models.Chat, opts Options) *container {
	initial := chatstate.NewState()
	for _, m := range memberships {
		initial = chatstate.Reduce(initial, chatstate.AddChat{Chat: chatstate.ChatFromMembership(m)}, opts.Env)
	}

	store := chatstate.NewStoreWithState(initial, opts.Env)
	scheduler := chatstate.NewScheduler()
	c := &container{
		store:     store,
		scheduler: scheduler,
		replies:   chatstate.NewReplySimulator(store, scheduler, opts.Replies...),
		drafts:    chatstate.NewDraftDebouncer(store, scheduler, opts.DraftDelay),
		changes:   make(chan struct{}, 8),
		done:      make(chan struct{}),
	}
	c.unsub = store.Subscribe(func(chatstate.State, chatstate.Action) {
		select {
		case c.changes <- struct{}{}:
		default:
		}
	})
	c.replies.Start()
	c.drafts.Start()
	return c
}

func (c *container) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-c.changes:
			return stateChangedMsg{}
		case <-c.done:
			return nil
		}
	}
}

func (c *container) close() {
	c.unsub()
	c.replies.Stop()
	c.drafts.Stop()
	c.scheduler.Stop()
	close(c.done)
}

// Options tune the local container.
type Options struct {
	Env        chatstate.Env
	DraftDelay time.Duration
	Replies    []chatstate.ReplyOption
}

package chatstate

import (
	"sync"
	"time"
)

const DefaultDraftDelay = 300 * time.Millisecond

// DraftDebouncer coalesces rapid edits of a chat's input into a single
// UpdateDraft. A pending write is dropped when the active chat changes.
type DraftDebouncer struct {
	store     *Store
	scheduler *Scheduler
	delay     time.Duration

	mu          sync.Mutex
	activeChat  string
	unsubscribe func()
}

func NewDraftDebouncer(store *Store, scheduler *Scheduler, delay time.Duration) *DraftDebouncer {
	if delay <= 0 {
		delay = DefaultDraftDelay
	}
	return &DraftDebouncer{
		store:      store,
		scheduler:  scheduler,
		delay:      delay,
		activeChat: store.Snapshot().ActiveChatID,
	}
}

func (d *DraftDebouncer) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unsubscribe == nil {
		d.unsubscribe = d.store.Subscribe(d.observe)
	}
}

func (d *DraftDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
	if d.activeChat != "" {
		d.scheduler.Cancel(draftKey(d.activeChat))
	}
}

// Edit records the latest input text for chatID; only the last edit inside
// the debounce window is written.
func (d *DraftDebouncer) Edit(chatID, text string) {
	d.scheduler.Schedule(draftKey(chatID), d.delay, func() {
		d.store.Dispatch(UpdateDraft{ChatID: chatID, Text: text})
	})
}

func (d *DraftDebouncer) Cancel(chatID string) {
	d.scheduler.Cancel(draftKey(chatID))
}

func (d *DraftDebouncer) observe(state State, _ Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if state.ActiveChatID == d.activeChat {
		return
	}
	if d.activeChat != "" {
		d.scheduler.Cancel(draftKey(d.activeChat))
	}
	d.activeChat = state.ActiveChatID
}

func draftKey(chatID string) string {
	return "draft:" + chatID
}

package chatstate

import "sync"

// Listener observes a completed transition. It runs on the dispatching
// goroutine and must not call Dispatch itself.
type Listener func(state State, action Action)

type listenerEntry struct {
	id int
	fn Listener
}

// Store owns one container for the lifetime of a session. Dispatches are
// serialized and every listener sees transitions in the order they ran.
type Store struct {
	dispatchMu sync.Mutex

	mu        sync.Mutex
	state     State
	env       Env
	listeners []listenerEntry
	nextID    int
}

func NewStore(env Env) *Store {
	return NewStoreWithState(NewState(), env)
}

func NewStoreWithState(initial State, env Env) *Store {
	return &Store{state: initial, env: env.withDefaults()}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action and returns the resulting snapshot. Listeners are
// only called when the action changed something.
func (s *Store) Dispatch(action Action) State {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	next, changed := Apply(s.state, action, s.env)
	s.state = next
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if changed {
		for _, entry := range listeners {
			entry.fn(next, action)
		}
	}
	return next
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

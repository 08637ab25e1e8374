package session

import (
	"sync"
	"time"

	"github.com/stratosedge/portal/core/application"
)

type entry struct {
	state State
	seq   uint64 // sequence of the latest session event seen
	flow  *application.Flow
}

// Store holds the state of every live session, keyed by session ID.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*entry
	autoClose time.Duration
}

// NewStore returns an empty store. autoClose is the delay after which
// a successful application closes by itself.
func NewStore(autoClose time.Duration) *Store {
	return &Store{entries: make(map[string]*entry), autoClose: autoClose}
}

// Get returns a copy of the session's state.
func (s *Store) Get(id string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return State{}, false
	}
	return e.state.Clone(), true
}

// getOrCreate returns the entry of id. Caller holds the lock.
func (s *Store) getOrCreate(id string) *entry {
	e, ok := s.entries[id]
	if !ok {
		e = &entry{state: Initial()}
		s.entries[id] = e
	}
	return e
}

// reduce applies intents to e. Caller holds the lock.
func reduce(e *entry, intents []Intent) State {
	st := e.state.Clone()
	for _, i := range intents {
		st = i.apply(st)
	}
	e.state = st
	return st.Clone()
}

// Dispatch applies intents in order to the session's state, creating it if needed.
func (s *Store) Dispatch(id string, intents ...Intent) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reduce(s.getOrCreate(id), intents)
}

// Apply is Dispatch for sessions that already exist. It reports whether the session was found.
func (s *Store) Apply(id string, intents ...Intent) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return State{}, false
	}
	return reduce(e, intents), true
}

// observe records seq as the latest event of the session.
// It returns false when a later event was already seen.
func (s *Store) observe(id string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.getOrCreate(id)
	if seq < e.seq {
		return false
	}
	e.seq = seq
	return true
}

// dispatchIfCurrent applies intents only if seq is still the latest event of the session.
func (s *Store) dispatchIfCurrent(id string, seq uint64, intents ...Intent) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.seq != seq {
		return State{}, false
	}
	return reduce(e, intents), true
}

// Clear forgets the session. A pending auto-close is cancelled.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if ok && e.flow != nil {
		e.flow.Stop()
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Flow returns the application flow of the session, creating both if needed.
func (s *Store) Flow(id string) *application.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.getOrCreate(id)
	if e.flow == nil {
		e.flow = application.NewFlow(s.autoClose, func() {
			s.Apply(id, closeApplication{})
		})
	}
	return e.flow
}

package account

import (
	"sync"
	"sync/atomic"
)

type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed-in"
	case SignedOut:
		return "signed-out"
	default:
		return "unknown"
	}
}

// Event is a session change. Seq increases with every published event,
// so consumers can tell which of two events for the same session is the latest.
type Event struct {
	Kind    EventKind
	Session Session
	Seq     uint64
}

// Subscription delivers session events until Unsubscribe is called.
type Subscription struct {
	id     int
	ch     chan Event
	done   chan struct{}
	once   sync.Once
	broker *broker
}

// Events is closed once the subscription ends.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Unsubscribe stops the delivery of events. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		s.broker.remove(s.id)
	})
}

type broker struct {
	mu     sync.Mutex
	seq    atomic.Uint64
	nextID int
	subs   map[int]*Subscription
}

func newBroker() *broker {
	return &broker{subs: make(map[int]*Subscription)}
}

func (b *broker) subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		ch:     make(chan Event, 64),
		done:   make(chan struct{}),
		broker: b,
	}
	b.subs[sub.id] = sub
	return sub
}

func (b *broker) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// publish blocks until every live subscriber took the event.
func (b *broker) publish(kind EventKind, sess Session) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ev := Event{Kind: kind, Session: sess, Seq: b.seq.Add(1)}
	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		case <-sub.done:
		}
	}
	return ev
}

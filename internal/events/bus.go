package events

import (
	"sync"
)

// Kind identifies which entity sets a refresh event touches.
type Kind string

const (
	KindBoards Kind = "boards"
	KindTasks  Kind = "tasks"
	KindBoth   Kind = "both"
)

// Event tells subscribed views that remote state changed and which lists
// they should re-read.
type Event struct {
	Kind Kind `json:"kind"`
}

// Bus is an in-process publish-subscribe channel for refresh events. It
// replaces the storage-event side channel the web views used to listen on.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener and returns its event channel along with a
// cancel function. The channel is closed on cancel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking; a
// subscriber that has fallen behind misses the event and catches up on its
// next refresh.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

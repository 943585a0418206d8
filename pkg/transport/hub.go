package transport

import (
	"fmt"
	"sync"

	"github.com/coreseekdev/stilus/pkg/delta"
	"github.com/coreseekdev/stilus/pkg/document"
)

// Hub fans a document's committed operation lists out to subscribers.
// It registers an AfterApply handler on the document, so both raw Apply
// calls and transaction commits are relayed.
//
// Subscribers receive on a buffered channel; a subscriber that falls
// behind has messages dropped rather than blocking the committer.
type Hub struct {
	mu       sync.RWMutex
	doc      *document.Document
	handler  string
	revision int64
	subs     map[string]chan *Message
	closed   bool
}

// NewHub wires a hub to a document.
func NewHub(doc *document.Document) *Hub {
	h := &Hub{
		doc:  doc,
		subs: make(map[string]chan *Message),
	}
	h.handler = doc.On(document.AfterApply, func(ctx *document.Context) error {
		h.broadcast(ctx.Ops)
		return nil
	})
	return h
}

// Subscribe registers a subscriber and returns its session id and
// channel. The first message on the channel is a snapshot of the
// document as it stands.
func (h *Hub) Subscribe(buffer int) (string, <-chan *Message) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan *Message, buffer)
	id := newSessionID()

	h.mu.Lock()
	h.subs[id] = ch
	snap := NewMessage(MessageTypeSnapshot, h.doc.ID())
	snap.SessionID = id
	snap.Revision = h.revision
	snap.Delta = delta.CloneDelta(h.doc.Delta())
	// Sent under the lock so no broadcast can reach the channel first.
	ch <- snap
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Submit applies an operation list received from a subscriber. The
// resulting AfterApply broadcast carries it to every other subscriber.
func (h *Hub) Submit(from string, ops delta.Ops) error {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return fmt.Errorf("hub is closed")
	}
	return h.doc.Apply(ops)
}

// Revision returns the number of operation lists applied so far.
func (h *Hub) Revision() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.revision
}

// Close detaches the hub from the document and closes all subscriber
// channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.doc.Notifier().Off(h.handler)
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Hub) broadcast(ops delta.Ops) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.revision++
	msg := NewMessage(MessageTypeRemoteOperation, h.doc.ID())
	msg.Revision = h.revision
	msg.Ops = ops
	for _, ch := range h.subs {
		select {
		case ch <- msg:
		default:
			// Slow subscriber; drop instead of stalling the commit.
		}
	}
}

package document

import (
	"fmt"
	"sync"

	"github.com/coreseekdev/stilus/pkg/delta"
)

// Event identifies a document lifecycle event.
type Event int

const (
	// BeforeTransaction fires before a transaction's operations commit.
	BeforeTransaction Event = iota
	// AfterTransaction fires after a transaction committed and the
	// selection was remapped.
	AfterTransaction
	// BeforeApply fires before a raw operation list mutates the delta.
	BeforeApply
	// AfterApply fires after the delta was mutated.
	AfterApply
)

// Context carries event details to handlers.
type Context struct {
	Event Event
	Doc   *Document
	Ops   delta.Ops
	Tr    *Transaction // set for transaction events
}

// HandlerFunc observes an event. Returning an error from a "before"
// handler cancels the commit; the delta and selection are untouched
// because they change only after every handler returns cleanly. (Document
// attributes merged by Transaction.Format are merged when Format is
// called, before any handler runs.) Errors from "after" handlers are
// ignored.
type HandlerFunc func(*Context) error

type handler struct {
	id string
	fn HandlerFunc
}

// Notifier dispatches document events to registered handlers. Handlers
// run synchronously on the committing goroutine, in registration order.
type Notifier struct {
	mu       sync.RWMutex
	handlers map[Event][]handler
	nextID   int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{handlers: make(map[Event][]handler)}
}

// On registers a handler for the event and returns a token for Off.
func (n *Notifier) On(ev Event, fn HandlerFunc) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := fmt.Sprintf("handler_%d", n.nextID)
	n.handlers[ev] = append(n.handlers[ev], handler{id: id, fn: fn})
	return id
}

// Off removes a handler by token. Returns false if the token is unknown.
func (n *Notifier) Off(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ev, hs := range n.handlers {
		for i, h := range hs {
			if h.id == id {
				n.handlers[ev] = append(hs[:i], hs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// emit runs all handlers for the event. The first error from a "before"
// event aborts; "after" events never fail.
func (n *Notifier) emit(ctx *Context) error {
	n.mu.RLock()
	hs := make([]handler, len(n.handlers[ctx.Event]))
	copy(hs, n.handlers[ctx.Event])
	n.mu.RUnlock()

	before := ctx.Event == BeforeTransaction || ctx.Event == BeforeApply
	for _, h := range hs {
		if err := h.fn(ctx); err != nil {
			if before {
				return err
			}
		}
	}
	return nil
}

// Package document holds the rich-text document facade: a delta sequence,
// a selection and document-level attributes. The delta changes only by
// applying operation lists, raw or built by transactions.
//
// The document is a local, non-shared mutable structure with no internal
// locking; embedders with concurrent writers must serialize access. All
// mutation is synchronous; the only observable interleaving is around the
// event handlers, which run on the committing goroutine.
package document

import (
	"errors"

	"github.com/google/uuid"

	"github.com/coreseekdev/stilus/pkg/delta"
	"github.com/coreseekdev/stilus/pkg/selection"
	"github.com/coreseekdev/stilus/pkg/text16"
)

// ErrEmptyTransaction is returned by TransactAsync when the transaction
// produced no operations or was cancelled.
var ErrEmptyTransaction = errors.New("transaction has 0 operations")

// Document is a flat, position-indexed rich-text document.
type Document struct {
	id         string
	delta      []delta.Entry
	selection  selection.Selection
	attributes delta.Attributes
	notifier   *Notifier
	scheduler  func(func())
}

// New constructs a document with optional document-level attributes and
// an initial delta sequence.
func New(attrs delta.Attributes, entries ...delta.Entry) *Document {
	return &Document{
		id:         uuid.NewString(),
		delta:      entries,
		attributes: attrs.Clone(),
		notifier:   NewNotifier(),
	}
}

// ID returns the document's identity.
func (d *Document) ID() string {
	return d.id
}

// Length returns the document length in UTF-16 code units.
func (d *Document) Length() int {
	return delta.Length(d.delta)
}

// Delta returns the live delta sequence. Callers must treat it as
// read-only; mutate through Apply or Transact.
func (d *Document) Delta() []delta.Entry {
	return d.delta
}

// Selection returns the current selection.
func (d *Document) Selection() selection.Selection {
	return d.selection
}

// SetSelection moves the selection without touching the delta.
func (d *Document) SetSelection(sel selection.Selection) {
	d.selection = sel
}

// Attributes returns the document-level attribute map.
func (d *Document) Attributes() delta.Attributes {
	return d.attributes
}

// Notifier exposes event registration.
func (d *Document) Notifier() *Notifier {
	return d.notifier
}

// On registers an event handler; shorthand for Notifier().On.
func (d *Document) On(ev Event, fn HandlerFunc) string {
	return d.notifier.On(ev, fn)
}

// SetScheduler installs the tick function used by TransactAsync to defer
// commits. The default runs the commit immediately.
func (d *Document) SetScheduler(tick func(func())) {
	d.scheduler = tick
}

// entryAt locates the entry covering pos. Returns its index and the
// absolute position where it begins.
func (d *Document) entryAt(pos int) (int, int, bool) {
	if pos < 0 {
		return 0, 0, false
	}
	start := 0
	for i, e := range d.delta {
		l := e.Length()
		if pos < start+l {
			return i, start, true
		}
		start += l
	}
	return 0, 0, false
}

// DeltaAt returns the entry covering pos, or nil past the end.
func (d *Document) DeltaAt(pos int) *delta.Entry {
	i, _, ok := d.entryAt(pos)
	if !ok {
		return nil
	}
	return &d.delta[i]
}

// FetchAt returns the single unit at pos: for a block marker the entry
// itself, for a text run the grapheme cluster covering pos (possibly
// multiple code units) with the run's attributes.
func (d *Document) FetchAt(pos int) (delta.Entry, bool) {
	i, start, ok := d.entryAt(pos)
	if !ok {
		return delta.Entry{}, false
	}
	e := d.delta[i]
	if e.IsBlock() {
		return e, true
	}
	g, ok := text16.GraphemeAt(e.Text, pos-start)
	if !ok {
		return delta.Entry{}, false
	}
	return delta.Entry{Text: g.Text, Attributes: e.Attributes}, true
}

// Apply folds a raw operation list into the delta, emitting BeforeApply
// and AfterApply. The selection is not remapped; Transact does that.
func (d *Document) Apply(ops delta.Ops) error {
	if err := ops.Validate(); err != nil {
		return err
	}
	if err := d.notifier.emit(&Context{Event: BeforeApply, Doc: d, Ops: ops}); err != nil {
		return err
	}
	d.delta = delta.Apply(d.delta, ops)
	_ = d.notifier.emit(&Context{Event: AfterApply, Doc: d, Ops: ops})
	return nil
}

// Transact runs fn against a fresh transaction. If fn returns true or
// emitted no operations the transaction is discarded. Otherwise the
// operations commit atomically and the selection is remapped.
//
// BeforeTransaction/AfterTransaction fire around the commit unless a
// callback is supplied, in which case cb(doc, tr) runs after the commit
// instead of the events.
func (d *Document) Transact(fn func(*Transaction) bool, cb ...func(*Document, *Transaction)) error {
	tr := newTransaction(d)
	cancelled := fn(tr)
	if tr.err != nil {
		return tr.err
	}
	if cancelled || len(tr.ops) == 0 {
		return nil
	}
	var after func(*Document, *Transaction)
	if len(cb) > 0 {
		after = cb[0]
	}
	return d.commit(tr, after)
}

// TransactAsync builds the transaction immediately and defers the commit
// through the document's scheduler. A cancelled or empty transaction is
// an error for the async variant.
func (d *Document) TransactAsync(fn func(*Transaction) bool) error {
	tr := newTransaction(d)
	cancelled := fn(tr)
	if tr.err != nil {
		return tr.err
	}
	if cancelled || len(tr.ops) == 0 {
		return ErrEmptyTransaction
	}
	tick := d.scheduler
	if tick == nil {
		tick = func(f func()) { f() }
	}
	tick(func() { _ = d.commit(tr, nil) })
	return nil
}

// TransactSimulate runs the transaction against a deep clone and returns
// the clone; the receiver is never mutated.
func (d *Document) TransactSimulate(fn func(*Transaction) bool) (*Document, error) {
	clone := d.Clone()
	if err := clone.Transact(fn); err != nil {
		return nil, err
	}
	return clone, nil
}

// Clone deep-copies the document. The clone gets its own identity and a
// fresh notifier.
func (d *Document) Clone() *Document {
	return &Document{
		id:         uuid.NewString(),
		delta:      delta.CloneDelta(d.delta),
		selection:  d.selection,
		attributes: d.attributes.Clone(),
		notifier:   NewNotifier(),
		scheduler:  d.scheduler,
	}
}

// commit applies the transaction's operations and remaps the selection.
func (d *Document) commit(tr *Transaction, cb func(*Document, *Transaction)) error {
	ops := delta.Ops(tr.ops)
	if cb == nil {
		if err := d.notifier.emit(&Context{Event: BeforeTransaction, Doc: d, Ops: ops, Tr: tr}); err != nil {
			return err
		}
	}
	if err := d.Apply(ops); err != nil {
		return err
	}
	d.selection = selection.New(
		d.remap(ops, d.selection.Start.X, tr.hasBlockAtFront),
		d.remap(ops, d.selection.End.X, tr.hasBlockAtFront),
	)
	if cb != nil {
		cb(d, tr)
	} else {
		_ = d.notifier.emit(&Context{Event: AfterTransaction, Doc: d, Ops: ops, Tr: tr})
	}
	return nil
}

// remap translates a pre-commit offset into post-commit coordinates and
// clamps it into the document.
func (d *Document) remap(ops delta.Ops, pos int, blockAtFront bool) int {
	pos = remapPosition(ops, pos)
	if pos == 0 && blockAtFront {
		// The prepended paragraph: park the caret after the marker.
		pos = 1
	}
	if pos < 0 {
		pos = 0
	}
	if l := d.Length(); pos > l {
		pos = l
	}
	return pos
}

package document

import (
	"fmt"

	"github.com/coreseekdev/stilus/pkg/delta"
	"github.com/coreseekdev/stilus/pkg/text16"
)

// Transaction accumulates operations against a document. A local cursor,
// initialized to the leftmost selection endpoint, decides where each
// operation lands;
// all emitted positions are relative to the delta as it stood when the
// transaction opened.
//
// Builder methods chain. A transaction lives only for the duration of one
// Transact call and commits atomically on return.
type Transaction struct {
	doc             *Document
	cursor          int
	covered         int // stream position the emitted ops reach
	ops             []delta.Op
	hasBlockAtFront bool
	selectionUsed   bool
	err             error
}

func newTransaction(d *Document) *Transaction {
	return &Transaction{doc: d, cursor: d.selection.FromX()}
}

// Ops returns the operations emitted so far.
func (tr *Transaction) Ops() delta.Ops {
	return delta.Ops(tr.ops)
}

// Cursor returns the transaction-local cursor.
func (tr *Transaction) Cursor() int {
	return tr.cursor
}

// Err returns the first builder error, if any. A failed transaction never
// commits.
func (tr *Transaction) Err() error {
	return tr.err
}

func (tr *Transaction) fail(err error) {
	if tr.err == nil {
		tr.err = err
	}
}

// retainTo emits the retain that moves the operation stream to position
// at. A target at or before the cursor resets the stream to the start of
// the document first, so positions always read relative to the opening
// delta.
func (tr *Transaction) retainTo(at int) {
	if at <= tr.cursor {
		tr.covered = 0
	}
	if n := at - tr.covered; n > 0 {
		tr.ops = append(tr.ops, delta.Retain{N: n})
	}
	tr.covered = at
	tr.cursor = at
}

// deleteSelection emits the removal of the current selection span when it
// is not collapsed. At most once per transaction.
func (tr *Transaction) deleteSelection() bool {
	sel := tr.doc.selection
	if sel.IsCollapsed() || tr.selectionUsed {
		return false
	}
	tr.retainTo(sel.FromX())
	tr.ops = append(tr.ops, delta.Delete{N: sel.DistanceX()})
	tr.cursor = sel.FromX()
	tr.selectionUsed = true
	return true
}

// prefix performs the delete-or-retain step shared by the positioned
// methods: a live selection is deleted first; otherwise the stream
// retains forward to at.
func (tr *Transaction) prefix(at int) {
	if tr.deleteSelection() {
		return
	}
	tr.retainTo(at)
}

// sync positions the stream for the cursor-relative methods: a live
// selection is deleted; otherwise the first operation of the transaction
// starts at the caret.
func (tr *Transaction) sync() {
	if tr.deleteSelection() {
		return
	}
	if len(tr.ops) == 0 && tr.cursor > 0 {
		tr.ops = append(tr.ops, delta.Retain{N: tr.cursor})
		tr.covered = tr.cursor
	}
}

// Insert inserts text at the cursor, replacing a live selection.
func (tr *Transaction) Insert(s string, attrs delta.Attributes) *Transaction {
	tr.sync()
	tr.ops = append(tr.ops, delta.Insert{Entry: delta.NewText(s, attrs)})
	l := text16.Len(s)
	tr.cursor += l
	tr.covered += l
	return tr
}

// InsertAt inserts text at an absolute position.
func (tr *Transaction) InsertAt(at int, s string, attrs delta.Attributes) *Transaction {
	tr.prefix(at)
	tr.ops = append(tr.ops, delta.Insert{Entry: delta.NewText(s, attrs)})
	l := text16.Len(s)
	tr.cursor += l
	tr.covered += l
	return tr
}

// Block inserts a block marker at the cursor. An empty type means
// paragraph.
func (tr *Transaction) Block(bt delta.BlockType, attrs delta.Attributes) *Transaction {
	if bt == "" {
		bt = delta.BlockParagraph
	}
	tr.sync()
	tr.ops = append(tr.ops, delta.Insert{Entry: delta.NewBlock(bt, attrs)})
	tr.cursor++
	tr.covered++
	return tr
}

// BlockAt inserts a block marker at an absolute position.
func (tr *Transaction) BlockAt(at int, bt delta.BlockType, attrs delta.Attributes) *Transaction {
	if bt == "" {
		bt = delta.BlockParagraph
	}
	tr.prefix(at)
	tr.ops = append(tr.ops, delta.Insert{Entry: delta.NewBlock(bt, attrs)})
	tr.cursor++
	tr.covered++
	return tr
}

// Convert swaps the unit at the cursor for a block marker.
func (tr *Transaction) Convert(bt delta.BlockType, attrs delta.Attributes) *Transaction {
	tr.sync()
	tr.ops = append(tr.ops, delta.Swap{Entry: delta.NewBlock(bt, attrs)})
	tr.cursor++
	tr.covered++
	return tr
}

// ConvertAt swaps the unit at an absolute position for a block marker.
func (tr *Transaction) ConvertAt(at int, bt delta.BlockType, attrs delta.Attributes) *Transaction {
	tr.prefix(at)
	tr.ops = append(tr.ops, delta.Swap{Entry: delta.NewBlock(bt, attrs)})
	tr.cursor++
	tr.covered++
	return tr
}

// Replace swaps the unit at the cursor for text.
func (tr *Transaction) Replace(s string, attrs delta.Attributes) *Transaction {
	tr.sync()
	tr.ops = append(tr.ops, delta.Swap{Entry: delta.NewText(s, attrs)})
	l := text16.Len(s)
	tr.cursor += l
	tr.covered += l
	return tr
}

// ReplaceAt swaps the unit at an absolute position for text.
func (tr *Transaction) ReplaceAt(at int, s string, attrs delta.Attributes) *Transaction {
	tr.prefix(at)
	tr.ops = append(tr.ops, delta.Swap{Entry: delta.NewText(s, attrs)})
	l := text16.Len(s)
	tr.cursor += l
	tr.covered += l
	return tr
}

// Format overlays attributes across the selected span. The attributes are
// also merged into the document-level attribute map. The cursor does not
// move.
func (tr *Transaction) Format(attrs delta.Attributes) *Transaction {
	if attrs == nil {
		attrs = delta.Attributes{}
	}
	sel := tr.doc.selection
	save := tr.cursor
	tr.retainTo(sel.FromX())
	tr.ops = append(tr.ops, delta.Retain{N: sel.DistanceX(), Attributes: attrs})
	tr.covered += sel.DistanceX()
	tr.cursor = save
	tr.doc.attributes = tr.doc.attributes.Merge(attrs)
	return tr
}

// FormatAt overlays attributes across n units starting at an absolute
// position. The cursor does not move.
func (tr *Transaction) FormatAt(at, n int, attrs delta.Attributes) *Transaction {
	if attrs == nil {
		attrs = delta.Attributes{}
	}
	save := tr.cursor
	tr.prefix(at)
	tr.ops = append(tr.ops, delta.Retain{N: n, Attributes: attrs})
	tr.covered += n
	tr.cursor = save
	return tr
}

// Delete removes n units backward from the cursor; a live selection is
// removed instead. With n == 1 the unit behind the cursor is inspected:
// a multi-unit grapheme cluster (an emoji ZWJ sequence, say) disappears
// whole in a single backspace. Larger counts remove exactly n code units.
func (tr *Transaction) Delete(n int) *Transaction {
	if n < 0 {
		tr.fail(fmt.Errorf("%w: delete(%d)", delta.ErrInvalidLength, n))
		return tr
	}
	if tr.deleteSelection() {
		return tr
	}
	if n == 0 {
		return tr
	}
	count := n
	if n == 1 {
		if e, ok := tr.doc.FetchAt(tr.cursor - 1); ok && e.IsText() {
			if l := text16.Len(e.Text); l > 1 {
				count = l
			}
		}
	}
	at := tr.cursor - count
	if at < 0 {
		at = 0
		count = tr.cursor
	}
	if count <= 0 {
		return tr
	}
	tr.retainTo(at)
	tr.ops = append(tr.ops, delta.Delete{N: count})
	tr.cursor = at
	return tr
}

// DeleteSelection removes the current selection span.
func (tr *Transaction) DeleteSelection() *Transaction {
	return tr.Delete(tr.doc.selection.DistanceX())
}

// DeleteAt removes n units forward from an absolute position. The cursor
// does not move.
func (tr *Transaction) DeleteAt(at, n int) *Transaction {
	if n < 0 {
		tr.fail(fmt.Errorf("%w: delete(%d)", delta.ErrInvalidLength, n))
		return tr
	}
	save := tr.cursor
	tr.prefix(at)
	if n > 0 {
		tr.ops = append(tr.ops, delta.Delete{N: n})
	}
	tr.cursor = save
	return tr
}

// Retain advances the cursor over n units it does not alter.
func (tr *Transaction) Retain(n int) *Transaction {
	if n < 0 {
		tr.fail(fmt.Errorf("%w: retain(%d)", delta.ErrInvalidLength, n))
		return tr
	}
	if n > 0 {
		tr.ops = append(tr.ops, delta.Retain{N: n})
		tr.cursor += n
		tr.covered += n
	}
	return tr
}

// Clear removes the whole document. The cursor does not move.
func (tr *Transaction) Clear() *Transaction {
	save := tr.cursor
	tr.retainTo(0)
	tr.ops = append(tr.ops, delta.Delete{N: tr.doc.Length()})
	tr.cursor = save
	return tr
}

// EnsureBlockAtFront guarantees the document opens with a block marker.
// The accumulated operations are simulated against a copy of the delta;
// when the result would start with text (or be empty) a paragraph is
// prepended and the cursor shifts right by one. Reports whether a
// paragraph was added. Selection offsets that resolve to 0 after the
// commit are nudged to 1 so the caret sits after the marker.
func (tr *Transaction) EnsureBlockAtFront() bool {
	tr.hasBlockAtFront = true
	sim := delta.Apply(delta.CloneDelta(tr.doc.delta), delta.Ops(tr.ops))
	if len(sim) != 0 && sim[0].IsBlock() {
		return false
	}
	front := delta.Op(delta.Insert{Entry: delta.NewBlock(delta.BlockParagraph, nil)})
	tr.ops = append([]delta.Op{front}, tr.ops...)
	tr.cursor++
	tr.covered++
	return true
}

// ConvertIfNeeded converts the block just before the cursor to bt when it
// is a block of a different type, and reports true. Otherwise a new block
// of that type is inserted at the cursor.
func (tr *Transaction) ConvertIfNeeded(bt delta.BlockType) bool {
	if tr.cursor > 0 {
		if e, ok := tr.doc.FetchAt(tr.cursor - 1); ok && e.IsBlock() && e.Block != bt {
			tr.ConvertAt(tr.cursor-1, bt, nil)
			return true
		}
	}
	tr.Block(bt, nil)
	return false
}

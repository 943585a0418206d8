// Package delta implements the operational delta model at the core of the
// engine. A document is a flat sequence of entries (inline text runs or
// block markers, each carrying formatting attributes) and every mutation
// is an operation list (retain, delete, insert, swap) folded into that
// sequence by Apply.
//
// # Indexing
//
// All positions and lengths are UTF-16 code units, not graphemes and not
// bytes. A text run's length is text16.Len of its text; a block marker's
// length is always 1. Grapheme clusters matter only to single-unit
// backspace, which is handled by the transaction builder.
//
// # Wire format
//
// The entry sequence itself is the interchange format; see json.go for the
// {insert, length, attributes} encoding of entries and operation lists.
package delta

import "github.com/coreseekdev/stilus/pkg/text16"

// BlockType identifies a block marker.
type BlockType string

const (
	BlockParagraph     BlockType = "paragraph"
	BlockBlockquote    BlockType = "blockquote"
	BlockUnorderedList BlockType = "unordered-list"
	BlockUnordered     BlockType = "unordered"
	BlockOrderedList   BlockType = "ordered-list"
	BlockOrdered       BlockType = "ordered"
)

// Entry is one element of a document delta: a text run or a block marker,
// with attributes. The same shape doubles as the payload of Insert and
// Swap operations.
//
// A non-empty Block marks a block entry; otherwise the entry is a text
// run. Entries are treated as immutable: the applier replaces entries
// in the sequence rather than editing them.
type Entry struct {
	Text       string
	Block      BlockType
	Attributes Attributes
}

// NewText returns a text entry.
func NewText(s string, attrs Attributes) Entry {
	return Entry{Text: s, Attributes: attrs}
}

// NewBlock returns a block entry.
func NewBlock(bt BlockType, attrs Attributes) Entry {
	return Entry{Block: bt, Attributes: attrs}
}

// IsText reports whether the entry is a text run.
func (e Entry) IsText() bool {
	return e.Block == ""
}

// IsBlock reports whether the entry is a block marker.
func (e Entry) IsBlock() bool {
	return e.Block != ""
}

// Length returns the entry's length in UTF-16 code units.
// Block markers have length 1.
func (e Entry) Length() int {
	if e.IsBlock() {
		return 1
	}
	return text16.Len(e.Text)
}

// Clone returns a copy of the entry with its attributes cloned.
func (e Entry) Clone() Entry {
	e.Attributes = e.Attributes.Clone()
	return e
}

// splitAt splits a text entry at a code-unit offset. Both halves keep the
// original attributes.
func (e Entry) splitAt(cu int) (Entry, Entry) {
	left := Entry{Text: text16.SliceTo(e.Text, cu), Attributes: e.Attributes}
	right := Entry{Text: text16.SliceFrom(e.Text, cu), Attributes: e.Attributes}
	return left, right
}

// Length returns the total length of a delta sequence in code units.
func Length(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Length()
	}
	return total
}

// CloneDelta deep-copies a delta sequence.
func CloneDelta(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

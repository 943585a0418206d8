package delta

import (
	"errors"

	"github.com/coreseekdev/stilus/pkg/text16"
)

// ErrInvalidLength is returned for retain or delete lengths below zero.
var ErrInvalidLength = errors.New("invalid operation length")

// Apply folds an operation list into a delta sequence and returns the
// resulting sequence. Operations take effect strictly left to right by the
// cursor they imply; a plain retain is the only way the cursor moves
// forward through content it does not alter.
//
// The input op list is not mutated (deletes spanning several entries
// rewrite their remaining length in a working copy). The entry slice is
// spliced in place where possible.
//
// Positions beyond the end of the sequence fall through: the op list is
// consumed but produces no further mutation. Adjacent same-attribute text
// runs are left unmerged; MinimizeDelta is a separate pass.
func Apply(entries []Entry, ops Ops) []Entry {
	work := make(Ops, len(ops))
	copy(work, ops)

	cursor := 0 // edit position in the evolving sequence, code units
	i := 0      // index of the current entry
	dPos := 0   // absolute position where entries[i] begins
	anchor := -1
	q := 0

	for q < len(work) {
		dLength := 0
		if i < len(entries) {
			dLength = entries[i].Length()
		}

		switch op := work[q].(type) {
		case Retain:
			if !op.hasOverlay() {
				cursor += op.N
				anchor = -1
				q++
				continue
			}
			// Overlay: format the span [anchor, cursor) across every entry
			// it touches, splitting text runs at both edges.
			if anchor < 0 {
				anchor = cursor
				cursor += op.N
			}
			if i >= len(entries) {
				anchor = -1
				q++
				continue
			}
			cur := entries[i]
			switch {
			case anchor >= dPos+dLength:
				// Entry wholly before the span.
				i++
				dPos += dLength
			case anchor > dPos && cur.IsText():
				// Span starts strictly inside: split, attributes unchanged.
				left, right := cur.splitAt(anchor - dPos)
				entries = splice(entries, i, 1, left, right)
				i++
				dPos = anchor
			case cursor >= dPos+dLength:
				// Entry wholly inside the span: merge, overlay wins.
				cur.Attributes = cur.Attributes.Merge(op.Attributes)
				entries[i] = cur
				i++
				dPos += dLength
			case cursor > dPos && cur.IsText():
				// Span ends strictly inside: left half formatted, right
				// half keeps the original attributes.
				left, right := cur.splitAt(cursor - dPos)
				left.Attributes = cur.Attributes.Merge(op.Attributes)
				entries = splice(entries, i, 1, left, right)
				dPos = cursor
				q++
				i++
				anchor = -1
			default:
				q++
				i++
				anchor = -1
			}

		case Insert:
			length := op.Length()
			entry := Entry{Text: op.Text, Block: op.Block, Attributes: op.Attributes}
			switch {
			case i >= len(entries):
				entries = append(entries, entry)
				i++
				q++
				dPos = cursor + length
				cursor = dPos
			case cursor >= dPos+dLength:
				i++
				dPos += dLength
			case cursor == dPos:
				// At a boundary the new entry lands before the current one.
				entries = splice(entries, i, 0, entry)
				i++
				q++
				dPos += length
				cursor = dPos
			case cursor > dPos && entries[i].IsText():
				left, right := entries[i].splitAt(cursor - dPos)
				entries = splice(entries, i, 1, left, entry, right)
				i++
				q++
				dPos = cursor
			default:
				q++
			}

		case Swap:
			length := op.Length()
			entry := Entry{Text: op.Text, Block: op.Block, Attributes: op.Attributes}
			switch {
			case i >= len(entries):
				entries = append(entries, entry)
				i++
				q++
				dPos = cursor + length
				cursor = dPos
			case cursor >= dPos+dLength:
				i++
				dPos += dLength
			case cursor == dPos:
				// Replace the single unit at the boundary. For a text run
				// the remainder past that unit survives as a new entry.
				cur := entries[i]
				if cur.IsText() {
					rem := text16.SliceFrom(cur.Text, 1)
					if rem != "" {
						entries = splice(entries, i, 1, entry, Entry{Text: rem, Attributes: cur.Attributes})
					} else {
						entries[i] = entry
					}
				} else {
					entries[i] = entry
					dPos += length
				}
				q++
				i++
			case cursor > dPos && entries[i].IsText():
				cur := entries[i]
				left, right := cur.splitAt(cursor - dPos)
				rem := text16.SliceFrom(right.Text, 1)
				replacement := []Entry{left, entry}
				if rem != "" {
					replacement = append(replacement, Entry{Text: rem, Attributes: cur.Attributes})
				}
				entries = splice(entries, i, 1, replacement...)
				q++
				i++
				dPos = cursor
			default:
				q++
			}

		case Delete:
			if i >= len(entries) {
				q++
				continue
			}
			n := op.N
			cur := entries[i]
			switch {
			case cursor >= dPos+dLength:
				i++
				dPos += dLength
			case cur.IsText() && cursor == dPos:
				switch {
				case dLength > n:
					entries[i] = Entry{Text: text16.SliceFrom(cur.Text, n), Attributes: cur.Attributes}
					q++
				case dLength == n:
					entries = splice(entries, i, 1)
					q++
				default:
					// The delete spans past this entry: consume it and keep
					// deleting with the remaining length.
					entries = splice(entries, i, 1)
					work[q] = Delete{N: n - dLength}
				}
			case cur.IsText() && cursor > dPos:
				// Split so the right half starts at the cursor and gets
				// reprocessed on the next pass.
				left, right := cur.splitAt(cursor - dPos)
				entries = splice(entries, i, 1, left, right)
				dPos = cursor
				i++
			default:
				// Block marker: one unit of the delete.
				entries = splice(entries, i, 1)
				dPos = cursor
				if n > 1 {
					work[q] = Delete{N: n - 1}
				} else {
					q++
				}
			}
		}
	}
	return entries
}

// splice replaces remove entries at index i with the given replacements.
func splice(entries []Entry, i, remove int, replacement ...Entry) []Entry {
	out := make([]Entry, 0, len(entries)-remove+len(replacement))
	out = append(out, entries[:i]...)
	out = append(out, replacement...)
	out = append(out, entries[i+remove:]...)
	return out
}

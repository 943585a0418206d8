package document

import "github.com/coreseekdev/stilus/pkg/delta"

// remapPosition walks the operation list and shifts pos from
// pre-transaction to post-transaction coordinates.
//
// Retains advance the walk cursor; deletes pull later positions back;
// inserts push strictly-later positions forward (a caret sitting exactly
// at an insertion point stays anchored before the inserted content);
// swaps are length-neutral and ignored. The walk stops once it has moved
// past pos.
func remapPosition(ops delta.Ops, pos int) int {
	cursor := 0
	for _, op := range ops {
		switch o := op.(type) {
		case delta.Retain:
			cursor += o.N
		case delta.Delete:
			if pos > cursor {
				pos -= o.N
				if pos < cursor {
					// Inside the deleted span: land at its start.
					pos = cursor
				}
			}
		case delta.Insert:
			if pos > cursor {
				pos += o.Length()
			}
			cursor += o.Length()
		case delta.Swap:
			// Length-neutral.
		}
		if cursor > pos {
			break
		}
	}
	return pos
}

package delta

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/coreseekdev/stilus/pkg/text16"
)

// DiffText derives an operation list that rewrites oldText into newText.
// Retain and delete lengths are expressed in UTF-16 code units so the
// result can be applied to a delta whose runs carry the old text.
//
// Uses Google's diff-match-patch algorithm. Within a changed region the
// delete is emitted before the insert, so applying the list consumes the
// old text first and never eats its own insertion.
func DiffText(oldText, newText string) Ops {
	if oldText == newText {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	ops := make(Ops, 0, len(diffs))
	delLen := 0
	insText := ""
	flush := func() {
		if delLen > 0 {
			ops = append(ops, Delete{N: delLen})
			delLen = 0
		}
		if insText != "" {
			ops = append(ops, Insert{Entry{Text: insText}})
			insText = ""
		}
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			if n := text16.Len(d.Text); n > 0 {
				ops = append(ops, Retain{N: n})
			}
		case diffmatchpatch.DiffDelete:
			delLen += text16.Len(d.Text)
		case diffmatchpatch.DiffInsert:
			insText += d.Text
		}
	}
	flush()

	// A trailing retain carries no information.
	if len(ops) > 0 {
		if r, ok := ops[len(ops)-1].(Retain); ok && !r.hasOverlay() {
			ops = ops[:len(ops)-1]
		}
	}
	return ops
}

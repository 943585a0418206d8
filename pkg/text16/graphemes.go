package text16

import (
	"github.com/clipperhouse/uax29/graphemes"
)

// Grapheme is a user-perceived character within a string, positioned in
// UTF-16 code units.
type Grapheme struct {
	Text     string // The grapheme cluster text
	StartCU  int    // Code-unit offset where this grapheme starts
	LenCU    int    // Length in code units
}

// Graphemes splits s into grapheme clusters.
// This is essential for proper Unicode handling in text editors: emoji
// ZWJ sequences, combining marks and flags each come back as one cluster.
func Graphemes(s string) []string {
	if s == "" {
		return nil
	}
	return graphemes.SegmentAllString(s)
}

// GraphemeAt returns the grapheme cluster covering code-unit offset cu.
// The reported StartCU may be less than cu when cu falls inside a
// multi-unit cluster. Returns false when cu is out of range.
func GraphemeAt(s string, cu int) (Grapheme, bool) {
	if cu < 0 {
		return Grapheme{}, false
	}
	pos := 0
	for _, seg := range graphemes.SegmentAllString(s) {
		l := Len(seg)
		if cu < pos+l {
			return Grapheme{Text: seg, StartCU: pos, LenCU: l}, true
		}
		pos += l
	}
	return Grapheme{}, false
}

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	if s == "" {
		return 0
	}
	return len(graphemes.SegmentAllString(s))
}

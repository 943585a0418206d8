// Package selection provides the one-dimensional selection model used by
// the document engine.
//
// A selection is a pair of endpoints on the x axis, measured in UTF-16
// code units. The start is the anchor, the side that stays put when the
// selection is extended, and the end is the focus. The two can be in
// either order; a backwards selection simply has its anchor to the right
// of its focus. Positions use gap indexing: position 1 sits between the
// first and second unit.
package selection

// Point is a position on the x axis.
type Point struct {
	X int
}

// Selection is an anchored span of the document.
type Selection struct {
	Start Point // anchor
	End   Point // focus
}

// New creates a selection from anchor to focus.
func New(startX, endX int) Selection {
	return Selection{Start: Point{X: startX}, End: Point{X: endX}}
}

// Collapsed creates a zero-width selection (a caret) at x.
func Collapsed(x int) Selection {
	return Selection{Start: Point{X: x}, End: Point{X: x}}
}

// IsBackwards reports whether the anchor sits after the focus.
func (s Selection) IsBackwards() bool {
	return s.Start.X > s.End.X
}

// IsCollapsed reports whether the selection is a caret.
func (s Selection) IsCollapsed() bool {
	return s.Start.X == s.End.X
}

// FromX returns the leftmost endpoint.
func (s Selection) FromX() int {
	if s.Start.X < s.End.X {
		return s.Start.X
	}
	return s.End.X
}

// ToX returns the rightmost endpoint.
func (s Selection) ToX() int {
	if s.Start.X > s.End.X {
		return s.Start.X
	}
	return s.End.X
}

// DistanceX returns the selected span's width.
func (s Selection) DistanceX() int {
	return s.ToX() - s.FromX()
}

// CollapseX collapses the selection onto its anchored endpoint: the focus
// moves to the anchor by default; with toEnd the anchor moves to the
// focus instead.
func (s *Selection) CollapseX(toEnd bool) {
	if toEnd {
		s.Start = s.End
	} else {
		s.End = s.Start
	}
}

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSelection_Direction tests forward/backward orientation.
func TestSelection_Direction(t *testing.T) {
	forward := New(2, 9)
	assert.False(t, forward.IsBackwards())
	assert.Equal(t, 2, forward.FromX())
	assert.Equal(t, 9, forward.ToX())
	assert.Equal(t, 7, forward.DistanceX())

	backward := New(9, 2)
	assert.True(t, backward.IsBackwards())
	assert.Equal(t, 2, backward.FromX())
	assert.Equal(t, 9, backward.ToX())
	assert.Equal(t, 7, backward.DistanceX())
}

// TestSelection_Collapsed tests carets.
func TestSelection_Collapsed(t *testing.T) {
	caret := Collapsed(5)
	assert.True(t, caret.IsCollapsed())
	assert.False(t, caret.IsBackwards())
	assert.Equal(t, 0, caret.DistanceX())

	assert.False(t, New(1, 2).IsCollapsed())
}

// TestSelection_CollapseX tests collapsing onto either endpoint.
func TestSelection_CollapseX(t *testing.T) {
	s := New(2, 9)
	s.CollapseX(false)
	assert.Equal(t, New(2, 2), s)

	s = New(2, 9)
	s.CollapseX(true)
	assert.Equal(t, New(9, 9), s)
}

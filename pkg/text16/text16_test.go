package text16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The family emoji is a ZWJ sequence: four astral code points (2 code
// units each) joined by three ZWJ characters (1 code unit each) = 11.
const family = "\U0001F468\u200D\U0001F468\u200D\U0001F467\u200D\U0001F467"

// TestLen_ASCII tests code-unit length of plain ASCII.
func TestLen_ASCII(t *testing.T) {
	assert.Equal(t, 11, Len("Hello World"))
	assert.Equal(t, 0, Len(""))
}

// TestLen_SurrogatePairs tests code-unit length with astral characters.
func TestLen_SurrogatePairs(t *testing.T) {
	assert.Equal(t, 11, Len(family))
	assert.Equal(t, 23, Len("Hello "+family+" World"))
	assert.Equal(t, 2, Len("\U0001F600")) // single emoji, one pair
	assert.Equal(t, 1, Len("é"))          // BMP character
}

// TestSlice tests slicing by code-unit offsets.
func TestSlice(t *testing.T) {
	s := "Hello " + family + " World"

	assert.Equal(t, "Hello", Slice(s, 0, 5))
	assert.Equal(t, family, Slice(s, 6, 17))
	assert.Equal(t, "World", Slice(s, 18, 23))
	assert.Equal(t, "", Slice(s, 5, 5))
	assert.Equal(t, "rld", SliceFrom(s, 20))
	assert.Equal(t, "Hello", SliceTo(s, 5))
}

// TestSlice_ClampsPastEnd tests that offsets beyond the string clamp.
func TestSlice_ClampsPastEnd(t *testing.T) {
	assert.Equal(t, "llo", Slice("Hello", 2, 99))
	assert.Equal(t, "", SliceFrom("Hello", 99))
}

// TestGraphemes tests cluster segmentation.
func TestGraphemes(t *testing.T) {
	segs := Graphemes("He" + family)
	assert.Equal(t, []string{"H", "e", family}, segs)
	assert.Nil(t, Graphemes(""))
}

// TestGraphemeAt tests locating the cluster covering an offset.
func TestGraphemeAt(t *testing.T) {
	s := "Hello " + family + " World"

	g, ok := GraphemeAt(s, 0)
	assert.True(t, ok)
	assert.Equal(t, "H", g.Text)
	assert.Equal(t, 0, g.StartCU)
	assert.Equal(t, 1, g.LenCU)

	// Any offset inside the emoji resolves to the whole cluster.
	for _, cu := range []int{6, 10, 16} {
		g, ok = GraphemeAt(s, cu)
		assert.True(t, ok)
		assert.Equal(t, family, g.Text)
		assert.Equal(t, 6, g.StartCU)
		assert.Equal(t, 11, g.LenCU)
	}

	g, ok = GraphemeAt(s, 22)
	assert.True(t, ok)
	assert.Equal(t, "d", g.Text)

	_, ok = GraphemeAt(s, 23)
	assert.False(t, ok)
	_, ok = GraphemeAt(s, -1)
	assert.False(t, ok)
}

// TestGraphemeCount tests cluster counting.
func TestGraphemeCount(t *testing.T) {
	assert.Equal(t, 5, GraphemeCount("Hello"))
	assert.Equal(t, 3, GraphemeCount("He"+family))
	assert.Equal(t, 0, GraphemeCount(""))
}

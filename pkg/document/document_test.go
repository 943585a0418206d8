package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreseekdev/stilus/pkg/delta"
	"github.com/coreseekdev/stilus/pkg/selection"
)

// TestDocument_Length tests length bookkeeping across entry kinds.
func TestDocument_Length(t *testing.T) {
	d := New(nil,
		delta.NewBlock(delta.BlockParagraph, nil),
		delta.NewText("Hello "+family, nil),
	)
	assert.Equal(t, 1+6+11, d.Length())
	assert.Equal(t, 0, New(nil).Length())
}

// TestDocument_DeltaAt tests entry lookup by position.
func TestDocument_DeltaAt(t *testing.T) {
	d := New(nil,
		delta.NewBlock(delta.BlockParagraph, nil),
		delta.NewText("Hello", nil),
	)

	require.NotNil(t, d.DeltaAt(0))
	assert.True(t, d.DeltaAt(0).IsBlock())
	require.NotNil(t, d.DeltaAt(3))
	assert.Equal(t, "Hello", d.DeltaAt(3).Text)
	assert.Nil(t, d.DeltaAt(6))
	assert.Nil(t, d.DeltaAt(-1))
}

// TestDocument_FetchAt tests single-unit lookup: graphemes for text,
// the marker itself for blocks.
func TestDocument_FetchAt(t *testing.T) {
	d := New(nil,
		delta.NewBlock(delta.BlockBlockquote, nil),
		delta.NewText("a"+family+"z", delta.Attributes{delta.AttrBold: true}),
	)

	e, ok := d.FetchAt(0)
	require.True(t, ok)
	assert.Equal(t, delta.BlockBlockquote, e.Block)

	e, ok = d.FetchAt(1)
	require.True(t, ok)
	assert.Equal(t, "a", e.Text)
	assert.Equal(t, delta.Attributes{delta.AttrBold: true}, e.Attributes)

	// Any position inside the emoji resolves to the whole cluster.
	e, ok = d.FetchAt(7)
	require.True(t, ok)
	assert.Equal(t, family, e.Text)
	assert.Equal(t, 11, e.Length())

	e, ok = d.FetchAt(13)
	require.True(t, ok)
	assert.Equal(t, "z", e.Text)

	_, ok = d.FetchAt(14)
	assert.False(t, ok)
}

// TestDocument_ApplyEvents tests the apply event pair and its ordering.
func TestDocument_ApplyEvents(t *testing.T) {
	d := New(nil)
	var seen []Event
	d.On(BeforeApply, func(ctx *Context) error {
		seen = append(seen, BeforeApply)
		// Mutation must not have happened yet.
		assert.Equal(t, 0, ctx.Doc.Length())
		return nil
	})
	d.On(AfterApply, func(ctx *Context) error {
		seen = append(seen, AfterApply)
		assert.Equal(t, 2, ctx.Doc.Length())
		return nil
	})

	require.NoError(t, d.Apply(delta.Ops{delta.Insert{Entry: delta.NewText("hi", nil)}}))
	assert.Equal(t, []Event{BeforeApply, AfterApply}, seen)
}

// TestDocument_TransactEvents tests the full event sequence of a commit.
func TestDocument_TransactEvents(t *testing.T) {
	d := New(nil)
	var seen []Event
	for _, ev := range []Event{BeforeTransaction, AfterTransaction, BeforeApply, AfterApply} {
		ev := ev
		d.On(ev, func(*Context) error {
			seen = append(seen, ev)
			return nil
		})
	}

	err := d.Transact(func(tr *Transaction) bool {
		tr.Insert("x", nil)
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, []Event{BeforeTransaction, BeforeApply, AfterApply, AfterTransaction}, seen)
}

// TestDocument_TransactCallbackSuppressesEvents tests that a commit
// callback replaces the transaction events.
func TestDocument_TransactCallbackSuppressesEvents(t *testing.T) {
	d := New(nil)
	var transactionEvents int
	d.On(BeforeTransaction, func(*Context) error { transactionEvents++; return nil })
	d.On(AfterTransaction, func(*Context) error { transactionEvents++; return nil })

	var cbDoc *Document
	err := d.Transact(func(tr *Transaction) bool {
		tr.Insert("x", nil)
		return false
	}, func(doc *Document, tr *Transaction) {
		cbDoc = doc
	})
	require.NoError(t, err)

	assert.Zero(t, transactionEvents)
	assert.Same(t, d, cbDoc)
	assert.Equal(t, 1, d.Length())
}

// TestDocument_BeforeHandlerCancels tests that a before-handler error
// leaves the document untouched.
func TestDocument_BeforeHandlerCancels(t *testing.T) {
	d := New(nil, delta.NewText("keep", nil))
	boom := errors.New("rejected")
	d.On(BeforeApply, func(*Context) error { return boom })

	err := d.Transact(func(tr *Transaction) bool {
		tr.Clear()
		return false
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "keep", d.Delta()[0].Text)
}

// TestDocument_TransactCancelled tests the cancelling return value.
func TestDocument_TransactCancelled(t *testing.T) {
	d := New(nil, delta.NewText("keep", nil))
	var fired int
	d.On(BeforeTransaction, func(*Context) error { fired++; return nil })

	err := d.Transact(func(tr *Transaction) bool {
		tr.Clear()
		return true
	})
	require.NoError(t, err)
	assert.Zero(t, fired)
	assert.Equal(t, 4, d.Length())
}

// TestDocument_TransactEmptyIsDiscarded tests the empty-op commit gate.
func TestDocument_TransactEmptyIsDiscarded(t *testing.T) {
	d := New(nil, delta.NewText("keep", nil))
	var fired int
	d.On(AfterTransaction, func(*Context) error { fired++; return nil })

	err := d.Transact(func(tr *Transaction) bool { return false })
	require.NoError(t, err)
	assert.Zero(t, fired)
}

// TestDocument_TransactAsync tests the deferred variant: empty is an
// error, commits run on the scheduler tick.
func TestDocument_TransactAsync(t *testing.T) {
	d := New(nil)

	err := d.TransactAsync(func(tr *Transaction) bool { return false })
	assert.ErrorIs(t, err, ErrEmptyTransaction)

	err = d.TransactAsync(func(tr *Transaction) bool {
		tr.Insert("x", nil)
		return true
	})
	assert.ErrorIs(t, err, ErrEmptyTransaction)

	var pending []func()
	d.SetScheduler(func(f func()) { pending = append(pending, f) })

	err = d.TransactAsync(func(tr *Transaction) bool {
		tr.Insert("hi", nil)
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Length())

	for _, f := range pending {
		f()
	}
	assert.Equal(t, 2, d.Length())
}

// TestDocument_TransactSimulate tests that simulation clones.
func TestDocument_TransactSimulate(t *testing.T) {
	d := New(delta.Attributes{delta.AttrFontFamily: "serif"}, delta.NewText("Hello", nil))

	clone, err := d.TransactSimulate(func(tr *Transaction) bool {
		tr.Clear()
		return false
	})
	require.NoError(t, err)

	assert.Equal(t, 5, d.Length())
	assert.Equal(t, 0, clone.Length())
	assert.NotEqual(t, d.ID(), clone.ID())
	assert.Equal(t, "serif", clone.Attributes()[delta.AttrFontFamily])
}

// TestDocument_SelectionRemapAfterDelete tests caret translation through
// a backward delete.
func TestDocument_SelectionRemapAfterDelete(t *testing.T) {
	d := New(nil, delta.NewText("Hello "+family+" World", nil))
	d.SetSelection(selection.Collapsed(20))

	require.NoError(t, d.Transact(func(tr *Transaction) bool {
		tr.Delete(15)
		return false
	}))

	assert.Equal(t, selection.Collapsed(5), d.Selection())
}

// TestDocument_SelectionClamped tests the post-commit bounds invariant.
func TestDocument_SelectionClamped(t *testing.T) {
	d := New(nil, delta.NewText("Hello World", nil))
	d.SetSelection(selection.New(3, 11))

	require.NoError(t, d.Transact(func(tr *Transaction) bool {
		tr.Clear()
		return false
	}))

	sel := d.Selection()
	assert.GreaterOrEqual(t, sel.FromX(), 0)
	assert.LessOrEqual(t, sel.ToX(), d.Length())
}

// TestRemapPosition_Monotonic tests that remapping preserves order.
func TestRemapPosition_Monotonic(t *testing.T) {
	ops := delta.Ops{
		delta.Retain{N: 3},
		delta.Insert{Entry: delta.NewText("ab", nil)},
		delta.Retain{N: 2},
		delta.Delete{N: 4},
		delta.Insert{Entry: delta.NewBlock(delta.BlockParagraph, nil)},
	}
	prev := remapPosition(ops, 0)
	for pos := 1; pos <= 20; pos++ {
		cur := remapPosition(ops, pos)
		assert.GreaterOrEqual(t, cur, prev, "position %d", pos)
		prev = cur
	}
}

// TestRemapPosition_SwapIsNeutral tests that swaps do not move offsets.
func TestRemapPosition_SwapIsNeutral(t *testing.T) {
	ops := delta.Ops{delta.Retain{N: 2}, delta.Swap{Entry: delta.NewText("Z", nil)}}
	for pos := 0; pos <= 6; pos++ {
		assert.Equal(t, pos, remapPosition(ops, pos))
	}
}

package pollcoro

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingWakeable struct{ n int }

func (c *countingWakeable) Wake() { c.n++ }

func TestWaker_Borrowed(t *testing.T) {
	target := &countingWakeable{}
	w := NewWaker(target)
	assert.True(t, w.Valid())

	w.Wake()
	w.Wake()
	assert.Equal(t, 2, target.n)
}

func TestWaker_Null(t *testing.T) {
	w := NullWaker()
	assert.False(t, w.Valid())
	assert.NotPanics(t, func() { w.Wake() })
}

func TestWaker_WillWake(t *testing.T) {
	a := NewWaker(&countingWakeable{})
	b := a.Clone()
	assert.True(t, a.WillWake(b))

	other := NewWaker(&countingWakeable{})
	assert.False(t, a.WillWake(other))

	assert.True(t, NullWaker().WillWake(NullWaker()))
}

func TestWaker_Owned(t *testing.T) {
	var woke int
	var cloned int
	var destroyed int

	w := NewOwnedWaker(
		"data",
		func(d any) { woke++ },
		func(d any) any { cloned++; return d },
		func(d any) { destroyed++ },
	)

	w.Wake()
	assert.Equal(t, 1, woke)

	c := w.Clone()
	assert.Equal(t, 1, cloned)
	assert.True(t, w.WillWake(c))

	c.Wake()
	assert.Equal(t, 2, woke)

	w.Close()
	assert.Equal(t, 1, destroyed)
}

func TestWakerFromContext_WakesOnCancel(t *testing.T) {
	target := &countingWakeable{}
	inner := NewWaker(target)

	ctx, cancel := context.WithCancel(context.Background())
	w := WakerFromContext(ctx, inner)
	assert.True(t, w.Valid())

	cancel()
	assert.Eventually(t, func() bool { return target.n == 1 }, time.Second, time.Millisecond)
}

func TestWakerFromContext_NeverCancelledNeverWakes(t *testing.T) {
	target := &countingWakeable{}
	w := WakerFromContext(context.Background(), NewWaker(target))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, target.n)
	assert.True(t, w.Valid())
}

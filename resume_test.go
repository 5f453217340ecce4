package pollcoro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeResumable_MakePollable_RoundTripOnAlreadyReady(t *testing.T) {
	p := ReadyValue(5)
	resumable := MakeResumable[int](p, InlineScheduler{})
	back := MakePollable[int](resumable)
	assert.Equal(t, 5, BlockOn[int](back))
}

func TestMakeResumable_MakePollable_RoundTripAfterSuspension(t *testing.T) {
	gate, fire := NewSingleEvent[int]()
	resumable := MakeResumable[int](gate, InlineScheduler{})
	back := MakePollable[int](resumable)

	w := NullWaker()
	st := back.Poll(&w)
	require.True(t, st.IsPending())

	fire(42)

	st = back.Poll(&w)
	require.True(t, st.IsReady())
	assert.Equal(t, 42, st.TakeResult())
}

func TestOnceWaker_FiresAtMostOnce(t *testing.T) {
	n := 0
	ow := &onceWaker{fire: func() { n++ }}
	ow.Wake()
	ow.Wake()
	ow.Wake()
	assert.Equal(t, 1, n)
}

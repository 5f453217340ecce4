package pollcoro

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleEvent_SetterFromAnotherGoroutine(t *testing.T) {
	ev, set := NewSingleEvent[string]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		set("done")
	}()

	got := BlockOn[string](ev)
	assert.Equal(t, "done", got)
	wg.Wait()
}

func TestSingleEvent_OnlyFirstSetWins(t *testing.T) {
	ev, set := NewSingleEvent[int]()
	set(1)
	set(2)
	assert.Equal(t, 1, BlockOn[int](ev))
}

func TestSingleEvent_CloseClearsWakerWithoutAffectingValue(t *testing.T) {
	ev, set := NewSingleEvent[int]()
	w := NullWaker()
	st := ev.Poll(&w)
	require.True(t, st.IsPending())

	ev.Close()
	assert.NotPanics(t, func() { set(7) })

	st = ev.Poll(&w)
	require.True(t, st.IsReady())
	assert.Equal(t, 7, st.TakeResult())
}

package pollcoro

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockOn_NeverBlocksFastPath(t *testing.T) {
	got := BlockOn[int](ReadyValue(3))
	assert.Equal(t, 3, got)
}

func TestBlockOn_CondvarPathWithAsyncSetter(t *testing.T) {
	ev, set := NewSingleEvent[int]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		set(11)
	}()

	got := BlockOn[int](ev)
	assert.Equal(t, 11, got)
	wg.Wait()
}

func TestBlockOnStream_DeliversElementsInOrderThenReturns(t *testing.T) {
	var got []int
	BlockOnStream[int](RangeStream(0, 4, 1), func(v int) { got = append(got, v) })
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestBlockOn_MetricsRecordsPollsAndWakes(t *testing.T) {
	m := NewMetrics()
	ev, set := NewSingleEvent[int]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		set(1)
	}()

	got := BlockOn[int](ev, WithMetrics(m))
	wg.Wait()
	require.Equal(t, 1, got)

	snap := m.Snapshot()
	assert.GreaterOrEqual(t, snap.Polls, uint64(1))
	assert.GreaterOrEqual(t, snap.Wakes, uint64(1))
}

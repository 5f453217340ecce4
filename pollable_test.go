package pollcoro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPollableFunc_AdaptsPlainFunction(t *testing.T) {
	var p Pollable[int] = PollableFunc[int](func(w *Waker) PollState[int] { return ReadyState(1) })
	assert.Equal(t, 1, BlockOn[int](p))
}

func TestStreamPollableFunc_AdaptsPlainFunction(t *testing.T) {
	calls := 0
	var s StreamPollable[int] = StreamPollableFunc[int](func(w *Waker) StreamPollState[int] {
		calls++
		if calls > 1 {
			return StreamDoneState[int]()
		}
		return StreamReadyState(calls)
	})
	assert.Equal(t, []int{1}, drainAll(t, s))
}

func TestBlockingOf_DefaultsToMaybeBlocksWithoutInterface(t *testing.T) {
	assert.Equal(t, MaybeBlocks, blockingOf(struct{}{}))
}

func TestCombineBlocking(t *testing.T) {
	assert.Equal(t, NeverBlocks, CombineBlocking())
	assert.Equal(t, NeverBlocks, CombineBlocking(NeverBlocks, NeverBlocks))
	assert.Equal(t, MaybeBlocks, CombineBlocking(NeverBlocks, MaybeBlocks))
	assert.Equal(t, AlwaysBlocks, CombineBlocking(NeverBlocks, AlwaysBlocks, MaybeBlocks))
}

package pollcoro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stackPool struct{ items []any }

func (p *stackPool) Get() any {
	if len(p.items) == 0 {
		return nil
	}
	v := p.items[len(p.items)-1]
	p.items = p.items[:len(p.items)-1]
	return v
}

func (p *stackPool) Put(x any) { p.items = append(p.items, x) }

func TestAllocateIn_InstallsAndRestoresPreviousAllocator(t *testing.T) {
	assert.Nil(t, CurrentAllocator())

	outer := &stackPool{}
	AllocateIn[struct{}](outer, func() struct{} {
		assert.Same(t, outer, CurrentAllocator())

		inner := &stackPool{}
		AllocateIn[struct{}](inner, func() struct{} {
			assert.Same(t, inner, CurrentAllocator())
			return struct{}{}
		})

		assert.Same(t, outer, CurrentAllocator())
		return struct{}{}
	})

	assert.Nil(t, CurrentAllocator())
}

func TestAllocateIn_RestoresOnPanic(t *testing.T) {
	pool := &stackPool{}
	assert.Panics(t, func() {
		AllocateIn[struct{}](pool, func() struct{} {
			panic("boom")
		})
	})
	assert.Nil(t, CurrentAllocator())
}

func TestAllocateIn_PoolsChannelPairAcrossSequentialTasks(t *testing.T) {
	pool := &stackPool{}

	var firstToCoro, secondToCoro chan struct{}

	AllocateIn[struct{}](pool, func() struct{} {
		task := NewTask(func(y *TaskYield) int { return 1 })
		firstToCoro = task.core.toCoro
		require.Equal(t, 1, BlockOn[int](task))
		return struct{}{}
	})

	require.Len(t, pool.items, 1)

	AllocateIn[struct{}](pool, func() struct{} {
		task := NewTask(func(y *TaskYield) int { return 2 })
		secondToCoro = task.core.toCoro
		require.Equal(t, 2, BlockOn[int](task))
		return struct{}{}
	})

	assert.Equal(t, firstToCoro, secondToCoro)
}

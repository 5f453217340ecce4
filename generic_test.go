package pollcoro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneric_ErasesConcreteTypeButPreservesValue(t *testing.T) {
	g := Generic[int](ReadyValue(5))
	assert.Equal(t, MaybeBlocks, blockingOf(g))
	assert.Equal(t, 5, BlockOn[int](g))
}

func TestGenericStream_ErasesConcreteTypeButPreservesElements(t *testing.T) {
	g := GenericStream[int](RangeStream(0, 3, 1))
	assert.Equal(t, MaybeBlocks, blockingOf(g))
	assert.Equal(t, []int{0, 1, 2}, drainAll(t, g))
}

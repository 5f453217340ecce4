package pollcoro

import (
	"runtime"
	"sync"
)

// Allocator is the Go-idiomatic shape of §4.8's allocator pair
// (allocate(size)->void*, deallocate(ptr)): Get returns a value ready
// for reuse (or nil if the pool is empty, in which case the caller
// allocates normally), and Put returns a value to the pool once the
// caller is done with it. This is the same Get/Put contract as the
// standard library's sync.Pool, deliberately — arena allocation in Go
// means pooling allocations, not hand-rolled pointer arithmetic.
type Allocator interface {
	Get() any
	Put(x any)
}

var (
	currentAllocatorMu sync.Mutex
	currentAllocator   = map[uint64]Allocator{}
)

// getGoroutineID parses the current goroutine's ID out of a stack
// trace, adapted from the eventloop package's loop.go (its
// isLoopThread/getGoroutineID pair) — the standard workaround for Go
// having no public goroutine-local storage.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}

// CurrentAllocator returns the calling goroutine's installed allocator,
// or nil if [AllocateIn] is not on the call stack.
func CurrentAllocator() Allocator {
	id := getGoroutineID()
	currentAllocatorMu.Lock()
	defer currentAllocatorMu.Unlock()
	return currentAllocator[id]
}

// AllocateIn runs fn with alloc installed as the calling goroutine's
// current allocator (§4.8), restoring whatever was installed before on
// return — including if fn panics. Any [Task]/[Stream] constructed
// inside fn captures alloc for its coroutine frame's channel pair; see
// newCoreFrame.
func AllocateIn[R any](alloc Allocator, fn func() R) R {
	id := getGoroutineID()
	currentAllocatorMu.Lock()
	prev, had := currentAllocator[id]
	currentAllocator[id] = alloc
	currentAllocatorMu.Unlock()

	defer func() {
		currentAllocatorMu.Lock()
		if had {
			currentAllocator[id] = prev
		} else {
			delete(currentAllocator, id)
		}
		currentAllocatorMu.Unlock()
	}()

	return fn()
}

// chanPair is the one genuinely reusable resource in a coroutine frame:
// its two unbuffered channels. Pooling them is what an [Allocator]
// installed via [AllocateIn] actually recycles for Task/Stream.
type chanPair struct {
	toCoro   chan struct{}
	fromCoro chan struct{}
}

package pollcoro

import "sync"

// This file implements the two generic resume-bridge adapters of §4.6,
// the explicit escape hatch between pollcoro's poll-driven model and
// any resume-driven coroutine dialect (one where a completion callback
// jumps directly back into the middle of a suspended function). Go has
// no native resumable-coroutine primitive to bridge to, so
// [ResumeAwaitable] models the shape structurally — await_ready,
// await_suspend, await_resume — the same three operations a resume-based
// coroutine dialect names, rather than inventing pollcoro-specific
// vocabulary.

// ResumeAwaitable is any value conforming to the host's resume-based
// awaitable shape (§4.6): AwaitReady reports whether a result is
// already available, AwaitSuspend registers a continuation to be
// invoked exactly once (possibly from another goroutine) when it
// becomes available, and AwaitResume extracts the final result.
type ResumeAwaitable[T any] interface {
	AwaitReady() bool
	AwaitSuspend(continuation func())
	AwaitResume() T
}

// Scheduler marshals a callback onto whatever executor owns a resume
// coroutine's continuation — the Go-idiomatic simplification of a
// `schedule() -> resume-awaitable` shape (§4.6): rather than returning
// a second awaitable just to be awaited for its side effect, Run takes
// the callback directly. See DESIGN.md for the rationale.
type Scheduler interface {
	Run(fn func())
}

// InlineScheduler runs every callback synchronously on the calling
// goroutine. It is the degenerate Scheduler for tests and for resume
// coroutines with no particular thread affinity.
type InlineScheduler struct{}

// Run implements [Scheduler].
func (InlineScheduler) Run(fn func()) { fn() }

// GoroutineScheduler runs every callback on a freshly spawned goroutine.
type GoroutineScheduler struct{}

// Run implements [Scheduler].
func (GoroutineScheduler) Run(fn func()) { go fn() }

// resumePollable is returned by [MakePollable]: it drives x to
// completion via AwaitSuspend's continuation and caches the result so
// later Poll calls just report Ready.
type resumePollable[T any] struct {
	mu      sync.Mutex
	x       ResumeAwaitable[T]
	started bool
	ready   bool
	value   T
	waker   Waker
}

// MakePollable adapts a resume-based awaitable into a [Pollable] (§4.6,
// "make_pollable"). It is thread-safe: x's continuation may fire from
// any goroutine, as resume-coroutine continuations typically do.
func MakePollable[T any](x ResumeAwaitable[T]) Pollable[T] {
	return &resumePollable[T]{x: x}
}

func (b *resumePollable[T]) Poll(w *Waker) PollState[T] {
	b.mu.Lock()
	if b.ready {
		v := b.value
		b.mu.Unlock()
		return ReadyState(v)
	}
	if !b.started {
		b.started = true
		if b.x.AwaitReady() {
			v := b.x.AwaitResume()
			b.ready = true
			b.value = v
			b.mu.Unlock()
			return ReadyState(v)
		}
		b.waker = w.Clone()
		b.mu.Unlock()
		b.x.AwaitSuspend(func() {
			b.mu.Lock()
			v := b.x.AwaitResume()
			b.ready = true
			b.value = v
			waker := b.waker
			b.mu.Unlock()
			waker.Wake()
		})
		return PendingState[T]()
	}
	b.waker = w.Clone()
	b.mu.Unlock()
	return PendingState[T]()
}

func (b *resumePollable[T]) IsBlocking() BlockingHint { return MaybeBlocks }

// onceWaker fires its wake function at most once, regardless of how
// many clones exist or how many goroutines call Wake concurrently — the
// Go stand-in for an atomic exchange that prevents double-resume (§4.6).
type onceWaker struct {
	once sync.Once
	fire func()
}

func (o *onceWaker) Wake() { o.once.Do(o.fire) }

// resumeAwaitable is returned by [MakeResumable]: each poll round gets
// a fresh [onceWaker], so a spurious duplicate wake from the same round
// never causes a double-resume.
type resumeAwaitable[T any] struct {
	p     Pollable[T]
	sched Scheduler
	value T
	cont  func()
}

// MakeResumable adapts a [Pollable] into a resume-based awaitable
// (§4.6, "make_resumable"), scheduling every resumption — including the
// final one, when p resolves — through sched, so the continuation
// always runs on the executor sched owns rather than on whichever
// goroutine happened to call Wake.
func MakeResumable[T any](p Pollable[T], sched Scheduler) ResumeAwaitable[T] {
	return &resumeAwaitable[T]{p: p, sched: sched}
}

func (r *resumeAwaitable[T]) AwaitReady() bool {
	w := NullWaker()
	if s := r.p.Poll(&w); s.IsReady() {
		r.value = s.TakeResult()
		return true
	}
	return false
}

func (r *resumeAwaitable[T]) AwaitSuspend(continuation func()) {
	r.cont = continuation
	r.pollOnce()
}

func (r *resumeAwaitable[T]) pollOnce() {
	ow := &onceWaker{}
	ow.fire = func() { r.sched.Run(r.pollOnce) }
	w := NewWaker(ow)
	s := r.p.Poll(&w)
	if s.IsReady() {
		r.value = s.TakeResult()
		if cont := r.cont; cont != nil {
			r.sched.Run(cont)
		}
	}
}

func (r *resumeAwaitable[T]) AwaitResume() T { return r.value }

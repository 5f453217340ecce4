package pollcoro

import (
	"context"
	"sync"
	"sync/atomic"
)

// wakerVTable is the type-erased operation set behind a [Waker]. wakeFn
// must be safe to call concurrently from any thread at any time (§4.2);
// cloneFn and destroyFn are not — the owner must serialize construction,
// clone, and destruction.
type wakerVTable struct {
	wake    func(data any)
	clone   func(data any) Waker
	destroy func(data any)
}

// Waker is an opaque, clonable, callable-once-or-many handle through
// which a polled [Pollable] or [StreamPollable] requests to be polled
// again. It has three lifetime modes (§3):
//
//   - borrowed: NewWaker wraps a value whose Wake method is called
//     directly; the referent must outlive every clone.
//   - uniquely-owned: NewOwnedWaker owns heap data plus a destroy
//     function; Clone requires a user-supplied clone function.
//   - null: [NullWaker] does nothing on Wake and reports false from
//     [Waker.Valid].
//
// The zero Waker is a null waker.
type Waker struct {
	data  any
	vt    *wakerVTable
	wakeP uintptr // identity key for WillWake; see newIdentity
}

// wakeable is satisfied by any borrowed waker target.
type wakeable interface {
	Wake()
}

var identityCounter atomic.Uint64

func newIdentity() uintptr {
	return uintptr(identityCounter.Add(1))
}

// NewWaker returns a borrowed Waker over w. Cloning it yields another
// borrowed handle with the same observable behavior; w must outlive every
// clone produced from the returned Waker.
func NewWaker(w wakeable) Waker {
	id := newIdentity()
	return Waker{
		data: w,
		vt: &wakerVTable{
			wake: func(data any) { data.(wakeable).Wake() },
			clone: func(data any) Waker {
				return Waker{data: data, vt: borrowedVTable(), wakeP: id}
			},
		},
		wakeP: id,
	}
}

func borrowedVTable() *wakerVTable {
	return &wakerVTable{
		wake: func(data any) { data.(wakeable).Wake() },
	}
}

// NewOwnedWaker returns a uniquely-owned Waker over data. wake is invoked
// with data on Wake(); clone (optional) produces a new owned copy when
// Clone is called, receiving the current data and returning the data for
// the clone; destroy (optional) runs when the last reference understood
// by the caller is dropped — pollcoro does not track liveness, so callers
// that need destroy semantics must call [Waker.Close] explicitly.
func NewOwnedWaker(data any, wake func(any), clone func(any) any, destroy func(any)) Waker {
	id := newIdentity()
	var vt *wakerVTable
	vt = &wakerVTable{
		wake:    wake,
		destroy: destroy,
	}
	if clone != nil {
		vt.clone = func(d any) Waker {
			return Waker{data: clone(d), vt: vt, wakeP: id}
		}
	}
	return Waker{data: data, vt: vt, wakeP: id}
}

// NullWaker returns a Waker whose Wake is a no-op and whose Valid reports
// false.
func NullWaker() Waker {
	return Waker{}
}

// Valid reports whether w is anything other than the null waker.
func (w Waker) Valid() bool { return w.vt != nil }

// Wake invokes the underlying wake function. It is a no-op on a null
// waker. Wake is safe to call concurrently from any goroutine, at any
// time, including from multiple clones of the same Waker simultaneously.
func (w Waker) Wake() {
	if w.vt == nil || w.vt.wake == nil {
		return
	}
	w.vt.wake(w.data)
}

// Clone returns another Waker that wakes the same referent. If the
// underlying construction provided a clone function, that is used;
// otherwise a borrowed copy sharing the same data is returned.
func (w Waker) Clone() Waker {
	if w.vt == nil {
		return w
	}
	if w.vt.clone != nil {
		return w.vt.clone(w.data)
	}
	return w
}

// Close runs the destroy function of a uniquely-owned Waker, if any. It
// is safe to call on a borrowed or null Waker (no-op).
func (w Waker) Close() {
	if w.vt != nil && w.vt.destroy != nil {
		w.vt.destroy(w.data)
	}
}

// ctxWaker forwards Wake to an inner Waker the first time, and only the
// first time, ctx is cancelled; further calls are no-ops.
type ctxWaker struct {
	ctx   context.Context
	inner Waker
	once  sync.Once
}

func (c *ctxWaker) Wake() {
	if c.ctx.Err() != nil {
		c.once.Do(c.inner.Wake)
	}
}

// WakerFromContext returns a Waker that wakes inner exactly once: when
// ctx is cancelled. A goroutine is spawned to watch ctx.Done() and exits
// once it fires; if ctx is never cancelled, that goroutine stays parked
// on ctx.Done() for as long as ctx lives. No goroutine is spawned for a
// ctx whose Done channel is nil (such as context.Background()).
func WakerFromContext(ctx context.Context, inner Waker) Waker {
	cw := &ctxWaker{ctx: ctx, inner: inner}
	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			cw.Wake()
		}()
	}
	return NewWaker(cw)
}

// WillWake reports whether w and other share an identity key: true when
// both descend, through Clone, from the same [NewWaker]/[NewOwnedWaker]
// call, or when both are null. Every NewWaker/NewOwnedWaker call mints a
// new key, so two wakers constructed separately over the same referent
// report false; the wake function and data are not compared.
func (w Waker) WillWake(other Waker) bool {
	if w.vt == nil || other.vt == nil {
		return w.vt == nil && other.vt == nil
	}
	return w.wakeP == other.wakeP
}

//go:build !linux

package pollcoro

// EventFDWaker is the portable fallback for platforms without an
// eventfd syscall: same API as the Linux version, backed by a buffered
// channel of capacity one that holds at most one pending wake, rather
// than a real file descriptor an external reactor could poll.
type EventFDWaker struct {
	signal chan struct{}
}

// NewEventFDWaker returns a portable EventFDWaker. The error return is
// kept for API parity with the Linux version, which can fail opening
// the eventfd; this constructor never fails.
func NewEventFDWaker() (*EventFDWaker, error) {
	return &EventFDWaker{signal: make(chan struct{}, 1)}, nil
}

// Wake implements wakeable, satisfying [NewWaker].
func (e *EventFDWaker) Wake() {
	select {
	case e.signal <- struct{}{}:
	default:
	}
}

// Drain consumes a pending wake signal, if any.
func (e *EventFDWaker) Drain() {
	select {
	case <-e.signal:
	default:
	}
}

// FD returns -1: there is no file descriptor to register with an
// external reactor on this platform.
func (e *EventFDWaker) FD() int { return -1 }

// Close is a no-op on this platform.
func (e *EventFDWaker) Close() error { return nil }

// AsWaker wraps e as a borrowed [Waker]. e must outlive every clone.
func (e *EventFDWaker) AsWaker() Waker { return NewWaker(e) }

//go:build linux

package pollcoro

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// EventFDWaker is an external-trigger waker backed by a Linux eventfd,
// adapted from the eventloop package's wake-pipe (loop.go's
// submitWakeup/drainWakeUpPipe, wakeup_linux.go's createWakeFd): where
// that package uses the eventfd to wake its own poller thread out of
// epoll_wait, EventFDWaker hands the same fd out as a [Waker]: each wake
// is a single write(2) on the fd, which an external epoll/io_uring
// reactor, or code across a cgo boundary, can watch. [BlockOn] does not
// watch it; BlockOn parks on its own condvar-backed waker.
type EventFDWaker struct {
	fd int
}

// NewEventFDWaker creates a nonblocking, close-on-exec eventfd.
func NewEventFDWaker() (*EventFDWaker, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &EventFDWaker{fd: fd}, nil
}

// Wake implements wakeable, satisfying [NewWaker].
func (e *EventFDWaker) Wake() {
	var one uint64 = 1
	buf := (*[8]byte)(unsafe.Pointer(&one))[:]
	_, _ = unix.Write(e.fd, buf)
}

// Drain resets the eventfd's counter to zero, consuming whatever Wake
// calls accumulated since the last Drain. A driver parked on the fd
// calls this once per wake before re-polling.
func (e *EventFDWaker) Drain() {
	var buf [8]byte
	for {
		if _, err := unix.Read(e.fd, buf[:]); err != nil {
			break
		}
	}
}

// FD returns the underlying file descriptor, for registration with an
// external epoll/io_uring/kqueue reactor.
func (e *EventFDWaker) FD() int { return e.fd }

// Close releases the eventfd.
func (e *EventFDWaker) Close() error { return unix.Close(e.fd) }

// AsWaker wraps e as a borrowed [Waker]. e must outlive every clone.
func (e *EventFDWaker) AsWaker() Waker { return NewWaker(e) }

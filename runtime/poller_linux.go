//go:build linux

package runtime

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// poller wraps one epoll instance. Registrations are one-shot (EPOLLONESHOT
// semantics emulated by unregistering right after delivery), matching
// AwaitFd's "await once, then deregister" contract.
type poller struct {
	epfd      int
	callbacks map[int]func()
}

func newPoller() (*poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}
	return &poller{epfd: fd, callbacks: map[int]func(){}}, nil
}

func (p *poller) register(fd int, writable bool, f func()) error {
	events := uint32(unix.EPOLLIN)
	if writable {
		events = unix.EPOLLOUT
	}
	ev := unix.EpollEvent{Events: events, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll_ctl add fd %d: %w", fd, err)
	}
	p.callbacks[fd] = f
	return nil
}

func (p *poller) unregister(fd int) {
	if _, ok := p.callbacks[fd]; !ok {
		return
	}
	unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	delete(p.callbacks, fd)
}

// wait blocks for up to timeout (negative blocks indefinitely, zero
// returns immediately) for any registered fd to become ready, delivering
// each ready fd's callback exactly once before returning.
func (p *poller) wait(timeout time.Duration) error {
	if len(p.callbacks) == 0 && timeout < 0 {
		// Nothing to wait on and nothing will ever wake us: no fd is
		// registered, and a negative timeout from Loop.pollTimeout means
		// no queued task, completion or live timer either. Return at once
		// rather than block forever.
		return nil
	}
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	events := make([]unix.EpollEvent, 16)
	n, err := unix.EpollWait(p.epfd, events, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("epoll_wait: %w", err)
	}
	for i := 0; i < n; i++ {
		fd := int(events[i].Fd)
		if f, ok := p.callbacks[fd]; ok {
			delete(p.callbacks, fd)
			unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
			f()
		}
	}
	return nil
}

func (p *poller) close() error {
	return unix.Close(p.epfd)
}

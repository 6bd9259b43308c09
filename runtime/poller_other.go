//go:build !linux

package runtime

import (
	"fmt"
	"time"
)

// poller stub for non-Linux platforms; epoll-based fd readiness is
// Linux-only, same split as drm's ioctl_linux.go/ioctl_other.go.
type poller struct{}

func newPoller() (*poller, error) { return &poller{}, nil }

func (p *poller) register(fd int, writable bool, f func()) error {
	return fmt.Errorf("runtime: fd polling only supported on linux")
}

func (p *poller) unregister(fd int) {}

func (p *poller) wait(timeout time.Duration) error { return nil }

func (p *poller) close() error { return nil }

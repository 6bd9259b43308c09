package worker

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := New(3)
	var count int64
	const n = 50
	for i := 0; i < n; i++ {
		p.Submit(func() { atomic.AddInt64(&count, 1) })
	}
	p.Close()
	if got := atomic.LoadInt64(&count); got != n {
		t.Fatalf("ran %d jobs, want %d", got, n)
	}
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	p := New(0)
	done := make(chan struct{})
	p.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job never ran with n<=0 worker count")
	}
	p.Close()
}

func TestPoolCloseWaitsForInFlight(t *testing.T) {
	p := New(1)
	var ran int32
	p.Submit(func() {
		time.Sleep(10 * time.Millisecond)
		atomic.StoreInt32(&ran, 1)
	})
	p.Close()
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatal("Close returned before in-flight job finished")
	}
}

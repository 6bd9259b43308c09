package gpu

import (
	"errors"
	"testing"
)

func TestStagingBufferBusyContract(t *testing.T) {
	buf := NewStagingBuffer(4096, true, nil, nil)

	if err := buf.Acquire(); err != nil {
		t.Fatalf("first acquire should succeed: %v", err)
	}
	if err := buf.Acquire(); !errors.Is(err, ErrStagingBufferBusy) {
		t.Fatalf("second acquire while busy should fail with ErrStagingBufferBusy, got %v", err)
	}
	buf.Release()
	if buf.Busy() {
		t.Fatal("buffer should not be busy after Release")
	}
	if err := buf.Acquire(); err != nil {
		t.Fatalf("acquire after release should succeed: %v", err)
	}
}

func TestStagingShellMaterializeOnce(t *testing.T) {
	calls := 0
	shell := NewStagingShell(1024, true)
	alloc := func(size uint64) (*StagingBuffer, error) {
		calls++
		return NewStagingBuffer(size, true, nil, nil), nil
	}

	b1, err := shell.Materialize(alloc)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := shell.Materialize(alloc)
	if err != nil {
		t.Fatal(err)
	}
	if b1 != b2 {
		t.Fatal("materialize should return the same buffer on repeated calls")
	}
	if calls != 1 {
		t.Fatalf("expected 1 allocation, got %d", calls)
	}
}

package drm

import (
	"testing"
	"time"
)

func TestCommitMarginGrowsToObservedMaxAfterWindow(t *testing.T) {
	cur := time.Unix(0, 0)
	now := func() time.Time { return cur }
	m := newCommitMargin(defaultPostCommitMargin, now)

	m.Observe(5 * time.Millisecond)
	if m.Value() != defaultPostCommitMargin {
		t.Fatalf("margin should not change mid-window, got %v", m.Value())
	}

	cur = cur.Add(2 * time.Second)
	m.Observe(1 * time.Millisecond) // triggers window rollover
	if m.Value() != 5*time.Millisecond {
		t.Fatalf("margin should grow to the window's observed max, got %v", m.Value())
	}
}

func TestCommitMarginDecaysGraduallyNotInstantly(t *testing.T) {
	cur := time.Unix(0, 0)
	now := func() time.Time { return cur }
	m := newCommitMargin(10*time.Millisecond, now)

	// A full second passes with only small observations; the margin
	// should step down by at most postCommitMarginDelta, not collapse to
	// the new observed max immediately.
	cur = cur.Add(time.Second)
	m.Observe(1 * time.Millisecond)
	want := 10*time.Millisecond - postCommitMarginDelta
	if m.Value() != want {
		t.Fatalf("margin = %v, want gradual decay to %v", m.Value(), want)
	}
}

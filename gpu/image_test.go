package gpu

import "testing"

func TestImageReleasedOnLastReference(t *testing.T) {
	released := false
	img := NewImage(4, 2, Format{}, nil, func() { released = true })

	img.Retain()
	img.Release()
	if released {
		t.Fatal("image released while a reference is still outstanding")
	}

	img.Release()
	if !released {
		t.Fatal("image not released after last reference dropped")
	}
}

func TestQueueStateSamplingGate(t *testing.T) {
	cases := []struct {
		state QueueState
		want  bool
	}{
		{Acquired(QueueFamilyGraphics), true},
		{Acquired(QueueFamilyTransfer), false},
		{Released(QueueFamilyGraphics), true},
		{Released(QueueFamilyTransfer), false},
		{ReleasingState, false},
	}
	for _, c := range cases {
		if got := c.state.CanSampleOnGraphics(); got != c.want {
			t.Errorf("state %+v: CanSampleOnGraphics() = %v, want %v", c.state, got, c.want)
		}
	}
}

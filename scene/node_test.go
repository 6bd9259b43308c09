package scene

import "testing"

func TestNewOutputDefaultsToUnitScale(t *testing.T) {
	o := NewOutput(1, Rect{W: 100, H: 100})
	if o.Scale != 1 {
		t.Fatalf("Scale = %v, want 1", o.Scale)
	}
	if o.Transform != OutputTransformNormal {
		t.Fatalf("Transform = %v, want OutputTransformNormal", o.Transform)
	}
}

func TestFloatHitEdgeCorners(t *testing.T) {
	f := NewFloat(1, Rect{X: 0, Y: 0, W: 100, H: 80}, 20)
	cases := []struct {
		x, y float64
		want ResizeEdge
	}{
		{50, 40, EdgeNone},              // interior
		{2, 40, EdgeLeft},               // left edge, mid-height
		{98, 40, EdgeRight},             // right edge
		{50, 2, EdgeTop},                // top edge
		{50, 78, EdgeBottom},            // bottom edge
		{2, 2, EdgeLeft | EdgeTop},      // top-left corner
		{98, 2, EdgeRight | EdgeTop},    // top-right corner
		{2, 78, EdgeLeft | EdgeBottom},  // bottom-left corner
		{98, 78, EdgeRight | EdgeBottom}, // bottom-right corner
	}
	for _, c := range cases {
		if got := f.HitEdge(c.x, c.y); got != c.want {
			t.Errorf("HitEdge(%v,%v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestFloatHitEdgeNarrowWindowPrefersMove(t *testing.T) {
	// Narrower than 2*BorderWidth: every x column is within bw of both
	// sides, which float.rs's table maps to Move rather than a resize.
	f := NewFloat(1, Rect{X: 0, Y: 0, W: 10, H: 80}, 20)
	if got := f.HitEdge(5, 40); got != EdgeNone {
		t.Fatalf("HitEdge in a too-narrow window = %v, want EdgeNone", got)
	}
}

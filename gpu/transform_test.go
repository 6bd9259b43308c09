package gpu

import "testing"

// TestTransform90MatchesScenario2 pins the exact numbers spec §8 scenario 2
// names: a 4x2 buffer with buffer_transform=1 has effective size 2x4, and
// its full-buffer damage rect maps to the corners (0,36)-(2,40), i.e. a 2x4
// Rect at (0,36), once offset by an output position of (0,36).
func TestTransform90MatchesScenario2(t *testing.T) {
	w, h := Transform90.ApplyToSize(4, 2)
	if w != 2 || h != 4 {
		t.Fatalf("effective size = %dx%d, want 2x4", w, h)
	}

	damage := Transform90.ApplyToRect(Rect{X: 0, Y: 0, W: 4, H: 2}, 4, 2)
	want := Rect{X: 0, Y: 0, W: 2, H: 4}
	if damage != want {
		t.Fatalf("surface-local damage = %+v, want %+v", damage, want)
	}
	output := Rect{X: damage.X, Y: damage.Y + 36, W: damage.W, H: damage.H}
	if output != (Rect{X: 0, Y: 36, W: 2, H: 4}) {
		t.Fatalf("output damage = %+v, want corners (0,36)-(2,40)", output)
	}
}

func TestTransformIdentityIsNoop(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	if got := TransformNormal.ApplyToRect(r, 10, 10); got != r {
		t.Fatalf("identity transform changed rect: %+v", got)
	}
	if w, h := TransformNormal.ApplyToSize(7, 9); w != 7 || h != 9 {
		t.Fatalf("identity transform changed size: %dx%d", w, h)
	}
}

func TestTransformSwapsAgreesWithApplyToSize(t *testing.T) {
	for t_ := TransformNormal; t_ <= TransformFlipped270; t_++ {
		w, h := t_.ApplyToSize(4, 2)
		swapped := w == 2 && h == 4
		if swapped != t_.Swaps() {
			t.Fatalf("transform %d: Swaps()=%v but ApplyToSize gave %dx%d", t_, t_.Swaps(), w, h)
		}
	}
}

// TestInverseSampleRoundTrips checks that walking every destination pixel
// through InverseSample and back through the forward per-pixel mapping
// (ApplyToRect on a 1x1 rect) recovers the original destination pixel, for
// every transform variant — the property a rotating blit depends on.
func TestInverseSampleRoundTrips(t *testing.T) {
	const bufW, bufH = 4, 2
	for tr := TransformNormal; tr <= TransformFlipped270; tr++ {
		ew, eh := tr.ApplyToSize(bufW, bufH)
		for ty := int32(0); ty < eh; ty++ {
			for tx := int32(0); tx < ew; tx++ {
				sx, sy := tr.InverseSample(tx, ty, bufW, bufH)
				if sx < 0 || sx >= bufW || sy < 0 || sy >= bufH {
					t.Fatalf("transform %d: InverseSample(%d,%d) = (%d,%d) out of buffer bounds", tr, tx, ty, sx, sy)
				}
				fwd := tr.ApplyToRect(Rect{X: sx, Y: sy, W: 1, H: 1}, bufW, bufH)
				if fwd.X != tx || fwd.Y != ty {
					t.Fatalf("transform %d: pixel (%d,%d) inverse-sampled to (%d,%d) but forward maps to (%d,%d)", tr, tx, ty, sx, sy, fwd.X, fwd.Y)
				}
			}
		}
	}
}

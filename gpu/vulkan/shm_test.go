package vulkan

import (
	"reflect"
	"testing"

	"github.com/gocompose/wm/gpu"
)

func TestQuantizeDamageUndefinedForcesFullImage(t *testing.T) {
	got := quantizeDamage([]gpu.Rect{{X: 1, Y: 1, W: 1, H: 1}}, 10, 20, true)
	want := []gpu.Rect{{X: 0, Y: 0, W: 10, H: 20}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("quantizeDamage(undefined) = %+v, want %+v", got, want)
	}
}

func TestQuantizeDamageClipsToBounds(t *testing.T) {
	got := quantizeDamage([]gpu.Rect{{X: -5, Y: -5, W: 10, H: 10}}, 8, 8, false)
	want := []gpu.Rect{{X: 0, Y: 0, W: 5, H: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("quantizeDamage(clip) = %+v, want %+v", got, want)
	}
}

func TestQuantizeDamageDropsEmptyRects(t *testing.T) {
	got := quantizeDamage([]gpu.Rect{{X: 100, Y: 100, W: 5, H: 5}}, 8, 8, false)
	if len(got) != 0 {
		t.Fatalf("expected fully out-of-bounds rect to be dropped, got %+v", got)
	}
}

func TestCopyRectsIntoStagingPacksTightRows(t *testing.T) {
	// 2x2 source at stride 16 (padded), copied into a tightly packed 2x2 dest.
	src := make([]byte, 2*16)
	for row := 0; row < 2; row++ {
		src[row*16+0] = byte(row + 1)
		src[row*16+4] = byte(row + 10)
	}
	dst := make([]byte, 2*2*4)
	copyRectsIntoStaging(dst, 2, []gpu.Rect{{X: 0, Y: 0, W: 2, H: 2}}, gpu.ShmBacking{Ptr: src, Stride: 16})

	if dst[0] != 1 || dst[4] != 10 || dst[2*4] != 2 || dst[2*4+4] != 11 {
		t.Fatalf("unexpected packed staging contents: %v", dst)
	}
}

func TestCopyRectsIntoStagingSkipsOutOfRangeRect(t *testing.T) {
	dst := make([]byte, 4*4)
	// Should not panic even though the rect overruns both src and dst.
	copyRectsIntoStaging(dst, 1, []gpu.Rect{{X: 0, Y: 0, W: 100, H: 100}}, gpu.ShmBacking{Ptr: []byte{1, 2, 3, 4}, Stride: 4})
}

func TestMax32Min32(t *testing.T) {
	if got := max32(3, 5); got != 5 {
		t.Fatalf("max32(3,5) = %d, want 5", got)
	}
	if got := max32(5, 3); got != 5 {
		t.Fatalf("max32(5,3) = %d, want 5", got)
	}
	if got := min32(3, 5); got != 3 {
		t.Fatalf("min32(3,5) = %d, want 3", got)
	}
	if got := min32(5, 3); got != 3 {
		t.Fatalf("min32(5,3) = %d, want 3", got)
	}
}

package gpu

import "testing"

func TestIsOpaqueCover(t *testing.T) {
	screen := Rect{0, 0, 1920, 1080}
	tex := &fakeTexture{img: NewImage(1920, 1080, Format{}, nil, func() {})}

	opaque := CopyTextureOp(tex, screen, screen, nil, AcquireSync{Kind: AcquireSyncFile, Fd: 3})
	if !opaque.IsOpaqueCover(screen) {
		t.Fatal("expected fullscreen opaque copy to cover the screen")
	}

	alpha := float32(0.5)
	blended := CopyTextureOp(tex, screen, screen, &alpha, AcquireSync{Kind: AcquireSyncFile, Fd: 3})
	if blended.IsOpaqueCover(screen) {
		t.Fatal("alpha-blended copy must not be treated as an opaque cover")
	}

	partial := CopyTextureOp(tex, screen, Rect{0, 0, 100, 100}, nil, AcquireSync{})
	if partial.IsOpaqueCover(screen) {
		t.Fatal("partial-coverage copy must not be treated as an opaque cover")
	}
}

func TestIsIgnorableBlackFill(t *testing.T) {
	black := Fill(Rect{0, 0, 10, 10}, Color{})
	if !black.IsIgnorableBlackFill() {
		t.Fatal("zero-value color fill should be ignorable black")
	}
	red := Fill(Rect{0, 0, 10, 10}, Color{R: 1})
	if red.IsIgnorableBlackFill() {
		t.Fatal("non-black fill must not be ignorable")
	}
}

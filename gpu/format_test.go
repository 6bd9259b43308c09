package gpu

import "testing"

func TestFormatTableRejectsUnlistedModifier(t *testing.T) {
	tbl := NewFormatTable()
	tbl.Add(Format{FourCC: FourCCARGB8888, Vk: VkFormatB8G8R8A8Unorm, BitsPerPixel: 32, HasAlpha: true},
		ModifierLinear, ModifierCaps{Renderable: true, Sampleable: true, PlaneCount: 1})

	if !tbl.Supports(FourCCARGB8888, ModifierLinear) {
		t.Fatal("expected linear modifier to be supported")
	}
	if tbl.Supports(FourCCARGB8888, Modifier(0xdeadbeef)) {
		t.Fatal("unlisted modifier must not be reported as supported")
	}
	if tbl.Supports(FourCCNV12, ModifierLinear) {
		t.Fatal("unregistered format must not be reported as supported")
	}
}

func TestFormatTableModifiers(t *testing.T) {
	tbl := NewFormatTable()
	f := Format{FourCC: FourCCXRGB8888, Vk: VkFormatB8G8R8A8Unorm, BitsPerPixel: 32}
	tbl.Add(f, ModifierLinear, ModifierCaps{Renderable: true, PlaneCount: 1})
	tbl.Add(f, Modifier(123), ModifierCaps{Renderable: true, PlaneCount: 2})

	mods := tbl.Modifiers(FourCCXRGB8888)
	if len(mods) != 2 {
		t.Fatalf("expected 2 modifiers, got %d", len(mods))
	}
}

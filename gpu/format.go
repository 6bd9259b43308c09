package gpu

// FourCC is a DRM four-character-code format identifier, e.g. the value of
// DRM_FORMAT_ARGB8888 from <drm_fourcc.h>.
type FourCC uint32

// Well-known fourCCs this core is expected to handle. Values match
// <drm_fourcc.h> exactly so they can be compared against what a client or
// the DRM backend reports without translation.
const (
	FourCCXRGB8888 FourCC = 0x34325258 // 'XR24'
	FourCCARGB8888 FourCC = 0x34325241 // 'AR24'
	FourCCXBGR8888 FourCC = 0x34324258 // 'XB24'
	FourCCABGR8888 FourCC = 0x34324241 // 'AB24'
	FourCCNV12     FourCC = 0x3231564e // 'NV12'
)

// VkFormat mirrors the subset of VkFormat values this core creates images
// with. Kept narrow (not the full Vulkan enum) because only formats with a
// registry entry are ever used.
type VkFormat uint32

const (
	VkFormatUndefined   VkFormat = 0
	VkFormatB8G8R8A8Unorm VkFormat = 44
	VkFormatR8G8B8A8Unorm VkFormat = 37
)

// Format is a stable registry entry: a DRM fourCC paired with the Vulkan
// format used to sample or render it, plus the metadata spec §3 requires.
type Format struct {
	FourCC      FourCC
	Vk          VkFormat
	BitsPerPixel int
	HasAlpha    bool
	// OpaqueTwin is the fourCC of the format to substitute when direct
	// scanout cannot blend (e.g. ARGB8888 -> XRGB8888). Zero if the format
	// has no opaque twin.
	OpaqueTwin FourCC
}

// Modifier is a 64-bit DRM layout token (see <drm_fourcc.h>'s
// DRM_FORMAT_MOD_* constants).
type Modifier uint64

const (
	ModifierLinear  Modifier = 0
	ModifierInvalid Modifier = 0x00ffffffffffffff
)

// ModifierCaps describes what a (format, modifier) pair supports.
type ModifierCaps struct {
	Renderable     bool
	Sampleable     bool
	DisjointPlanes bool
	// PlaneCount is how many memory planes a buffer in this layout has.
	PlaneCount int
	// MaxRenderWidth/Height bound images this modifier may be rendered
	// into; MaxTransferWidth/Height bound images it may only be
	// sampled/copied into (typically larger, since scanout constraints
	// are stricter than the compute/transfer path).
	MaxRenderWidth, MaxRenderHeight     uint32
	MaxTransferWidth, MaxTransferHeight uint32
}

type formatKey struct {
	format   FourCC
	modifier Modifier
}

// FormatTable is the `format -> {read modifiers, write modifiers}` table
// spec §4.1 requires gpu.Context.Formats() to publish. It is built once at
// context creation and is immutable thereafter; entries absent from it MUST
// be rejected at image creation (invariant in spec §3).
type FormatTable struct {
	formats map[FourCC]Format
	caps    map[formatKey]ModifierCaps
}

// NewFormatTable constructs an empty table; backends populate it via Add.
func NewFormatTable() *FormatTable {
	return &FormatTable{
		formats: make(map[FourCC]Format),
		caps:    make(map[formatKey]ModifierCaps),
	}
}

// Add registers a format and the capability set for one of its modifiers.
// Calling Add again for the same (format, modifier) replaces the caps.
func (t *FormatTable) Add(f Format, mod Modifier, caps ModifierCaps) {
	t.formats[f.FourCC] = f
	t.caps[formatKey{f.FourCC, mod}] = caps
}

// Format returns the registry entry for a fourCC, if any.
func (t *FormatTable) Format(fourcc FourCC) (Format, bool) {
	f, ok := t.formats[fourcc]
	return f, ok
}

// Caps returns the capability set for (format, modifier), if that
// combination is supported.
func (t *FormatTable) Caps(fourcc FourCC, mod Modifier) (ModifierCaps, bool) {
	c, ok := t.caps[formatKey{fourcc, mod}]
	return c, ok
}

// Supports reports whether the (format, modifier) pair may be used to
// create an image at all.
func (t *FormatTable) Supports(fourcc FourCC, mod Modifier) bool {
	_, ok := t.caps[formatKey{fourcc, mod}]
	return ok
}

// Modifiers returns every modifier registered for a format, in no
// particular order. Used by export-side modifier selection (spec §4.3).
func (t *FormatTable) Modifiers(fourcc FourCC) []Modifier {
	var mods []Modifier
	for k := range t.caps {
		if k.format == fourcc {
			mods = append(mods, k.modifier)
		}
	}
	return mods
}

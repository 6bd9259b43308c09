package gpu

// Rect is an integer axis-aligned rectangle in destination pixels.
type Rect struct {
	X, Y, W, H int32
}

// Color is a linear RGBA color used by fill ops.
type Color struct {
	R, G, B, A float32
}

// AcquireSyncKind discriminates how a CopyTexture op's source buffer should
// be waited on before sampling.
type AcquireSyncKind int

const (
	// AcquireNone: no wait needed (compositor-owned texture already
	// synchronized by the timeline).
	AcquireNone AcquireSyncKind = iota
	// AcquireImplicit: the source buffer is guarded by the dma-buf's
	// implicit fence. No renderer polls or waits on that fence; direct
	// scanout refuses buffers of this kind.
	AcquireImplicit
	// AcquireSyncFile: wait on an explicit sync-file fd supplied by the
	// client (explicit sync protocol).
	AcquireSyncFile
	// AcquireUnnecessary: the client promised no concurrent writer; skip
	// waiting entirely.
	AcquireUnnecessary
)

// AcquireSync describes how to wait on a CopyTexture op's source buffer.
type AcquireSync struct {
	Kind AcquireSyncKind
	Fd   int // valid only when Kind == AcquireSyncFile
}

// RenderOpKind discriminates the RenderOp tagged variants from spec §3.
type RenderOpKind int

const (
	OpSync RenderOpKind = iota
	OpFillRect
	OpCopyTexture
)

// RenderOp is the tagged variant {Sync, FillRect{rect,color},
// CopyTexture{tex,source,target,alpha?,acquire_sync,buffer_resv?}} spec §3
// defines. Exactly one of the payload fields is meaningful, selected by
// Kind.
type RenderOp struct {
	Kind RenderOpKind

	// FillRect payload.
	FillDest  Rect
	FillColor Color

	// CopyTexture payload.
	Tex        Texture
	Source     Rect
	Target     Rect
	Alpha      *float32 // nil means opaque (no blend)
	Acquire    AcquireSync
	BufferResv bool // true if the source buffer has an implicit-sync reservation object

	// SourceTransform is the buffer_transform a committed surface carries
	// (spec §8 scenario 2); zero value TransformNormal leaves Source's
	// pixels unrotated. Source is always expressed in the untransformed
	// buffer's own coordinates; Target is in already-transformed,
	// surface/output-local coordinates.
	SourceTransform Transform
}

// Fill constructs a FillRect op.
func Fill(dest Rect, color Color) RenderOp {
	return RenderOp{Kind: OpFillRect, FillDest: dest, FillColor: color}
}

// CopyTextureOp constructs a CopyTexture op with no rotation/flip applied.
func CopyTextureOp(tex Texture, source, target Rect, alpha *float32, acquire AcquireSync) RenderOp {
	return RenderOp{
		Kind:    OpCopyTexture,
		Tex:     tex,
		Source:  source,
		Target:  target,
		Alpha:   alpha,
		Acquire: acquire,
	}
}

// CopyTextureTransformed constructs a CopyTexture op that additionally
// rotates/flips source's pixels per transform before they land in target,
// the op a committed surface with a non-identity buffer_transform produces.
func CopyTextureTransformed(tex Texture, source, target Rect, alpha *float32, acquire AcquireSync, transform Transform) RenderOp {
	op := CopyTextureOp(tex, source, target, alpha, acquire)
	op.SourceTransform = transform
	return op
}

// Sync constructs a Sync op: a no-op at record time that forces a pipeline
// change when mixed with draws before and after it (spec §4.5 step 7).
func Sync() RenderOp { return RenderOp{Kind: OpSync} }

// IsOpaqueCover reports whether op is a CopyTexture that exactly covers
// coverRect with no alpha blending — the admission test direct scanout
// (spec §4.6 step 7) and invariant 5 both need.
func (op RenderOp) IsOpaqueCover(coverRect Rect) bool {
	if op.Kind != OpCopyTexture {
		return false
	}
	if op.Alpha != nil {
		return false
	}
	return op.Target == coverRect
}

// IsIgnorableBlackFill reports whether op is a fill of pure black — the
// exception direct-scanout admission allows for ops beneath the top-most
// texture copy (spec §4.6 step 7c).
func (op RenderOp) IsIgnorableBlackFill() bool {
	return op.Kind == OpFillRect && op.FillColor == Color{}
}

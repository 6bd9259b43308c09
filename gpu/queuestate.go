package gpu

// QueueFamily identifies which GPU queue family currently (or will) own a
// DMA-BUF-backed image. Foreign represents ownership outside the Vulkan
// device entirely — a client process or the display controller.
type QueueFamily int

const (
	QueueFamilyForeign QueueFamily = iota
	QueueFamilyGraphics
	QueueFamilyTransfer
)

func (f QueueFamily) String() string {
	switch f {
	case QueueFamilyGraphics:
		return "graphics"
	case QueueFamilyTransfer:
		return "transfer"
	default:
		return "foreign"
	}
}

// QueueStateKind discriminates the three QueueState variants from spec §4.3.
type QueueStateKind int

const (
	QueueAcquired QueueStateKind = iota
	QueueReleasing
	QueueReleased
)

// QueueState is the tagged variant {Acquired{family}, Releasing,
// Released{to}} that drives every DMA-BUF image's queue-family handover.
// Transitions are driven only by explicit barriers around each use;
// sampling on the graphics queue requires Released{to: Graphics} or
// Acquired{Graphics}.
type QueueState struct {
	Kind   QueueStateKind
	Family QueueFamily // meaningful for Acquired and Released
}

// Acquired reports an image exclusively owned by family with no pending
// handover.
func Acquired(family QueueFamily) QueueState {
	return QueueState{Kind: QueueAcquired, Family: family}
}

// Released reports an image that has completed a release barrier to family.
func Released(family QueueFamily) QueueState {
	return QueueState{Kind: QueueReleased, Family: family}
}

// Releasing reports an image with a release barrier recorded but not yet
// known to have completed on the GPU.
var ReleasingState = QueueState{Kind: QueueReleasing}

// CanSampleOnGraphics reports whether the image may be sampled from a
// graphics-queue command buffer in its current state.
func (s QueueState) CanSampleOnGraphics() bool {
	switch s.Kind {
	case QueueAcquired:
		return s.Family == QueueFamilyGraphics
	case QueueReleased:
		return s.Family == QueueFamilyGraphics
	default:
		return false
	}
}

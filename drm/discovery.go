//go:build linux

package drm

import (
	"fmt"
	"os"
	"unsafe"
)

// Property-id discovery at startup (spec §6): DRM hands out property IDs
// per-device at boot, so every atomic object's property set has to be
// resolved by name once, right after claiming master, before any commit
// can stage a write against it.

const (
	ioctlModeGetResources  = 0xc04064a0 // _IOWR('d', 0xa0, struct drm_mode_card_res)
	ioctlModeGetConnector  = 0xc05064a7 // _IOWR('d', 0xa7, struct drm_mode_get_connector)
	ioctlModeGetCrtc       = 0xc06864a1 // _IOWR('d', 0xa1, struct drm_mode_crtc)
	ioctlModeGetProperty   = 0xc04064aa // _IOWR('d', 0xaa, struct drm_mode_get_property)
)

type drmModeCardRes struct {
	FbIDPtr          uint64
	CrtcIDPtr        uint64
	ConnectorIDPtr   uint64
	EncoderIDPtr     uint64
	CountFbs         uint32
	CountCrtcs       uint32
	CountConnectors  uint32
	CountEncoders    uint32
	MinWidth, MaxWidth   uint32
	MinHeight, MaxHeight uint32
}

type drmModeGetConnectorReq struct {
	EncodersPtr   uint64
	ModesPtr      uint64
	PropsPtr      uint64
	PropValuesPtr uint64

	CountModes      uint32
	CountProps      uint32
	CountEncoders   uint32
	EncoderID       uint32
	ConnectorID     uint32
	ConnectorType   uint32
	ConnectorTypeID uint32

	Connection        uint32
	MmWidth, MmHeight uint32
	Subpixel          uint32

	Pad uint32
}

type drmModeCrtcReq struct {
	SetConnectorsPtr uint64
	CountConnectors  uint32
	CrtcID           uint32
	FbID             uint32
	X, Y             uint32
	GammaSize        uint32
	ModeValid        uint32
	Mode             drmModeModeInfo
}

// drmModeModeInfo mirrors struct drm_mode_modeinfo; only the fields this
// backend reads are named, the rest is padding consumed positionally.
type drmModeModeInfo struct {
	Clock                    uint32
	Hdisplay, HsyncStart, HsyncEnd, Htotal, Hskew uint16
	Vdisplay, VsyncStart, VsyncEnd, Vtotal, Vscan uint16
	VRefresh                 uint32
	Flags, Type              uint32
	Name                     [32]byte
}

const drmModePropertyLegacyNameLen = 32

type drmModeGetPropertyReq struct {
	ValuesPtr   uint64
	EnumBlobPtr uint64
	PropID      uint32
	Flags       uint32
	Name        [drmModePropertyLegacyNameLen]byte
	CountValues uint32
	CountEnumBlobs uint32
}

const drmModeConnectedConnection = 1

// connectorPropertyNames, crtcPropertyNames and planePropertyNames list
// every atomic property this backend stages, resolved by
// name once per object type at discovery time.
var connectorPropertyNames = []string{"CRTC_ID"}
var crtcPropertyNames = []string{"ACTIVE", "MODE_ID", "VRR_ENABLED"}
var planePropertyNames = []string{
	"CRTC_ID", "FB_ID", "SRC_X", "SRC_Y", "SRC_W", "SRC_H",
	"CRTC_X", "CRTC_Y", "CRTC_W", "CRTC_H", "IN_FENCE_FD", "type",
}

// objProperties resolves every (name -> id, value) pair DRM_IOCTL_MODE_OBJ_GETPROPERTIES
// reports for objID/objType, keyed by the kernel-assigned property name.
func objProperties(f uintptr, objID, objType uint32) (map[string]Property, error) {
	var req drmModeObjGetProperties
	req.ObjID = objID
	req.ObjType = objType
	if err := ioctl(f, ioctlModeObjGetProperties, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("DRM_IOCTL_MODE_OBJ_GETPROPERTIES(count): %w", err)
	}
	if req.CountProps == 0 {
		return map[string]Property{}, nil
	}
	ids := make([]uint32, req.CountProps)
	values := make([]uint64, req.CountProps)
	req.PropsPtr = uint64(uintptr(unsafe.Pointer(&ids[0])))
	req.PropValuesPtr = uint64(uintptr(unsafe.Pointer(&values[0])))
	if err := ioctl(f, ioctlModeObjGetProperties, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("DRM_IOCTL_MODE_OBJ_GETPROPERTIES: %w", err)
	}
	out := make(map[string]Property, req.CountProps)
	for i := uint32(0); i < req.CountProps; i++ {
		name, err := propertyName(f, ids[i])
		if err != nil {
			return nil, err
		}
		out[name] = NewProperty(ids[i], values[i])
	}
	return out, nil
}

func propertyName(f uintptr, propID uint32) (string, error) {
	var req drmModeGetPropertyReq
	req.PropID = propID
	if err := ioctl(f, ioctlModeGetProperty, unsafe.Pointer(&req)); err != nil {
		return "", fmt.Errorf("DRM_IOCTL_MODE_GETPROPERTY(%d): %w", propID, err)
	}
	n := 0
	for n < len(req.Name) && req.Name[n] != 0 {
		n++
	}
	return string(req.Name[:n]), nil
}

func requireProps(obj map[string]Property, names []string) (map[string]Property, error) {
	out := make(map[string]Property, len(names))
	for _, n := range names {
		p, ok := obj[n]
		if !ok {
			return nil, fmt.Errorf("drm: object missing expected property %q", n)
		}
		out[n] = p
	}
	return out, nil
}

// discoverConnectors enumerates every connected connector on f, resolving
// its CRTC and primary/cursor planes and every atomic property those
// objects need, ready to hand to NewPresenter. Connectors with no
// attached CRTC (disconnected outputs) are skipped.
func discoverConnectors(osf *os.File) ([]*Connector, error) {
	f := osf.Fd()
	var res drmModeCardRes
	if err := ioctl(f, ioctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, fmt.Errorf("DRM_IOCTL_MODE_GETRESOURCES(count): %w", err)
	}
	connIDs := make([]uint32, res.CountConnectors)
	crtcIDs := make([]uint32, res.CountCrtcs)
	encIDs := make([]uint32, res.CountEncoders)
	if len(connIDs) > 0 {
		res.ConnectorIDPtr = uint64(uintptr(unsafe.Pointer(&connIDs[0])))
	}
	if len(crtcIDs) > 0 {
		res.CrtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcIDs[0])))
	}
	if len(encIDs) > 0 {
		res.EncoderIDPtr = uint64(uintptr(unsafe.Pointer(&encIDs[0])))
	}
	if err := ioctl(f, ioctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, fmt.Errorf("DRM_IOCTL_MODE_GETRESOURCES: %w", err)
	}

	planeRes, err := getPlaneResources(f)
	if err != nil {
		return nil, err
	}

	var out []*Connector
	for _, cid := range connIDs {
		var creq drmModeGetConnectorReq
		creq.ConnectorID = cid
		if err := ioctl(f, ioctlModeGetConnector, unsafe.Pointer(&creq)); err != nil {
			return nil, fmt.Errorf("DRM_IOCTL_MODE_GETCONNECTOR(count, %d): %w", cid, err)
		}
		if creq.Connection != drmModeConnectedConnection || creq.EncoderID == 0 {
			continue
		}

		connProps, err := objProperties(f, cid, objTypeConnector)
		if err != nil {
			return nil, err
		}
		connResolved, err := requireProps(connProps, connectorPropertyNames)
		if err != nil {
			return nil, fmt.Errorf("connector %d: %w", cid, err)
		}

		// The encoder names the CRTC currently routed to this connector;
		// a freshly booted device has already picked one during its own
		// firmware/GOP handoff.
		crtcID, err := encoderCrtcID(f, creq.EncoderID)
		if err != nil {
			return nil, err
		}
		if crtcID == 0 {
			continue
		}

		crtcProps, err := objProperties(f, crtcID, objTypeCrtc)
		if err != nil {
			return nil, err
		}
		crtcResolved, err := requireProps(crtcProps, crtcPropertyNames)
		if err != nil {
			return nil, fmt.Errorf("crtc %d: %w", crtcID, err)
		}

		var crtcReq drmModeCrtcReq
		crtcReq.CrtcID = crtcID
		if err := ioctl(f, ioctlModeGetCrtc, unsafe.Pointer(&crtcReq)); err != nil {
			return nil, fmt.Errorf("DRM_IOCTL_MODE_GETCRTC(%d): %w", crtcID, err)
		}

		primary, cursor, err := findPlanesForCrtc(f, planeRes, crtcIDs, crtcID)
		if err != nil {
			return nil, err
		}
		if primary == nil {
			continue
		}
		primary.ModeW = uint32(crtcReq.Mode.Hdisplay)
		primary.ModeH = uint32(crtcReq.Mode.Vdisplay)

		conn := &Connector{
			ID:       cid,
			KernelID: fmt.Sprintf("connector-%d", cid),
			Crtc: &Crtc{
				ID:         crtcID,
				ModeID:     crtcResolved["MODE_ID"],
				Active:     crtcResolved["ACTIVE"],
				VrrEnabled: crtcResolved["VRR_ENABLED"],
			},
			Primary: primary,
			Cursor:  cursor,
		}
		out = append(out, conn)
	}
	return out, nil
}

const (
	objTypeConnector = 0xc0c0c0c0
	objTypeCrtc      = 0xcccccccc
	objTypePlane     = 0xeeeeeeee
)

func encoderCrtcID(f uintptr, encID uint32) (uint32, error) {
	const ioctlModeGetEncoder = 0xc01464a6 // _IOWR('d', 0xa6, struct drm_mode_get_encoder)
	var req struct {
		EncoderID   uint32
		EncoderType uint32
		CrtcID      uint32
		PossibleCrtcs, PossibleClones uint32
	}
	req.EncoderID = encID
	if err := ioctl(f, ioctlModeGetEncoder, unsafe.Pointer(&req)); err != nil {
		return 0, fmt.Errorf("DRM_IOCTL_MODE_GETENCODER(%d): %w", encID, err)
	}
	return req.CrtcID, nil
}

func getPlaneResources(f uintptr) ([]uint32, error) {
	var req drmModeGetPlaneRes
	if err := ioctl(f, ioctlModeGetPlaneResources, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("DRM_IOCTL_MODE_GETPLANERESOURCES(count): %w", err)
	}
	if req.CountPlanes == 0 {
		return nil, nil
	}
	ids := make([]uint32, req.CountPlanes)
	req.PlaneIDPtr = uint64(uintptr(unsafe.Pointer(&ids[0])))
	if err := ioctl(f, ioctlModeGetPlaneResources, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("DRM_IOCTL_MODE_GETPLANERESOURCES: %w", err)
	}
	return ids, nil
}

// findPlanesForCrtc picks the first primary- and cursor-type plane whose
// PossibleCrtcs bitmask includes crtcID's index among crtcIDs.
func findPlanesForCrtc(f uintptr, planeIDs []uint32, crtcIDs []uint32, crtcID uint32) (primary, cursor *Plane, err error) {
	crtcIdx := -1
	for i, id := range crtcIDs {
		if id == crtcID {
			crtcIdx = i
			break
		}
	}
	if crtcIdx < 0 {
		return nil, nil, fmt.Errorf("drm: crtc %d not found in resource list", crtcID)
	}
	bit := uint32(1) << uint(crtcIdx)

	for _, pid := range planeIDs {
		var p drmModeGetPlane
		p.PlaneID = pid
		if err := ioctl(f, ioctlModeGetPlane, unsafe.Pointer(&p)); err != nil {
			return nil, nil, fmt.Errorf("DRM_IOCTL_MODE_GETPLANE(%d): %w", pid, err)
		}
		if p.PossibleCrtcs&bit == 0 {
			continue
		}

		props, err := objProperties(f, pid, objTypePlane)
		if err != nil {
			return nil, nil, err
		}
		resolved, err := requireProps(props, planePropertyNames)
		if err != nil {
			return nil, nil, fmt.Errorf("plane %d: %w", pid, err)
		}

		typeVal := resolved["type"].Value
		plane := &Plane{
			ID:        pid,
			CrtcID:    resolved["CRTC_ID"],
			FbID:      resolved["FB_ID"],
			SrcX:      resolved["SRC_X"],
			SrcY:      resolved["SRC_Y"],
			SrcW:      resolved["SRC_W"],
			SrcH:      resolved["SRC_H"],
			CrtcX:     resolved["CRTC_X"],
			CrtcY:     resolved["CRTC_Y"],
			CrtcW:     resolved["CRTC_W"],
			CrtcH:     resolved["CRTC_H"],
			InFenceFd: resolved["IN_FENCE_FD"],
		}
		switch typeVal {
		case 1: // DRM_PLANE_TYPE_PRIMARY
			plane.Type = PlaneTypePrimary
			if primary == nil {
				primary = plane
			}
		case 2: // DRM_PLANE_TYPE_CURSOR
			plane.Type = PlaneTypeCursor
			if cursor == nil {
				cursor = plane
			}
		}
	}
	return primary, cursor, nil
}

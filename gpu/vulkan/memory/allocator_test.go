package memory

import "testing"

func TestFirstSetBit(t *testing.T) {
	tests := []struct {
		mask    uint32
		wantBit uint32
		wantOK  bool
	}{
		{mask: 0, wantOK: false},
		{mask: 0b1, wantBit: 0, wantOK: true},
		{mask: 0b100, wantBit: 2, wantOK: true},
		{mask: 0xFFFFFFFF, wantBit: 0, wantOK: true},
	}
	for _, tt := range tests {
		bit, ok := firstSetBit(tt.mask)
		if ok != tt.wantOK || (ok && bit != tt.wantBit) {
			t.Errorf("firstSetBit(%#x) = (%d, %v), want (%d, %v)", tt.mask, bit, ok, tt.wantBit, tt.wantOK)
		}
	}
}

func TestDefaultConfigIsInternallyConsistent(t *testing.T) {
	c := DefaultConfig()
	if c.MinSlotSize == 0 || c.BlockSize == 0 {
		t.Fatal("DefaultConfig produced a zero-size field")
	}
	if c.BlockSize%c.MinSlotSize != 0 {
		t.Fatalf("BlockSize %d is not a multiple of MinSlotSize %d", c.BlockSize, c.MinSlotSize)
	}
	if c.DedicatedThreshold > c.BlockSize {
		t.Fatalf("DedicatedThreshold %d exceeds BlockSize %d, dedicated-allocation path would never trigger below a full block", c.DedicatedThreshold, c.BlockSize)
	}
}

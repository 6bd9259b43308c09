package vulkan

import "testing"

func TestFirstSetBit(t *testing.T) {
	tests := []struct {
		mask     uint32
		wantBit  uint32
		wantOK   bool
	}{
		{mask: 0, wantBit: 0, wantOK: false},
		{mask: 0b1, wantBit: 0, wantOK: true},
		{mask: 0b10, wantBit: 1, wantOK: true},
		{mask: 0b1010, wantBit: 1, wantOK: true},
		{mask: 0x80000000, wantBit: 31, wantOK: true},
	}
	for _, tt := range tests {
		bit, ok := firstSetBit(tt.mask)
		if ok != tt.wantOK || (ok && bit != tt.wantBit) {
			t.Errorf("firstSetBit(%#x) = (%d, %v), want (%d, %v)", tt.mask, bit, ok, tt.wantBit, tt.wantOK)
		}
	}
}

package vulkan

import "testing"

func TestToNDC(t *testing.T) {
	tests := []struct {
		name      string
		v         int32
		extent    uint32
		want      float32
	}{
		{name: "origin", v: 0, extent: 100, want: -1},
		{name: "far edge", v: 100, extent: 100, want: 1},
		{name: "midpoint", v: 50, extent: 100, want: 0},
	}
	for _, tt := range tests {
		if got := toNDC(tt.v, tt.extent); got != tt.want {
			t.Errorf("%s: toNDC(%d, %d) = %v, want %v", tt.name, tt.v, tt.extent, got, tt.want)
		}
	}
}

package memory

import "testing"

func TestNewBuddyRegion(t *testing.T) {
	tests := []struct {
		name    string
		size    uint64
		minSlot uint64
		wantErr bool
	}{
		{name: "valid 1MB region, 256B slot", size: 1 << 20, minSlot: 256, wantErr: false},
		{name: "valid equal size and slot", size: 4096, minSlot: 4096, wantErr: false},
		{name: "invalid zero size", size: 0, minSlot: 256, wantErr: true},
		{name: "invalid zero slot", size: 1 << 20, minSlot: 0, wantErr: true},
		{name: "invalid non-power-of-2 size", size: 1000, minSlot: 256, wantErr: true},
		{name: "invalid non-power-of-2 slot", size: 1 << 20, minSlot: 300, wantErr: true},
		{name: "invalid slot bigger than size", size: 256, minSlot: 4096, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newBuddyRegion(tt.size, tt.minSlot)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newBuddyRegion(%d, %d) error = %v, wantErr %v", tt.size, tt.minSlot, err, tt.wantErr)
			}
		})
	}
}

func TestBuddyRegionAllocRoundsUpToSlot(t *testing.T) {
	r, err := newBuddyRegion(1<<16, 256)
	if err != nil {
		t.Fatal(err)
	}
	s, err := r.alloc(100)
	if err != nil {
		t.Fatal(err)
	}
	if s.Size != 256 {
		t.Fatalf("alloc(100) returned size %d, want 256", s.Size)
	}
}

func TestBuddyRegionAllocExhaustion(t *testing.T) {
	r, err := newBuddyRegion(1024, 256)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if _, err := r.alloc(256); err != nil {
			t.Fatalf("alloc %d failed: %v", i, err)
		}
	}
	if _, err := r.alloc(256); err != ErrOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory on 5th alloc, got %v", err)
	}
}

func TestBuddyRegionFreeMergesSiblings(t *testing.T) {
	r, err := newBuddyRegion(1024, 256)
	if err != nil {
		t.Fatal(err)
	}
	slots := make([]slot, 4)
	for i := range slots {
		s, err := r.alloc(256)
		if err != nil {
			t.Fatal(err)
		}
		slots[i] = s
	}
	for _, s := range slots {
		if err := r.free2(s); err != nil {
			t.Fatalf("free2(%+v) = %v", s, err)
		}
	}
	// Fully merged back: a full-size allocation must now succeed.
	if _, err := r.alloc(1024); err != nil {
		t.Fatalf("alloc(1024) after full free failed to merge buddies: %v", err)
	}
}

func TestBuddyRegionDoubleFree(t *testing.T) {
	r, err := newBuddyRegion(1024, 256)
	if err != nil {
		t.Fatal(err)
	}
	s, err := r.alloc(256)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.free2(s); err != nil {
		t.Fatal(err)
	}
	if err := r.free2(s); err != ErrDoubleFree {
		t.Fatalf("expected ErrDoubleFree on second free, got %v", err)
	}
}

func TestBuddyRegionAllocOversized(t *testing.T) {
	r, err := newBuddyRegion(1024, 256)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.alloc(2048); err != ErrInvalidSize {
		t.Fatalf("expected ErrInvalidSize for oversized alloc, got %v", err)
	}
}

func TestRoundUpPow2(t *testing.T) {
	tests := []struct{ in, want uint64 }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8}, {1024, 1024}, {1025, 2048},
	}
	for _, tt := range tests {
		if got := roundUpPow2(tt.in); got != tt.want {
			t.Errorf("roundUpPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

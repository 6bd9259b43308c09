package drm

import "testing"

func TestPropertyStageNoopWhenUnchanged(t *testing.T) {
	p := NewProperty(1, 42)
	if p.Stage(42) {
		t.Fatal("Stage should report false when the value is unchanged")
	}
	if _, ok := p.Pending(); ok {
		t.Fatal("no pending value should be recorded")
	}
}

func TestPropertyApplyPromotesPending(t *testing.T) {
	p := NewProperty(1, 42)
	if !p.Stage(7) {
		t.Fatal("Stage should report true for a changing value")
	}
	if v, ok := p.Pending(); !ok || v != 7 {
		t.Fatalf("Pending() = %v, %v, want 7, true", v, ok)
	}
	if p.Value != 42 {
		t.Fatalf("Value mutated before Apply: got %d", p.Value)
	}
	p.Apply()
	if p.Value != 7 {
		t.Fatalf("Value after Apply = %d, want 7", p.Value)
	}
	if _, ok := p.Pending(); ok {
		t.Fatal("pending should be cleared after Apply")
	}
}

func TestPropertyDiscardLeavesValueUntouched(t *testing.T) {
	p := NewProperty(1, 42)
	p.Stage(7)
	p.Discard()
	if p.Value != 42 {
		t.Fatalf("Discard must never mutate Value: got %d", p.Value)
	}
	if _, ok := p.Pending(); ok {
		t.Fatal("pending should be cleared after Discard")
	}
}

// TestChangeSetApplyVsDiscard exercises invariant 8: a failed commit must
// never leave any staged property's Value mutated.
func TestChangeSetApplyVsDiscard(t *testing.T) {
	crtcID := NewProperty(10, 0)
	fbID := NewProperty(11, 100)

	cs := NewChangeSet()
	cs.ChangeObject(5, func(o *ObjectChanges) {
		o.Stage(&crtcID, 7)
		o.Stage(&fbID, 200)
	})
	if cs.IsEmpty() {
		t.Fatal("change set should not be empty after staging two writes")
	}

	cs.Discard()
	if crtcID.Value != 0 || fbID.Value != 100 {
		t.Fatalf("Discard must leave Values unchanged, got crtc=%d fb=%d", crtcID.Value, fbID.Value)
	}

	cs2 := NewChangeSet()
	cs2.ChangeObject(5, func(o *ObjectChanges) {
		o.Stage(&crtcID, 7)
		o.Stage(&fbID, 200)
	})
	cs2.Apply()
	if crtcID.Value != 7 || fbID.Value != 200 {
		t.Fatalf("Apply should promote both staged values, got crtc=%d fb=%d", crtcID.Value, fbID.Value)
	}
}

func TestObjectChangesStageSkipsUnchangedProperty(t *testing.T) {
	active := NewProperty(20, 1)
	cs := NewChangeSet()
	cs.ChangeObject(9, func(o *ObjectChanges) {
		if o.Stage(&active, 1) {
			t.Fatal("Stage should return false for an unchanged value")
		}
	})
	if !cs.IsEmpty() {
		t.Fatal("no write should have been recorded for an unchanged property")
	}
}

func TestObjectChangesChangeAlwaysRecords(t *testing.T) {
	cs := NewChangeSet()
	cs.ChangeObject(9, func(o *ObjectChanges) {
		o.Change(30, 123)
	})
	if cs.IsEmpty() {
		t.Fatal("Change should unconditionally record a write")
	}
	if len(cs.objs) != 1 || cs.objs[0] != 9 || cs.props[0] != 30 || cs.values[0] != 123 {
		t.Fatalf("unexpected change-set contents: %+v %+v %+v", cs.objs, cs.props, cs.values)
	}
}

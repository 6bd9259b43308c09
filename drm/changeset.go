package drm

// ChangeSet accumulates one atomic commit's property writes across any
// number of KMS objects (planes, CRTCs). Building it never mutates a
// Property's Value; only Apply (called after a confirmed-successful
// commit) or Discard (called after a failed one) resolves the staged
// writes — the mechanism invariant 8 requires ("if an atomic commit
// fails, no property's value is mutated; only pending_value can hold
// speculative state").
type ChangeSet struct {
	objs   []uint32
	props  []uint32
	values []uint64
	staged []*Property
}

// NewChangeSet starts an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// ObjectChanges accumulates writes for one KMS object within a ChangeSet.
type ObjectChanges struct {
	cs  *ChangeSet
	obj uint32
}

// ChangeObject returns a handle scoped to obj; fn stages property writes
// on it. Mirrors the teacher-domain `changes.change_object(id, |c| {...})`
// closure shape from the present-loop grounding source.
func (c *ChangeSet) ChangeObject(obj uint32, fn func(o *ObjectChanges)) {
	fn(&ObjectChanges{cs: c, obj: obj})
}

// Change unconditionally records a raw property write (used for values
// with no tracked Property, e.g. fb_id which always changes).
func (o *ObjectChanges) Change(propID uint32, value uint64) {
	o.cs.objs = append(o.cs.objs, o.obj)
	o.cs.props = append(o.cs.props, propID)
	o.cs.values = append(o.cs.values, value)
}

// Stage records a write against a tracked Property only if it actually
// changes that property's value, returning whether it did. Staged
// properties are resolved together by the ChangeSet's Apply/Discard.
func (o *ObjectChanges) Stage(p *Property, value uint64) bool {
	if !p.Stage(value) {
		return false
	}
	o.Change(p.ID, value)
	o.cs.staged = append(o.cs.staged, p)
	return true
}

// IsEmpty reports whether any property writes were staged.
func (c *ChangeSet) IsEmpty() bool { return len(c.objs) == 0 }

// Apply promotes every staged Property's pending value to Value. Call
// only after Master.Commit reports success.
func (c *ChangeSet) Apply() {
	for _, p := range c.staged {
		p.Apply()
	}
}

// Discard drops every staged Property's pending value without touching
// Value. Call after Master.Commit reports failure.
func (c *ChangeSet) Discard() {
	for _, p := range c.staged {
		p.Discard()
	}
}

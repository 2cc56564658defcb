package domain

// PermissionSet holds one flag per Action for a single module.
type PermissionSet struct {
	View   bool `json:"view" bson:"view"`
	Create bool `json:"create" bson:"create"`
	Edit   bool `json:"edit" bson:"edit"`
	Delete bool `json:"delete" bson:"delete"`
}

// FullAccess grants every action.
func FullAccess() PermissionSet {
	return PermissionSet{View: true, Create: true, Edit: true, Delete: true}
}

// ReadOnly grants view only.
func ReadOnly() PermissionSet {
	return PermissionSet{View: true}
}

// Allows reports the flag stored for a. Unknown actions are denied.
func (p PermissionSet) Allows(a Action) bool {
	switch a {
	case ActionView:
		return p.View
	case ActionCreate:
		return p.Create
	case ActionEdit:
		return p.Edit
	case ActionDelete:
		return p.Delete
	}
	return false
}

func (p PermissionSet) any() bool {
	return p.View || p.Create || p.Edit || p.Delete
}

// PermissionMatrix maps modules to their permission sets. It is sparse:
// a missing module grants nothing.
type PermissionMatrix map[Module]PermissionSet

// Allows is safe to call on a nil matrix.
func (m PermissionMatrix) Allows(module Module, a Action) bool {
	set, ok := m[module]
	if !ok {
		return false
	}
	return set.Allows(a)
}

// Clone returns an independent copy of m.
func (m PermissionMatrix) Clone() PermissionMatrix {
	if m == nil {
		return nil
	}
	out := make(PermissionMatrix, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Granted returns only the modules with at least one allowed action.
func (m PermissionMatrix) Granted() PermissionMatrix {
	out := make(PermissionMatrix)
	for k, v := range m {
		if v.any() {
			out[k] = v
		}
	}
	return out
}

// OverrideSet is a per-user exception for a single module. Each action is
// tri-state: nil leaves the role decision in place, true allows, false denies.
type OverrideSet struct {
	View   *bool `json:"view,omitempty" bson:"view,omitempty"`
	Create *bool `json:"create,omitempty" bson:"create,omitempty"`
	Edit   *bool `json:"edit,omitempty" bson:"edit,omitempty"`
	Delete *bool `json:"delete,omitempty" bson:"delete,omitempty"`
}

// Grant returns a pointer to v for building an OverrideSet literal.
func Grant(v bool) *bool {
	return &v
}

func (o OverrideSet) field(a Action) *bool {
	switch a {
	case ActionView:
		return o.View
	case ActionCreate:
		return o.Create
	case ActionEdit:
		return o.Edit
	case ActionDelete:
		return o.Delete
	}
	return nil
}

// Decision returns the override for a and whether one is set at all.
func (o OverrideSet) Decision(a Action) (allowed, set bool) {
	v := o.field(a)
	if v == nil {
		return false, false
	}
	return *v, true
}

// IsEmpty reports whether no action carries an override.
func (o OverrideSet) IsEmpty() bool {
	return o.View == nil && o.Create == nil && o.Edit == nil && o.Delete == nil
}

// Clone copies the pointed-to values so callers cannot alias stored state.
func (o OverrideSet) Clone() OverrideSet {
	dup := func(p *bool) *bool {
		if p == nil {
			return nil
		}
		return Grant(*p)
	}
	return OverrideSet{View: dup(o.View), Create: dup(o.Create), Edit: dup(o.Edit), Delete: dup(o.Delete)}
}

// OverrideMatrix is the sparse per-user override layer.
type OverrideMatrix map[Module]OverrideSet

func (m OverrideMatrix) Clone() OverrideMatrix {
	if m == nil {
		return nil
	}
	out := make(OverrideMatrix, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// With returns a copy of m where module is replaced by set. An empty set
// removes the module entry.
func (m OverrideMatrix) With(module Module, set OverrideSet) OverrideMatrix {
	out := m.Clone()
	if out == nil {
		out = make(OverrideMatrix)
	}
	if set.IsEmpty() {
		delete(out, module)
		return out
	}
	out[module] = set.Clone()
	return out
}

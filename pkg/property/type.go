package property

// Type identifies an object kind in the single-inheritance table used for
// metadata resolution and owner checks.
type Type struct {
	name  string
	base  *Type
	depth int
}

// NewType declares a kind. base is nil for roots.
func NewType(name string, base *Type) *Type {
	t := &Type{name: name, base: base}
	if base != nil {
		t.depth = base.depth + 1
	}
	return t
}

// Name returns the kind name.
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// Base returns the parent kind, or nil for roots.
func (t *Type) Base() *Type {
	return t.base
}

// Depth returns the number of ancestors.
func (t *Type) Depth() int {
	return t.depth
}

// IsA reports whether t is other or descends from it.
func (t *Type) IsA(other *Type) bool {
	if other == nil {
		return false
	}
	for c := t; c != nil; c = c.base {
		if c == other {
			return true
		}
	}
	return false
}

func (t *Type) String() string {
	return t.Name()
}

// Object is anything that carries a property store.
type Object interface {
	DependencyType() *Type
	Properties() *Store
}

// ChangeObserver is implemented by objects that want to react to their own
// property changes after the metadata callback has run. The element base uses
// this to interpret layout and render flags.
type ChangeObserver interface {
	PropertyChanged(d *Descriptor, meta Metadata, oldValue, newValue any)
}

package property

// Property is a typed handle to a Descriptor. Its helpers panic on
// configuration errors, which always indicate a programming mistake.
type Property[T any] struct {
	d *Descriptor
}

// Of wraps an existing descriptor. The caller guarantees T matches its value
// type.
func Of[T any](d *Descriptor) Property[T] {
	return Property[T]{d: d}
}

// Descriptor returns the untyped descriptor.
func (p Property[T]) Descriptor() *Descriptor {
	return p.d
}

func (p Property[T]) String() string {
	return p.d.String()
}

// Get returns the value of p on o. A cleared property reads as its
// metadata default without caching it; a nil value reads as the zero T.
func (p Property[T]) Get(o Object) T {
	v, err := o.Properties().GetValue(p.d)
	if err != nil {
		panic(err)
	}
	if v == Unset {
		v = p.d.Metadata(o).DefaultValue(p.d, o)
		if converted, ok := convertScalar(v, p.d.valueType); ok {
			v = converted
		}
	}
	t, _ := v.(T)
	return t
}

// Set writes value on o and returns the previous value.
func (p Property[T]) Set(o Object, value T) T {
	old, err := o.Properties().SetValue(p.d, value)
	if err != nil {
		panic(err)
	}
	t, _ := old.(T)
	return t
}

// Clear resets p on o to Unset.
func (p Property[T]) Clear(o Object) {
	if _, err := o.Properties().ClearValue(p.d); err != nil {
		panic(err)
	}
}

// Has reports whether o holds a value for p.
func (p Property[T]) Has(o Object) bool {
	return o.Properties().HasValue(p.d)
}

// OverrideMetadata replaces p's metadata for sub; see Descriptor.OverrideMetadata.
func (p Property[T]) OverrideMetadata(sub *Type, meta Metadata) {
	p.d.MustOverrideMetadata(sub, meta)
}

// Suspend mutes change notifications of p on o.
func (p Property[T]) Suspend(o Object) { p.d.Suspend(o) }

// Unsuspend resumes change notifications of p on o.
func (p Property[T]) Unsuspend(o Object) { p.d.Unsuspend(o) }

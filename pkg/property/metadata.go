package property

import (
	"fmt"

	"github.com/go-breeze/breeze/pkg/errors"
)

// ChangedCallback is invoked with the old and new value before the new value
// is committed.
type ChangedCallback func(d *Descriptor, o Object, oldValue, newValue any)

// CoerceCallback may transform a value before it is stored. The result must
// still be assignable to the property type.
type CoerceCallback func(d *Descriptor, o Object, value any) any

// DefaultFactory computes a default value for a specific object.
type DefaultFactory func(d *Descriptor, o Object) any

// Validator accepts or rejects a value for a property.
type Validator func(value any) bool

// Metadata describes how a property behaves for one owner kind.
type Metadata interface {
	DefaultValue(d *Descriptor, o Object) any
	CoerceValue(d *Descriptor, o Object, value any) (any, error)
	PropertyChanged(d *Descriptor, o Object, oldValue, newValue any)
}

// PropertyMetadata is the plain Metadata implementation.
type PropertyMetadata struct {
	// Default is returned when Factory is nil.
	Default any
	// Factory, when set, computes the default per object.
	Factory DefaultFactory
	// OnChanged is called on every notified change.
	OnChanged ChangedCallback
	// OnCoerce transforms values before they are stored.
	OnCoerce CoerceCallback
}

// DefaultValue returns the factory result or the static default.
func (m *PropertyMetadata) DefaultValue(d *Descriptor, o Object) any {
	if m.Factory != nil {
		return m.Factory(d, o)
	}
	return m.Default
}

// CoerceValue runs OnCoerce and checks the result is assignable.
func (m *PropertyMetadata) CoerceValue(d *Descriptor, o Object, value any) (any, error) {
	if m.OnCoerce == nil {
		if !d.IsValueAssignable(value) {
			return nil, &errors.ConfigError{
				Kind:     errors.TypeMismatch,
				Property: d.String(),
				Detail:   fmt.Sprintf("value %v (%T) is not valid", value, value),
			}
		}
		return value, nil
	}
	coerced := m.OnCoerce(d, o, value)
	if !d.IsValueAssignable(coerced) {
		return nil, &errors.ConfigError{
			Kind:     errors.InvalidCoercion,
			Property: d.String(),
			Detail:   fmt.Sprintf("coerced value %v (%T) is not valid", coerced, coerced),
		}
	}
	return coerced, nil
}

// PropertyChanged forwards to OnChanged.
func (m *PropertyMetadata) PropertyChanged(d *Descriptor, o Object, oldValue, newValue any) {
	if m.OnChanged != nil {
		m.OnChanged(d, o, oldValue, newValue)
	}
}

// Flags are declarative effects a property change has on an element. The
// store never reads them; the element base does.
type Flags uint8

const (
	AffectsLayout Flags = 1 << iota
	AffectsParentLayout
	AffectsRender
	Inherits

	FlagsNone Flags = 0
)

// Has reports whether all bits in f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// FrameworkMetadata is PropertyMetadata plus effect flags.
type FrameworkMetadata struct {
	PropertyMetadata
	Flags Flags
}

// MetadataFlags exposes the effect flags.
func (m *FrameworkMetadata) MetadataFlags() Flags {
	return m.Flags
}

// AffectsLayout reports whether a change requires re-measuring the element.
func (m *FrameworkMetadata) AffectsLayout() bool { return m.Flags.Has(AffectsLayout) }

// AffectsParentLayout reports whether a change requires re-measuring the parent.
func (m *FrameworkMetadata) AffectsParentLayout() bool { return m.Flags.Has(AffectsParentLayout) }

// AffectsRender reports whether a change requires a redraw.
func (m *FrameworkMetadata) AffectsRender() bool { return m.Flags.Has(AffectsRender) }

// Inherits reports whether the value flows to descendants.
func (m *FrameworkMetadata) Inherits() bool { return m.Flags.Has(Inherits) }

// FlagsOf returns the effect flags of meta, if it carries any.
func FlagsOf(meta Metadata) (Flags, bool) {
	if fm, ok := meta.(interface{ MetadataFlags() Flags }); ok {
		return fm.MetadataFlags(), true
	}
	return FlagsNone, false
}

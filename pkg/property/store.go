package property

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-breeze/breeze/pkg/errors"
)

type slot struct {
	value any
	set   bool
}

// Store holds one object's property values, indexed by descriptor slot.
// A slot that was never read or written holds nothing; the first read
// materializes the default.
//
// A Store is owned by the dispatcher thread of the tree it belongs to and
// is not safe for concurrent use.
type Store struct {
	self  Object
	slots []slot
}

// Init binds the store to the object that embeds it. It must be called
// before any other method.
func (s *Store) Init(self Object) {
	s.self = self
}

// Self returns the bound object.
func (s *Store) Self() Object {
	return s.self
}

// Properties returns s, so embedding a Store satisfies half of Object.
func (s *Store) Properties() *Store {
	return s
}

func (s *Store) slot(d *Descriptor) *slot {
	if d.index >= len(s.slots) {
		grown := make([]slot, d.index+1)
		copy(grown, s.slots)
		s.slots = grown
	}
	return &s.slots[d.index]
}

func (s *Store) checkOwner(d *Descriptor) error {
	if s.self == nil {
		return &errors.ConfigError{Kind: errors.OwnerMismatch, Property: d.String(), Detail: "store is not bound to an object"}
	}
	if !d.IsOwnerAssignable(s.self) {
		return &errors.ConfigError{
			Kind:     errors.OwnerMismatch,
			Property: d.String(),
			Detail:   fmt.Sprintf("object of kind %s is not suitable", s.self.DependencyType().Name()),
		}
	}
	return nil
}

// GetValue returns the stored value, materializing and caching the default
// on first read. A cleared property returns Unset.
func (s *Store) GetValue(d *Descriptor) (any, error) {
	if err := s.checkOwner(d); err != nil {
		return nil, err
	}
	sl := s.slot(d)
	if sl.set {
		return sl.value, nil
	}
	v, err := s.resolveDefault(d)
	if err != nil {
		return nil, err
	}
	// resolveDefault may run user code that grows s.slots.
	sl = s.slot(d)
	sl.value, sl.set = v, true
	return v, nil
}

func (s *Store) resolveDefault(d *Descriptor) (any, error) {
	v := d.Metadata(s.self).DefaultValue(d, s.self)
	if converted, ok := convertScalar(v, d.valueType); ok {
		v = converted
	}
	if !d.IsValueAssignable(v) {
		return nil, &errors.ConfigError{
			Kind:     errors.InvalidDefault,
			Property: d.String(),
			Detail:   fmt.Sprintf("metadata provided an invalid default value: %v (%T)", v, v),
		}
	}
	return v, nil
}

// SetValue stores value and returns the previous effective value.
//
// Scalar values are converted to the declared type first (numeric widening
// and narrowing, booleans as 0/1). The result is coerced through the
// metadata and must remain assignable. The change callback runs before the
// value is committed, unless notifications are suspended for this object or
// the coerced value equals the current one.
func (s *Store) SetValue(d *Descriptor, value any) (any, error) {
	if err := s.checkOwner(d); err != nil {
		return nil, err
	}
	if converted, ok := convertScalar(value, d.valueType); ok {
		value = converted
	}
	if !d.IsValueAssignable(value) {
		return nil, &errors.ConfigError{
			Kind:     errors.TypeMismatch,
			Property: d.String(),
			Detail:   fmt.Sprintf("%v (%T) cannot be assigned to %s", value, value, d.valueType),
		}
	}

	oldValue, err := s.GetValue(d)
	if err != nil {
		return nil, err
	}
	meta := d.Metadata(s.self)
	newValue, err := meta.CoerceValue(d, s.self, value)
	if err != nil {
		return nil, err
	}

	if !sameValue(oldValue, newValue) {
		s.raiseChanged(d, meta, oldValue, newValue)
	}
	sl := s.slot(d)
	sl.value, sl.set = newValue, true
	return oldValue, nil
}

// ClearValue resets d to Unset, notifying with Unset as the new value.
func (s *Store) ClearValue(d *Descriptor) (any, error) {
	if err := s.checkOwner(d); err != nil {
		return nil, err
	}
	sl := s.slot(d)
	var oldValue any
	if sl.set {
		oldValue = sl.value
	}
	if oldValue != Unset {
		s.raiseChanged(d, d.Metadata(s.self), oldValue, Unset)
	}
	sl = s.slot(d)
	sl.value, sl.set = Unset, true
	return oldValue, nil
}

// HasValue reports whether d holds a value other than Unset. Materialized
// defaults count as values.
func (s *Store) HasValue(d *Descriptor) bool {
	if d.index >= len(s.slots) {
		return false
	}
	sl := s.slots[d.index]
	return sl.set && sl.value != Unset
}

func (s *Store) raiseChanged(d *Descriptor, meta Metadata, oldValue, newValue any) {
	if d.IsSuspended(s.self) {
		return
	}
	meta.PropertyChanged(d, s.self, oldValue, newValue)
	if observer, ok := s.self.(ChangeObserver); ok {
		observer.PropertyChanged(d, meta, oldValue, newValue)
	}
}

// sameValue reports whether a and b are equal comparable values of the same
// dynamic type. NaN equals NaN so that auto sizes do not re-notify. Values
// whose interface fields hold uncomparable data are never equal.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	if a == b {
		return true
	}
	switch av := a.(type) {
	case float64:
		return math.IsNaN(av) && math.IsNaN(b.(float64))
	case float32:
		return av != av && b.(float32) != b.(float32)
	}
	return false
}

package property

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-breeze/breeze/pkg/errors"
)

// unsetValue is the type of the Unset sentinel.
type unsetValue struct{}

func (unsetValue) String() string { return "<unset>" }

// Unset is stored by ClearValue. It is assignable to every property.
var Unset any = &unsetValue{}

// Descriptor identifies a registered property slot. It is immutable after
// registration apart from its metadata overrides and suspension set.
type Descriptor struct {
	name        string
	valueType   reflect.Type
	owner       *Type
	index       int
	defaultMeta Metadata
	validate    Validator

	mu        sync.RWMutex
	overrides map[*Type]Metadata
	resolved  map[*Type]Metadata
	suspended map[Object]struct{}
}

// Name returns the property name.
func (d *Descriptor) Name() string { return d.name }

// ValueType returns the declared value type.
func (d *Descriptor) ValueType() reflect.Type { return d.valueType }

// Owner returns the declaring kind.
func (d *Descriptor) Owner() *Type { return d.owner }

// Index returns the store slot assigned at registration.
func (d *Descriptor) Index() int { return d.index }

// Validator returns the custom validation callback, if any.
func (d *Descriptor) Validator() Validator { return d.validate }

func (d *Descriptor) String() string {
	return d.owner.Name() + "::" + d.name
}

// DefaultMetadata returns the metadata supplied at registration.
func (d *Descriptor) DefaultMetadata() Metadata { return d.defaultMeta }

// Metadata returns the metadata that applies to o, resolved from o's
// concrete kind. A nil object gets the default metadata.
func (d *Descriptor) Metadata(o Object) Metadata {
	if o == nil {
		return d.defaultMeta
	}
	return d.MetadataFor(o.DependencyType())
}

// MetadataFor returns the override registered on the nearest ancestor of t,
// falling back to the default metadata.
func (d *Descriptor) MetadataFor(t *Type) Metadata {
	if t == nil {
		return d.defaultMeta
	}
	d.mu.RLock()
	m, ok := d.resolved[t]
	d.mu.RUnlock()
	if ok {
		return m
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	m = d.defaultMeta
	for c := t; c != nil; c = c.base {
		if o, ok := d.overrides[c]; ok {
			m = o
			break
		}
		if c == d.owner {
			break
		}
	}
	if d.resolved == nil {
		d.resolved = make(map[*Type]Metadata)
	}
	d.resolved[t] = m
	return m
}

// OverrideMetadata replaces the metadata for sub and its descendants. sub
// must descend from the owner without being the owner itself.
func (d *Descriptor) OverrideMetadata(sub *Type, meta Metadata) error {
	if meta == nil {
		return &errors.ConfigError{Kind: errors.InvalidDefault, Property: d.String(), Detail: "override metadata is nil"}
	}
	if sub == d.owner || !sub.IsA(d.owner) {
		return &errors.ConfigError{
			Kind:     errors.OwnerMismatch,
			Property: d.String(),
			Detail:   fmt.Sprintf("%s does not descend from %s", sub.Name(), d.owner.Name()),
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.overrides == nil {
		d.overrides = make(map[*Type]Metadata)
	}
	d.overrides[sub] = meta
	d.resolved = nil
	return nil
}

// MustOverrideMetadata is OverrideMetadata that panics on error. Intended for
// package-level initialisation.
func (d *Descriptor) MustOverrideMetadata(sub *Type, meta Metadata) {
	if err := d.OverrideMetadata(sub, meta); err != nil {
		panic(err)
	}
}

// IsValueAssignable reports whether value may be stored, including the
// custom validator.
func (d *Descriptor) IsValueAssignable(value any) bool {
	return d.isAssignable(value, true)
}

func (d *Descriptor) isAssignable(value any, runValidator bool) bool {
	if value == nil || value == Unset {
		return true
	}
	if !reflect.TypeOf(value).AssignableTo(d.valueType) {
		return false
	}
	return !runValidator || d.validate == nil || d.validate(value)
}

// IsOwnerAssignable reports whether o is an instance of the owner kind.
func (d *Descriptor) IsOwnerAssignable(o Object) bool {
	return o != nil && o.DependencyType().IsA(d.owner)
}

// Suspend mutes change notifications for o until Unsuspend. Calls are not
// counted: one Unsuspend resumes regardless of how many Suspend calls came
// before it.
func (d *Descriptor) Suspend(o Object) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.suspended == nil {
		d.suspended = make(map[Object]struct{})
	}
	d.suspended[o] = struct{}{}
}

// Unsuspend resumes change notifications for o.
func (d *Descriptor) Unsuspend(o Object) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.suspended, o)
}

// IsSuspended reports whether notifications for o are muted.
func (d *Descriptor) IsSuspended(o Object) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.suspended[o]
	return ok
}

// Suspended runs fn with notifications for every descriptor in ds muted on o.
// Notifications are restored even if fn panics.
func Suspended(o Object, fn func(), ds ...*Descriptor) {
	for _, d := range ds {
		d.Suspend(o)
	}
	defer func() {
		for _, d := range ds {
			d.Unsuspend(o)
		}
	}()
	fn()
}

package property

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/go-breeze/breeze/pkg/errors"
)

// nextIndex hands out store slots. It is shared by every Registry so that
// descriptors from different registries never collide inside one Store.
var nextIndex atomic.Int64

// Registry holds descriptors keyed by (owner, name).
type Registry struct {
	mu      sync.RWMutex
	byOwner map[*Type]map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byOwner: make(map[*Type]map[string]*Descriptor)}
}

// DefaultRegistry is the process-wide registry used by Register and
// MustRegister.
var DefaultRegistry = NewRegistry()

// Register declares a property. A nil meta is synthesized from the zero
// value of valueType, which must pass validator.
func (r *Registry) Register(name string, valueType reflect.Type, owner *Type, meta Metadata, validator Validator) (*Descriptor, error) {
	if name == "" || valueType == nil || owner == nil {
		return nil, &errors.ConfigError{
			Kind:   errors.InvalidDefault,
			Detail: "name, value type and owner are required",
		}
	}
	qualified := owner.Name() + "::" + name

	r.mu.Lock()
	defer r.mu.Unlock()
	byName := r.byOwner[owner]
	if byName == nil {
		byName = make(map[string]*Descriptor)
		r.byOwner[owner] = byName
	} else if _, exists := byName[name]; exists {
		return nil, &errors.ConfigError{
			Kind:     errors.DuplicateProperty,
			Property: qualified,
			Detail:   "property already registered",
		}
	}

	if meta == nil {
		zero := reflect.Zero(valueType).Interface()
		if validator != nil && !validator(zero) {
			return nil, &errors.ConfigError{
				Kind:     errors.InvalidDefault,
				Property: qualified,
				Detail:   fmt.Sprintf("metadata was nil and the validator rejects the zero value of %s", valueType),
			}
		}
		meta = &PropertyMetadata{Default: zero}
	}

	d := &Descriptor{
		name:        name,
		valueType:   valueType,
		owner:       owner,
		index:       int(nextIndex.Add(1) - 1),
		defaultMeta: meta,
		validate:    validator,
	}
	byName[name] = d
	return d, nil
}

// Lookup returns the descriptor registered for (owner, name), or nil.
func (r *Registry) Lookup(owner *Type, name string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byOwner[owner][name]
}

// Register declares a property in DefaultRegistry.
func Register(name string, valueType reflect.Type, owner *Type, meta Metadata, validator Validator) (*Descriptor, error) {
	return DefaultRegistry.Register(name, valueType, owner, meta, validator)
}

// Lookup finds a property in DefaultRegistry.
func Lookup(owner *Type, name string) *Descriptor {
	return DefaultRegistry.Lookup(owner, name)
}

// RegisterIn declares a typed property in r.
func RegisterIn[T any](r *Registry, name string, owner *Type, meta Metadata, validator Validator) (Property[T], error) {
	d, err := r.Register(name, reflect.TypeFor[T](), owner, meta, validator)
	if err != nil {
		return Property[T]{}, err
	}
	return Property[T]{d: d}, nil
}

// MustRegister declares a typed property in DefaultRegistry and panics on
// configuration errors. Intended for package-level variables.
func MustRegister[T any](name string, owner *Type, meta Metadata, validator Validator) Property[T] {
	p, err := RegisterIn[T](DefaultRegistry, name, owner, meta, validator)
	if err != nil {
		panic(err)
	}
	return p
}

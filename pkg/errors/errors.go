// Package errors provides structured error handling for the Breeze engine.
//
// Errors fall into three groups. Configuration errors (ConfigError) are
// programming mistakes such as registering the same property twice or
// assigning a value of the wrong type; they are returned or panicked
// immediately to the caller. Operation failures (OperationError) come from
// work queued on the dispatcher; they are isolated per operation and
// collected into one AggregateError per drained phase. Recovered panics are
// wrapped in PanicError.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a property or type configuration mistake.
	KindConfig
	// KindOperation indicates a failed dispatcher operation.
	KindOperation
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindRender indicates a rendering error.
	KindRender
	// KindPlatform indicates a platform layer error.
	KindPlatform
	// KindInit indicates an initialization error.
	KindInit
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindOperation:
		return "operation"
	case KindPanic:
		return "panic"
	case KindRender:
		return "render"
	case KindPlatform:
		return "platform"
	case KindInit:
		return "init"
	default:
		return "unknown"
	}
}

// BreezeError represents a structured error reported by the engine.
type BreezeError struct {
	// Op is the operation that failed (e.g., "app.Tick").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BreezeError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *BreezeError) Unwrap() error {
	return e.Err
}

// ConfigKind narrows down a configuration error.
type ConfigKind int

const (
	// DuplicateProperty means a (owner, name) pair was registered twice.
	DuplicateProperty ConfigKind = iota + 1
	// InvalidDefault means a default value failed the type or validator check.
	InvalidDefault
	// TypeMismatch means an assigned value is not assignable to the property type.
	TypeMismatch
	// OwnerMismatch means the object is not an instance of the property's owner type.
	OwnerMismatch
	// InvalidCoercion means a coerce callback produced an unassignable value.
	InvalidCoercion
)

func (k ConfigKind) String() string {
	switch k {
	case DuplicateProperty:
		return "duplicate property"
	case InvalidDefault:
		return "invalid default"
	case TypeMismatch:
		return "type mismatch"
	case OwnerMismatch:
		return "owner mismatch"
	case InvalidCoercion:
		return "invalid coercion"
	default:
		return "config"
	}
}

// ConfigError is a fatal configuration mistake. It is never retried.
type ConfigError struct {
	Kind ConfigKind
	// Property is the qualified property name (Owner::Name).
	Property string
	// Detail describes what went wrong.
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Property, e.Detail)
}

// Is reports whether target is a ConfigError of the same kind, so callers
// can write errors.Is(err, &ConfigError{Kind: TypeMismatch}).
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return t.Kind == 0 || t.Kind == e.Kind
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "dispatcher.Process").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panicked error value.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// OperationError describes one failed dispatcher operation.
type OperationError struct {
	// ID identifies the operation.
	ID string
	// Priority is the phase the operation was queued on.
	Priority string
	// Err is the failure returned (or panicked) by the work.
	Err error
	// CreationTrace is the stack captured when the operation was created,
	// empty unless trace capture is enabled.
	CreationTrace string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s [%s]: %v", e.ID, e.Priority, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// AggregateError groups every failed operation of one drained phase.
type AggregateError struct {
	// Phase is the priority bucket that was drained.
	Phase string
	// Failures holds one entry per failed operation, in execution order.
	Failures []*OperationError
}

func (e *AggregateError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "failed to invoke %d operation(s) during %s", len(e.Failures), e.Phase)
	for _, f := range e.Failures {
		sb.WriteString("\n  ")
		sb.WriteString(f.Error())
		if f.CreationTrace != "" {
			sb.WriteString("\n  creation stack trace:\n")
			for _, line := range strings.Split(strings.TrimRight(f.CreationTrace, "\n"), "\n") {
				sb.WriteString("    ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// Unwrap returns the individual operation failures.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *BreezeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

package aql

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for builder failures.
var (
	// ErrInvalidTransition indicates an operation called from a state that
	// lacks the capability it requires.
	ErrInvalidTransition = errors.New("aql: invalid transition")
	// ErrBind indicates a value that could not be bound as a parameter.
	ErrBind = errors.New("aql: cannot bind parameter")
	// ErrUnknownField indicates a field missing from the bound schema.
	ErrUnknownField = errors.New("aql: unknown field")
)

// TransitionError is recorded by Builder on the first illegal call.
type TransitionError struct {
	Step  Step
	Phase Phase
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.Step.Initial() {
		return fmt.Sprintf("aql: %s called on %s: an operation kind is already chosen", e.Step, e.Phase)
	}
	if e.Phase == PhaseEmpty {
		return fmt.Sprintf("aql: %s called on %s: choose create, read, update or delete first", e.Step, e.Phase)
	}
	return fmt.Sprintf("aql: %s called on %s: requires %s, state has %s",
		e.Step, e.Phase, e.Step.Requires(), Capabilities(e.Phase))
}

// Is reports whether the target matches the sentinel error for TransitionError.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// BindError reports a parameter value rejected by the operation binding it.
type BindError struct {
	Op      string
	Param   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	var b strings.Builder
	b.WriteString("aql: cannot bind parameter")
	if e.Param != "" {
		b.WriteString(" ")
		b.WriteString(e.Param)
	}
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *BindError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for BindError.
func (e *BindError) Is(target error) bool {
	return target == ErrBind
}

// FieldError reports a field name the bound schema does not declare.
type FieldError struct {
	Schema string
	Field  string
	Step   Step
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("aql: %s: schema %s has no field %q", e.Step, e.Schema, e.Field)
}

// Is reports whether the target matches the sentinel error for FieldError.
func (e *FieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// IsTransitionError reports whether the error is a TransitionError.
func IsTransitionError(err error) bool {
	var tErr *TransitionError
	return errors.As(err, &tErr)
}

// IsBindError reports whether the error is a BindError.
func IsBindError(err error) bool {
	var bErr *BindError
	return errors.As(err, &bErr)
}

// IsFieldError reports whether the error is a FieldError.
func IsFieldError(err error) bool {
	var fErr *FieldError
	return errors.As(err, &fErr)
}

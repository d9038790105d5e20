package meta

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("meta: invalid descriptor")
	// ErrTypeMismatch matches every *TypeMismatchError through errors.Is.
	ErrTypeMismatch = errors.New("meta: default does not match data type")
)

// ValidationError reports a descriptor option that cannot be accepted. No
// descriptor is produced when construction fails.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ErrValidation.Error()
	}
	if e.Value == nil {
		return fmt.Sprintf("meta: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("meta: invalid %s %q: %s", e.Field, fmt.Sprint(e.Value), e.Reason)
}

// Is lets callers test for ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TypeMismatchError reports an explicit default whose runtime shape is not
// assignable to the declared data type.
type TypeMismatchError struct {
	Key      string
	DataType DataType
	Value    any
}

func (e *TypeMismatchError) Error() string {
	if e == nil {
		return ErrTypeMismatch.Error()
	}
	return fmt.Sprintf("meta: field %q default %v (%T) is not assignable to %s", e.Key, e.Value, e.Value, e.DataType)
}

// Is lets callers test for ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

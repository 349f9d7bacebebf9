package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches the name of a message or model attribute to err, so that a
// validation failure can be reported per field. Nested attributes use dot
// notation (Amount.Ticker), list elements their index (Coins.1). Returns nil
// for a nil err.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	// the stack is recorded once, at the innermost wrap
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{name: name, desc: description, cause: err}
}

// AppendField adds the field error, if any, to errs.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	name  string
	desc  string
	cause error
}

func (e *fieldError) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("field %q: %s: %s", e.name, e.desc, e.cause)
	}
	return fmt.Sprintf("field %q: %s", e.name, e.cause)
}

func (e *fieldError) Cause() error  { return e.cause }
func (e *fieldError) Field() string { return e.name }

type fielder interface {
	Field() string
}

// FieldErrors collects the errors reported for the named field, looking
// into multi errors and through wrapping.
func FieldErrors(err error, name string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == name {
			return append(found, err)
		}
		switch e := err.(type) {
		case unpacker:
			// Unpack covers every child, causes included
			for _, child := range e.Unpack() {
				found = append(found, FieldErrors(child, name)...)
			}
			return found
		case causer:
			err = e.Cause()
		default:
			return found
		}
	}
	return found
}

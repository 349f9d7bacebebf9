package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error is provided, nil is returned. If only one non-nil error is
// provided, it is returned as it is.
func Append(errs ...error) error {
	var merr multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			merr = append(merr, m...)
		} else {
			merr = append(merr, e)
		}
	}
	switch len(merr) {
	case 0:
		return nil
	case 1:
		return merr[0]
	default:
		return merr
	}
}

type multiErr []error

func (errs multiErr) Error() string {
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first error.
func (errs multiErr) ABCICode() uint32 {
	return abciCode(errs[0])
}

// Unpack returns all errors clubbed together.
func (errs multiErr) Unpack() []error {
	return errs
}

type unpacker interface {
	Unpack() []error
}

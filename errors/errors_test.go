package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind *Error
		err  error
		want bool
	}{
		"same instance": {
			kind: ErrNotFound,
			err:  ErrNotFound,
			want: true,
		},
		"wrapped": {
			kind: ErrNotFound,
			err:  Wrap(Wrap(ErrNotFound, "first"), "second"),
			want: true,
		},
		"different kind": {
			kind: ErrNotFound,
			err:  Wrap(ErrUnauthorized, "nope"),
			want: false,
		},
		"stdlib error": {
			kind: ErrInput,
			err:  stderrors.New("input"),
			want: false,
		},
		"nil kind matches nil": {
			kind: nil,
			err:  nil,
			want: true,
		},
		"nil kind matches typed nil": {
			kind: nil,
			err:  (*Error)(nil),
			want: true,
		},
		"nil kind does not match error": {
			kind: nil,
			err:  ErrInput,
			want: false,
		},
		"member of multi error": {
			kind: ErrAmount,
			err:  Append(ErrInput, Wrap(ErrAmount, "negative")),
			want: true,
		},
		"field error": {
			kind: ErrEmpty,
			err:  Field("Payer", ErrEmpty, "required"),
			want: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Is(tc.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestWrapMessage(t *testing.T) {
	err := Wrapf(ErrInput, "field %s", "amount")
	assert.Equal(t, "field amount: invalid input", err.Error())

	err = ErrState.Newf("state %d", 7)
	assert.Equal(t, "state 7: invalid state", err.Error())
	assert.True(t, ErrState.Is(err))
}

func TestWrapStacktrace(t *testing.T) {
	err := Wrap(Wrap(ErrHuman, "inner"), "outer")
	full := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(full, "outer: inner: coding error"))
	assert.Contains(t, full, "errors_test.go")
	assert.Equal(t, "outer: inner: coding error", fmt.Sprintf("%v", err))
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fn()
	assert.True(t, ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestRegisterDuplicate(t *testing.T) {
	assert.Panics(t, func() { Register(ErrNotFound.code, "again") })
}

func TestAppend(t *testing.T) {
	assert.Nil(t, Append())
	assert.Nil(t, Append(nil, nil))
	assert.Equal(t, ErrInput, Append(nil, ErrInput))

	err := Append(ErrInput, ErrEmpty, Append(ErrAmount, ErrType))
	assert.Equal(t, 4, len(err.(multiErr)))
	assert.Equal(t, ErrInput.code, abciCode(err))
	assert.Contains(t, err.Error(), "4 errors occurred")
}

package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Payer", ErrEmpty, "required"),
		Field("Amount", ErrAmount, "must be %s", "positive"),
		Field("Payer", ErrInput, ""),
	)

	payer := FieldErrors(err, "Payer")
	assert.Len(t, payer, 2)
	assert.True(t, ErrEmpty.Is(payer[0]))
	assert.True(t, ErrInput.Is(payer[1]))

	amount := FieldErrors(err, "Amount")
	assert.Len(t, amount, 1)
	assert.Equal(t, `field "Amount": must be positive: invalid amount`, amount[0].Error())

	assert.Empty(t, FieldErrors(err, "Receiver"))
	assert.Nil(t, Field("Payer", nil, "ignored"))
	assert.Nil(t, AppendField(nil, "Payer", nil))
}

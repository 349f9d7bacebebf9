package orm

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiRef(t *testing.T) {
	m, err := NewMultiRef([]byte("c"), []byte("a"), []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)

	assert.True(t, errors.ErrDuplicate.Is(m.Add([]byte("b"))))
	require.NoError(t, m.Remove([]byte("b")))
	assert.True(t, errors.ErrNotFound.Is(m.Remove([]byte("b"))))

	raw, err := m.Marshal()
	require.NoError(t, err)
	var back MultiRef
	require.NoError(t, back.Unmarshal(raw))
	assert.Equal(t, m.Refs, back.Refs)

	assert.True(t, errors.ErrEmpty.Is(new(MultiRef).Validate()))
}

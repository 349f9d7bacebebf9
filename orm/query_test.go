package orm

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		end    []byte
	}{
		"normal":                 {[]byte{1, 3, 4}, []byte{1, 3, 5}},
		"normal short":           {[]byte{79}, []byte{80}},
		"empty cases":            {nil, nil},
		"roll-over example 1":    {[]byte{17, 28, 255}, []byte{17, 29, 0}},
		"roll-over example 2":    {[]byte{15, 42, 255, 255}, []byte{15, 43, 0, 0}},
		"pathological roll-over": {[]byte{255, 255, 255, 255}, nil},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.prefix, start)
			assert.Equal(t, tc.end, end)
		})
	}
}

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, db.Set([]byte("esc:a"), []byte("1")))
	require.NoError(t, db.Set([]byte("esc:b"), []byte("2")))
	require.NoError(t, db.Set([]byte("cash:a"), []byte("3")))

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	require.NotNil(t, h)

	res, err := h.Query(db, custody.KeyQueryMod, []byte("esc:b"))
	require.NoError(t, err)
	assert.Equal(t, []custody.Model{custody.Pair([]byte("esc:b"), []byte("2"))}, res)

	res, err = h.Query(db, custody.KeyQueryMod, []byte("esc:c"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = h.Query(db, custody.PrefixQueryMod, []byte("esc:"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

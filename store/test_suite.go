package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the generic KVStore checks against any CacheableKVStore
// implementation. Both the btree cache and the iavl adapter use it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a cleanup function.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on the cache layering.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("esc:alice"), []byte("deposited")
	s.AssertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("esc:bob"), []byte("confirmed")
	require.NoError(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// a discarded cache leaves no trace
	k3, v3 := []byte("esc:carol"), []byte("deposited")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	s.AssertGetHas(t, base, k3, nil, false)

	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	require.NoError(t, c3.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that we can handle overwriting values and deleting
// underlying values.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	k1, k2, k3 := []byte("k1"), []byte("k2"), []byte("k3")
	v1, v2, v3 := []byte("v1"), []byte("v2"), []byte("v3")

	parent, cleanup := s.makeBase()
	defer cleanup()
	require.NoError(t, SetOp(k1, v1).Apply(parent))
	require.NoError(t, SetOp(k2, v2).Apply(parent))

	child := parent.CacheWrap()
	require.NoError(t, SetOp(k1, v3).Apply(child))
	require.NoError(t, SetOp(k3, v3).Apply(child))
	require.NoError(t, DelOp(k2).Apply(child))

	s.AssertGetHas(t, parent, k1, v1, true)
	s.AssertGetHas(t, parent, k2, v2, true)
	s.AssertGetHas(t, parent, k3, nil, false)

	s.AssertGetHas(t, child, k1, v3, true)
	s.AssertGetHas(t, child, k2, nil, false)
	s.AssertGetHas(t, child, k3, v3, true)

	require.NoError(t, child.Write())
	s.AssertGetHas(t, parent, k1, v3, true)
	s.AssertGetHas(t, parent, k2, nil, false)
	s.AssertGetHas(t, parent, k3, v3, true)
}

// IteratorWithConflicts makes sure the cache layer is merged with the parent
// in both directions and that deletes shadow the parent.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	parent, cleanup := s.makeBase()
	defer cleanup()
	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, parent.Set([]byte(k), []byte("p"+k)))
	}

	child := parent.CacheWrap()
	require.NoError(t, child.Set([]byte("b"), []byte("cb")))
	require.NoError(t, child.Set([]byte("c"), []byte("cc")))
	require.NoError(t, child.Delete([]byte("e")))
	require.NoError(t, child.Set([]byte("h"), []byte("ch")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full range": {
			want: []Model{
				Pair("a", "pa"), Pair("b", "cb"), Pair("c", "cc"),
				Pair("g", "pg"), Pair("h", "ch"),
			},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("g"),
			want:  []Model{Pair("b", "cb"), Pair("c", "cc")},
		},
		"reverse full range": {
			reverse: true,
			want: []Model{
				Pair("h", "ch"), Pair("g", "pg"), Pair("c", "cc"),
				Pair("b", "cb"), Pair("a", "pa"),
			},
		},
		"reverse bounded range": {
			start:   []byte("c"),
			end:     []byte("h"),
			reverse: true,
			want:    []Model{Pair("g", "pg"), Pair("c", "cc")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			defer it.Close()

			var got []Model
			for ; it.Valid(); it.Next() {
				got = append(got, Model{Key: it.Key(), Value: it.Value()})
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

// AssertGetHas checks both Get and Has for a key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

// Pair builds a model from string key and value.
func Pair(key, value string) Model {
	return Model{Key: []byte(key), Value: []byte(value)}
}

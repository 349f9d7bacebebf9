package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func btreeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeCacheGetSet(t *testing.T) {
	NewTestSuite(btreeBase).GetSet(t)
}

func TestBTreeCacheConflicts(t *testing.T) {
	NewTestSuite(btreeBase).CacheConflicts(t)
}

func TestBTreeCacheIterator(t *testing.T) {
	NewTestSuite(btreeBase).IteratorWithConflicts(t)
}

func TestNestedCacheWrap(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("k"), []byte("base")))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set([]byte("k"), []byte("outer")))

	inner := outer.CacheWrap()
	require.NoError(t, inner.Delete([]byte("k")))
	inner.Discard()

	got, err := outer.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("outer"), got)

	inner = outer.CacheWrap()
	require.NoError(t, inner.Delete([]byte("k")))
	require.NoError(t, inner.Write())
	require.NoError(t, outer.Write())

	has, err := base.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestNonAtomicBatch(t *testing.T) {
	base := MemStore()
	b := NewNonAtomicBatch(base)
	require.NoError(t, b.Set([]byte("a"), []byte("1")))
	require.NoError(t, b.Delete([]byte("b")))

	got, err := base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, b.Write())
	got, err = base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	// written ops are dropped
	require.NoError(t, base.Delete([]byte("a")))
	require.NoError(t, b.Write())
	has, err := base.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

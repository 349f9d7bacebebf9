package orm

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given model. A nil key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// compactIndex stores all keys indexed under one value as a MultiRef,
// serialized under a single database key. It is meant for small
// collections, like all escrows of a single payer.
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ custody.QueryHandler = compactIndex{}

// newCompactIndex constructs an index.
// Indexer calculates the index for a model
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func newCompactIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) compactIndex {
	return compactIndex{
		name:   name,
		id:     []byte(compactIdxPrefix + name + ":"),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

// indexKey is the full key we store in the db, including prefix.
func (i compactIndex) indexKey(value []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(value))
	copy(out, i.id)
	copy(out[l:], value)
	return out
}

// Update handles updating the reference to the model in the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
func (i compactIndex) Update(db custody.KVStore, key []byte, prev, save Model) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}

	var oldValue, newValue []byte
	if prev != nil {
		v, err := i.index(prev)
		if err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
		oldValue = v
	}
	if save != nil {
		v, err := i.index(save)
		if err != nil {
			return errors.Wrapf(err, "index %q", i.name)
		}
		newValue = v
	}

	if prev != nil && save != nil && string(oldValue) == string(newValue) {
		return nil
	}
	if oldValue != nil {
		if err := i.remove(db, oldValue, key); err != nil {
			return err
		}
	}
	if newValue != nil {
		if err := i.insert(db, newValue, key); err != nil {
			return err
		}
	}
	return nil
}

func (i compactIndex) load(db custody.ReadOnlyKVStore, value []byte) (*MultiRef, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load index")
	}
	var refs MultiRef
	if raw == nil {
		return &refs, nil
	}
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal index: %s", err)
	}
	return &refs, nil
}

func (i compactIndex) insert(db custody.KVStore, value, ref []byte) error {
	refs, err := i.load(db, value)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "unique index %q", i.name)
	}
	if err := refs.Add(ref); err != nil {
		return err
	}
	raw, err := refs.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal index")
	}
	return db.Set(i.indexKey(value), raw)
}

func (i compactIndex) remove(db custody.KVStore, value, ref []byte) error {
	refs, err := i.load(db, value)
	if err != nil {
		return err
	}
	if err := refs.Remove(ref); err != nil {
		return errors.Wrapf(err, "index %q", i.name)
	}
	if len(refs.Refs) == 0 {
		return db.Delete(i.indexKey(value))
	}
	raw, err := refs.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal index")
	}
	return db.Set(i.indexKey(value), raw)
}

// Keys returns all primary keys indexed under given value.
func (i compactIndex) Keys(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.load(db, value)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query returns all models indexed under the given value. With the prefix
// modifier all values starting with data are matched.
func (i compactIndex) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		refs, err := i.Keys(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	case custody.PrefixQueryMod:
		entries, err := queryPrefix(db, i.indexKey(data))
		if err != nil {
			return nil, err
		}
		var res []custody.Model
		for _, e := range entries {
			var refs MultiRef
			if err := refs.Unmarshal(e.Value); err != nil {
				return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal index: %s", err)
			}
			models, err := i.loadRefs(db, refs.Refs)
			if err != nil {
				return nil, err
			}
			res = append(res, models...)
		}
		return res, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

func (i compactIndex) loadRefs(db custody.ReadOnlyKVStore, refs [][]byte) ([]custody.Model, error) {
	res := make([]custody.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(err, "cannot load referenced model")
		}
		res = append(res, custody.Model{Key: key, Value: value})
	}
	return res, nil
}

/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* It has a primary key and may possess secondary indexes.
* Easy queries for one and lookups by index.
*/
package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type under a common prefix.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db custody.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Any previous value stored
	// under the key is replaced.
	Put(db custody.KVStore, key []byte, m Model) error

	// Insert saves given model in the database only if no entity is
	// stored under the key yet. It returns ErrDuplicate otherwise.
	Insert(db custody.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db custody.KVStore, key []byte) error

	// ByIndex returns all keys and models indexed under given value.
	// Destination must be a pointer to a slice of models.
	ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error)

	// Register registers the bucket and all indexes in the query router.
	Register(name string, r custody.QueryRouter)
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("index %s registered twice", name))
		}
		mb.indexes[name] = newCompactIndex(mb.name+"_"+name, indexer, unique, mb.dbKey)
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as the given prototype.
func NewModelBucket(name string, proto Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	mb := &modelBucket{
		name:      name,
		prefix:    []byte(name + ":"),
		modelType: reflect.TypeOf(proto),
		indexes:   make(map[string]compactIndex),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name      string
	prefix    []byte
	modelType reflect.Type
	indexes   map[string]compactIndex
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	l := len(mb.prefix)
	out := make([]byte, l+len(key))
	copy(out, mb.prefix)
	copy(out[l:], key)
	return out
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.modelType.Elem()).Interface().(Model)
}

// load returns the stored model or nil if it does not exist.
func (mb *modelBucket) load(db custody.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return nil, nil
	}
	m := mb.newModel()
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", m, err)
	}
	return m, nil
}

func (mb *modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if reflect.TypeOf(dest) != mb.modelType {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %T", mb.modelType, dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "zero length key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db custody.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrInput, "empty key")
	}
	if reflect.TypeOf(m) != mb.modelType {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	return mb.save(db, key, prev, m)
}

func (mb *modelBucket) Insert(db custody.KVStore, key []byte, m Model) error {
	switch err := mb.Has(db, key); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "%T already in the store", m)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) save(db custody.KVStore, key []byte, prev, m Model) error {
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal model")
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, m); err != nil {
			return errors.Wrap(err, "cannot update index")
		}
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db custody.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.ErrNotFound
	}
	for _, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return errors.Wrap(err, "cannot update index")
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

func (mb *modelBucket) ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, indexName)
	}

	dstSlice := reflect.ValueOf(dest)
	if dstSlice.Kind() != reflect.Ptr || dstSlice.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice of models")
	}
	elemType := dstSlice.Elem().Type().Elem()
	if elemType != mb.modelType && elemType != mb.modelType.Elem() {
		return nil, errors.Wrapf(errors.ErrType, "%s cannot be represented as %s", mb.modelType, elemType)
	}

	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}

	result := dstSlice.Elem()
	for _, key := range keys {
		m, err := mb.load(db, key)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "index %q refers to a missing model", indexName)
		}
		v := reflect.ValueOf(m)
		if elemType.Kind() != reflect.Ptr {
			v = v.Elem()
		}
		result = reflect.Append(result, v)
	}
	dstSlice.Elem().Set(result)
	return keys, nil
}

// Register registers this bucket and all indexes.
// You can define a name here for queries, which is
// different than the bucket name used to prefix the data
func (mb *modelBucket) Register(name string, r custody.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	root := "/" + name
	r.Register(root, mb)
	for n, idx := range mb.indexes {
		r.Register(root+"/"+n, idx)
	}
}

// Query handles queries from the QueryRouter
func (mb *modelBucket) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		key := mb.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []custody.Model{{Key: key, Value: value}}, nil
	case custody.PrefixQueryMod:
		return queryPrefix(db, mb.dbKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

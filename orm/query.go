package orm

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr custody.Iterator) []custody.Model {
	defer itr.Close()

	var res []custody.Model
	for ; itr.Valid(); itr.Next() {
		res = append(res, custody.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		})
	}
	return res
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}

// queryPrefix returns all models whose key starts with the prefix.
func queryPrefix(db custody.ReadOnlyKVStore, prefix []byte) ([]custody.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return ConsumeIterator(itr), nil
}

// RegisterQuery exposes the raw store under "/". Data is the full database
// key, or a key prefix with the "prefix" modifier.
func RegisterQuery(qr custody.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(data, value)}, nil
	case custody.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

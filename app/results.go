package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ResultSet contains a list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (r *ResultSet) Marshal() ([]byte, error) { return proto.Marshal((*resultSetWire)(r)) }

func (r *ResultSet) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*resultSetWire)(r)) }

type resultSetWire ResultSet

func (r *resultSetWire) Reset()         { *r = resultSetWire{} }
func (r *resultSetWire) String() string { return proto.CompactTextString(r) }
func (*resultSetWire) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]custody.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]custody.Model, len(kref))
	for i := range mods {
		mods[i] = custody.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o custody.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	if err := o.Unmarshal(res.Results[0]); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

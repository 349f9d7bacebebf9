package custody_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	addr := custody.Address([]byte("ABCD123456LHB"))
	assert.NotEqual(t, fmt.Sprintf("%x", []byte(addr)), addr.String())
	assert.Equal(t, fmt.Sprintf("%X", []byte(addr)), addr.String())
	assert.Equal(t, "(nil)", custody.Address(nil).String())

	cond := custody.NewCondition("foo", "bar", []byte("ABCD123456LHB"))
	assert.Equal(t, "foo/bar/"+fmt.Sprintf("%X", []byte("ABCD123456LHB")), cond.String())
}

func TestConditionParse(t *testing.T) {
	cond := custody.NewCondition("escrow", "pair", []byte{0, 1, 2})
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "escrow", ext)
	assert.Equal(t, "pair", typ)
	assert.Equal(t, []byte{0, 1, 2}, data)
	assert.NoError(t, cond.Validate())

	_, _, _, err = custody.Condition("no-slashes").Parse()
	assert.True(t, errors.ErrInput.Is(err))
	assert.Error(t, custody.Condition("ab/cd/x").Validate())
}

func TestAddressDerivation(t *testing.T) {
	a := custody.NewCondition("escrow", "pair", []byte("one")).Address()
	b := custody.NewCondition("escrow", "pair", []byte("two")).Address()
	assert.Len(t, a, custody.AddressLength)
	assert.NoError(t, a.Validate())
	assert.False(t, a.Equals(b))
	assert.True(t, a.Equals(custody.NewCondition("escrow", "pair", []byte("one")).Address()))
	assert.Nil(t, custody.NewAddress(nil))
}

func TestAddressBech32(t *testing.T) {
	addr := custody.NewCondition("foo", "bar", []byte("data")).Address()
	enc, err := addr.Bech32()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, custody.AddressPrefix+"1"), enc)

	back, err := custody.ParseAddress("bech32:" + enc)
	require.NoError(t, err)
	assert.Equal(t, addr, back)
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := custody.NewCondition("foo", "bar", []byte("conditiondata")).Address()

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr custody.Address
	}{
		"default decoding": {
			json:     fmt.Sprintf(`"%X"`, []byte(addr)),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%x"`, []byte(addr)),
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: addr,
		},
		"hex of wrong length": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a custody.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := custody.Address([]byte("0123456789abcdefghij"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(`"%X"`, []byte(addr)), string(raw))

	var back custody.Address
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, addr, back)
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition custody.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: custody.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got custody.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   custody.Condition
		wantJson string
	}{
		"cond encoding": {
			source:   custody.NewCondition("foo", "bar", []byte("conditiondata")),
			wantJson: `"foo/bar/636F6E646974696F6E64617461"`,
		},
		"nil encoding": {
			source:   nil,
			wantJson: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJson, string(got))
		})
	}
}

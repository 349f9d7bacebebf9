package sigs

import (
	"testing"

	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	cases := map[string]struct {
		ChainID string
		Seq     int64
		WantErr *errors.Error
	}{
		"valid":            {ChainID: "test-chain", Seq: 17},
		"negative":         {ChainID: "test-chain", Seq: -1, WantErr: ErrInvalidSequence},
		"invalid chain id": {ChainID: "no", Seq: 1, WantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			bz, err := BuildSignBytes([]byte("foobar"), tc.ChainID, tc.Seq)
			require.True(t, tc.WantErr.Is(err), "unexpected error: %+v", err)
			if tc.WantErr == nil {
				assert.Len(t, bz, 64)
			}
		})
	}

	a, err := BuildSignBytes([]byte("foobar"), "test-chain", 1)
	require.NoError(t, err)
	b, err := BuildSignBytes([]byte("foobar"), "test-chain", 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifySignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "hello-world"
	priv := crypto.GenPrivKeyEd25519()
	priv2 := crypto.GenPrivKeyEd25519()

	tx := newStdTx([]byte("payload"))
	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)

	tx.Signatures = nil
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{sig0}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 1)
	assert.Equal(t, priv.PublicKey().Condition(), signers[0])

	seq, err := NextNonce(kv, priv.PublicKey().Address())
	require.NoError(t, err)
	assert.EqualValues(t, 1, seq)

	// replay fails
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// wrong chain fails
	tx.Signatures = []*StdSignature{sig1}
	_, err = VerifyTxSignatures(kv, tx, "other-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tx.Signatures = []*StdSignature{sig1, sig2}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Len(t, signers, 2)
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := &UserData{Sequence: 5}
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(4)))
	require.NoError(t, u.CheckAndIncrementSequence(5))
	assert.EqualValues(t, 6, u.Sequence)

	u = &UserData{Sequence: maxSequenceValue}
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence(maxSequenceValue)))
}

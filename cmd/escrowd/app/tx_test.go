package escrowd

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/weavetest"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxMessages(t *testing.T) {
	payer := weavetest.RandomAddr(t)
	receiver := weavetest.RandomAddr(t)

	cases := map[string]struct {
		Msg     custody.Msg
		WantErr *errors.Error
	}{
		"cash send": {
			Msg: &cash.SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: payer, Destination: receiver, Amount: coin.NewCoinp(1, 0, "IOV")},
		},
		"escrow create": {
			Msg: &escrow.CreateMsg{Metadata: &custody.Metadata{Schema: 1}, Payer: payer, Receiver: receiver, Amount: coin.NewCoinp(1, 0, "IOV")},
		},
		"escrow payer cancel": {
			Msg: &escrow.PayerCancelMsg{Metadata: &custody.Metadata{Schema: 1}, Payer: payer, Receiver: receiver, Nonce: 255},
		},
		"escrow receiver confirm": {
			Msg: &escrow.ReceiverConfirmMsg{Metadata: &custody.Metadata{Schema: 1}, Payer: payer, Receiver: receiver, Nonce: 12},
		},
		"escrow payer confirm": {
			Msg: &escrow.PayerConfirmMsg{Metadata: &custody.Metadata{Schema: 1}, Payer: payer, Receiver: receiver},
		},
		"escrow update configuration": {
			Msg: &escrow.UpdateConfigurationMsg{
				Metadata: &custody.Metadata{Schema: 1},
				Patch:    &escrow.Configuration{Metadata: &custody.Metadata{Schema: 1}, AllowZeroAmount: true},
			},
		},
		"unsupported message": {
			Msg:     &unsupportedMsg{},
			WantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			tx, err := NewTx(tc.Msg)
			if tc.WantErr != nil {
				require.True(t, tc.WantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)

			raw, err := tx.Marshal()
			require.NoError(t, err)
			decoded, err := TxDecoder(raw)
			require.NoError(t, err)

			msg, err := decoded.GetMsg()
			require.NoError(t, err)
			assert.Equal(t, tc.Msg.Path(), msg.Path())
			assert.Equal(t, tc.Msg, msg)
		})
	}
}

func TestTxGetMsgRequiresOne(t *testing.T) {
	_, err := (&Tx{}).GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))

	tx := Tx{
		EscrowPayerCancelMsg:  &escrow.PayerCancelMsg{},
		EscrowPayerConfirmMsg: &escrow.PayerConfirmMsg{},
	}
	_, err = tx.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))
}

func TestTxSignBytes(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	tx, err := NewTx(&escrow.ReceiverConfirmMsg{
		Metadata: &custody.Metadata{Schema: 1},
		Payer:    weavetest.RandomAddr(t),
		Receiver: key.PublicKey().Address(),
	})
	require.NoError(t, err)

	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(key, tx, "test-chain", 0)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	signed, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signed)
	assert.Len(t, tx.GetSignatures(), 1)
}

func TestTxDecoderInvalidInput(t *testing.T) {
	_, err := TxDecoder([]byte{0xff, 0xff, 0xff})
	assert.True(t, errors.ErrInput.Is(err))
}

type unsupportedMsg struct{}

func (unsupportedMsg) Path() string                { return "test/unsupported" }
func (unsupportedMsg) Validate() error             { return nil }
func (unsupportedMsg) Marshal() ([]byte, error)    { return nil, nil }
func (*unsupportedMsg) Unmarshal(raw []byte) error { return nil }

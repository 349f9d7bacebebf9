package escrowd

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode. The same account owns the escrow
// configuration.
//
// Optional arguments are the ticker of the minted currency and the hex
// address of the account. Without an address a new key is generated and
// printed to stdout.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var addr custody.Address
	if len(args) > 1 {
		var err error
		if addr, err = custody.ParseAddress(args[1]); err != nil {
			return nil, errors.Wrap(err, "address")
		}
		if err := addr.Validate(); err != nil {
			return nil, errors.Wrap(err, "address")
		}
	} else {
		generated, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = generated
		fmt.Println(keys)
	}

	return genesisState(addr, coin.NewCoin(123456789, 0, ticker))
}

type genesisAccount struct {
	Address custody.Address `json:"address"`
	Coins   []coin.Coin     `json:"coins"`
}

type genesisConf struct {
	Metadata        *custody.Metadata `json:"metadata"`
	Owner           custody.Address   `json:"owner"`
	AllowZeroAmount bool              `json:"allow_zero_amount"`
}

func genesisState(owner custody.Address, funds coin.Coin) (json.RawMessage, error) {
	state := map[string]interface{}{
		"cash": []genesisAccount{
			{Address: owner, Coins: []coin.Coin{funds}},
		},
		"conf": map[string]interface{}{
			"escrow": genesisConf{
				Metadata: &custody.Metadata{Schema: 1},
				Owner:    owner,
			},
		},
		"escrow": []interface{}{},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key, along with the
// json representation of the key pair.
func GenerateCoinKey() (custody.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return pubKey.Address(), string(keys), nil
}

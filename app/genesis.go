package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState custody.Options `json:"app_state"`
}

// loadGenesis tries to load a given file into a Genesis struct
func loadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshal genesis file: %s", err)
	}
	return gen, nil
}

// LoadGenesis reads the genesis file and initializes the application state
// as InitChain would. It is meant for tests and tools that run the
// application without tendermint.
func (s *StoreApp) LoadGenesis(filePath string, init custody.Initializer) error {
	gen, err := loadGenesis(filePath)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(gen.AppState)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return s.parseAppState(raw, gen.ChainID, init)
}

package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagForce = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// InitCmd will add the application state to the genesis file created by
// "tendermint init". An existing app_state is only replaced when the -f
// flag is given. Remaining arguments are passed to gen.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagForce, false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	doc, err := loadGenesisDoc(genFile)
	if err != nil {
		return err
	}
	if state, ok := doc["app_state"]; ok && len(state) > 0 && string(state) != "null" && !force {
		return errors.Wrapf(errors.ErrState, "app_state already set in %s, use -%s to overwrite", genFile, flagForce)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return errors.Wrap(err, "app_state")
	}
	if err := addGenesisOptions(genFile, doc, options); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

func loadGenesisDoc(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "genesis file, run tendermint init first: %s", err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis file %s: %s", filename, err)
	}
	return doc, nil
}

func addGenesisOptions(filename string, doc GenesisDoc, options json.RawMessage) error {
	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupHome creates a home directory holding the genesis file from
// testdata, as created by "tendermint init".
func setupHome(t *testing.T) (string, func()) {
	t.Helper()

	home, err := ioutil.TempDir("", "custody-init-")
	require.NoError(t, err)
	cleanup := func() { os.RemoveAll(home) }

	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	raw, err := ioutil.ReadFile(filepath.Join("testdata", "genesis.json"))
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, "config", "genesis.json"), raw, 0600))
	return home, cleanup
}

func readAppState(t *testing.T, home string) (GenesisDoc, map[string]interface{}) {
	t.Helper()

	raw, err := ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(doc["app_state"], &state))
	return doc, state
}

func genOptions(args []string) (json.RawMessage, error) {
	if len(args) > 0 && args[0] == "fail" {
		return nil, errors.Wrap(errors.ErrInput, "requested failure")
	}
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
	}
	return json.RawMessage(`{"ticker": "` + ticker + `"}`), nil
}

func TestInitCmd(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()
	logger := log.NewNopLogger()

	require.NoError(t, InitCmd(genOptions, logger, home, []string{"ETH"}))
	doc, state := readAppState(t, home)
	assert.Equal(t, "ETH", state["ticker"])
	assert.Equal(t, `"test-chain-Xa2kMt"`, string(doc["chain_id"]))

	// the state is written only once unless forced
	err := InitCmd(genOptions, logger, home, []string{"BTC"})
	assert.True(t, errors.ErrState.Is(err), "unexpected error: %+v", err)
	_, state = readAppState(t, home)
	assert.Equal(t, "ETH", state["ticker"])

	require.NoError(t, InitCmd(genOptions, logger, home, []string{"-f", "BTC"}))
	_, state = readAppState(t, home)
	assert.Equal(t, "BTC", state["ticker"])
}

func TestInitCmdErrors(t *testing.T) {
	cases := map[string]struct {
		Args    []string
		Home    func(t *testing.T) (string, func())
		WantErr *errors.Error
	}{
		"missing genesis file": {
			Home: func(t *testing.T) (string, func()) {
				dir, err := ioutil.TempDir("", "custody-init-")
				require.NoError(t, err)
				return dir, func() { os.RemoveAll(dir) }
			},
			WantErr: errors.ErrNotFound,
		},
		"generator failure": {
			Args:    []string{"fail"},
			Home:    setupHome,
			WantErr: errors.ErrInput,
		},
		"unknown flag": {
			Args:    []string{"-nope"},
			Home:    setupHome,
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			home, cleanup := tc.Home(t)
			defer cleanup()

			err := InitCmd(genOptions, log.NewNopLogger(), home, tc.Args)
			assert.True(t, tc.WantErr.Is(err), "unexpected error: %+v", err)
		})
	}
}

package server

import (
	"flag"

	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"
)

// StartOptions are the defaults of the start command flags.
type StartOptions struct {
	Bind  string
	Debug bool
}

// DefaultStartOptions listens on the port tendermint connects to by default.
var DefaultStartOptions = StartOptions{
	Bind: "tcp://localhost:26658",
}

func parseFlags(defaults StartOptions, args []string) (StartOptions, error) {
	opts := defaults
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&opts.Bind, flagBind, defaults.Bind, "address server listens on")
	startFlags.BoolVar(&opts.Debug, flagDebug, defaults.Debug, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return opts, errors.Wrap(errors.ErrInput, err.Error())
	}
	return opts, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd initializes the application and serves it over an ABCI socket
// until the process receives a termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, home string, defaults StartOptions, args []string) error {
	opts, err := parseFlags(defaults, args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, opts.Debug)
	if err != nil {
		return errors.Wrap(err, "cannot create application")
	}

	logger.Info("Starting ABCI app", "bind", opts.Bind)

	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	cmn.TrapSignal(logger, func() {
		if err := svr.Stop(); err != nil {
			logger.Error("Cannot stop server", "err", err)
		}
	})
	// TrapSignal exits the process once the server is stopped
	select {}
}

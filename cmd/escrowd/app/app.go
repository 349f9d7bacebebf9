/*
Package escrowd links together all the various components
to construct the escrowd application.
*/
package escrowd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the abci Info call.
const Name = "escrowd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, tracing and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		utils.NewTracing(),
		sigs.NewDecorator(),
		// on DeliverTx, a failed message leaves no changes behind
		// but the signature sequence is still incremented
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching cash and escrow messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, ctrl)
	escrow.RegisterRoutes(r, authFn, escrow.NewCashLedger(ctrl))
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth", "/escrows" and "/"
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		escrow.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions, in the
// order they must run. Wallets are created before genesis escrows.
func Initializers() custody.Initializer {
	return custody.ChainInitializers(
		cash.Initializer{},
		&escrow.Initializer{Minter: cash.NewController(cash.NewBucket())},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() custody.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h custody.Handler, tx custody.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create database instance")
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create store app")
	}
	store = store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path keeps all data in memory.
func CommitKVStore(dbPath string) (custody.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewCommitStore("", "")
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// tendermint level db appends the ".db" suffix itself
	path = strings.TrimSuffix(path, ".db")
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" stays "" to use memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	stack := Stack()
	application, err := Application(Name, stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	// StoreApp is shared by pointer, so BaseApp sees the new logger
	application.WithLogger(logger)
	return application, nil
}

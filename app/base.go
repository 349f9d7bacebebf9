package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions through a handler on top of the storage and
// queries of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder custody.TxDecoder
	handler custody.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application decoding transactions with decoder and
// processing them with handler. In debug mode failures carry the full error.
func NewBaseApp(store *StoreApp, decoder custody.TxDecoder, handler custody.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx runs the transaction against the deliver store. Its changes are
// persisted on the next Commit.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare(raw, "deliver_tx")
	if err != nil {
		return custody.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return custody.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction against the check store, which is
// discarded on Commit.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare(raw, "check_tx")
	if err != nil {
		return custody.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return custody.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and returns the block context annotated
// for logging.
func (b BaseApp) prepare(raw []byte, call string) (custody.Context, custody.Tx, error) {
	tx, err := b.decode(raw)
	if err != nil {
		return nil, nil, err
	}
	ctx := custody.WithLogInfo(b.BlockContext(), "call", call, "path", custody.GetPath(tx))
	return ctx, tx, nil
}

// decode calls the decoder. A panicking decoder fails the transaction.
func (b BaseApp) decode(raw []byte) (tx custody.Tx, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(raw); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return tx, nil
}

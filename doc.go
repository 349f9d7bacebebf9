/*
Package custody defines the interfaces shared by every part of the escrow
application: storage, transactions, messages, handlers and decorators. It also
contains helpers to work with addresses, conditions, context and abci
responses.

The escrow state machine itself lives in x/escrow. The custody of funds is
implemented by x/cash and reached through the escrow.Ledger interface.
*/
package custody

/*
Package x contains the authentication helpers shared by all extensions.

Sub-packages implement the extensions that make up the application: cash
balances, signature verification, the escrow state machine and the common
decorators.
*/
package x

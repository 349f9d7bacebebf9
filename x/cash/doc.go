/*
Package cash defines a simple implementation of holding and sending coins
between wallets.

There is no logic in the coins (tokens), except that the balance of any coin
may not go below zero. Thus, this implementation is referred to as cash.
Other extensions, like escrow, move funds only through the Controller.
*/
package cash

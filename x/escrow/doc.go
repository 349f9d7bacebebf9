/*
Package escrow implements a pair escrow: a payer deposits funds for a
receiver, and the funds are released once both parties confirmed.

At most one escrow exists per (receiver, payer) pair. While it exists the
deposit is held on a custody address derived from the pair and a nonce. The
payer can cancel and get a refund until the receiver confirms. After the
receiver confirmed, only the payer confirmation, which releases the funds
to the receiver, closes the escrow.

	           create            receiver_confirm                payer_confirm
	(absent) ---------> Deposited ----------------> ReceiverConfirmed -------------> (absent)
	                        |                                                     pay receiver
	                        | payer_cancel
	                        v
	                    (absent)
	                  refund payer

All funds are moved through the Ledger interface. Every operation of the
Machine is atomic: state change and fund movement are committed together or
not at all.
*/
package escrow

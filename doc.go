/*
Package sigswap defines the common interfaces used throughout the escrow
application: storage, transactions, handlers, queries and the block context.

The escrow itself lives in x/aswap. It locks ERC20-style tokens under an
address-shaped swap identifier and releases them either to the participant,
who must present a secp256k1 signature made with the key behind the
identifier, or back to the initiator once the refund height is reached.

Everything else in this repository is the host environment that the escrow
runs in: an ABCI application (app), a cache-wrapped key value store (store),
a token ledger (x/erc20) and transaction authentication (x/sigs).
*/
package sigswap

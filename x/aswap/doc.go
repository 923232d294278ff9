/*
Package aswap implements a signature gated atomic swap of ERC20 tokens.

An initiator locks tokens in escrow under a swap identifier. The
identifier is the address of a secp256k1 key chosen off chain by the
parties. The locked tokens can either be redeemed by the participant or
returned to the initiator once the refund deadline was reached.

Redeeming requires a signature, made with the key behind the swap
identifier, over the swap digest:

	keccak256(id ‖ participant ‖ initiator ‖ uint256(refundDeadline) ‖ token)

signed the way wallets sign personal messages, so that the digest is
prefixed with "\x19Ethereum Signed Message:\n32" before being hashed
again. Only the recorded participant may submit the signature.

A settled swap is removed from the store. A removed swap and a swap that
never existed cannot be told apart, and the identifier can be used again
for a new swap.
*/
package aswap

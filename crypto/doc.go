/*
Package crypto implements the Ethereum flavoured signature primitives used
to authorize swap redemption and transactions.

Signatures are produced off chain with a personal-sign operation: the signer
hashes the message, prefixes the 32 byte digest with
"\x19Ethereum Signed Message:\n32" and signs the keccak256 of the result.
PersonalMessageHash reproduces the prefixing and RecoverAddress returns the
address of the key that produced a signature.
*/
package crypto

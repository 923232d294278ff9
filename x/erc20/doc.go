/*
Package erc20 implements an ERC20-style token ledger inside the
application state.

Every token is identified by its contract address. Balances are stored
per (token, owner) and allowances per (token, owner, spender), so that
other extensions can move tokens on behalf of their owners the same way
an Ethereum contract would call transferFrom.
*/
package erc20

/*
Package gconf keeps the configuration of each extension in the database.

An extension owns one configuration object, stored under "_c:" and the
package name. It is read from the "conf" section of the genesis app_state
and validated before it is written, for example:

	"conf": {
		"aswap": {"escrow_address": "0x..."}
	}

A handler that cannot load its configuration fails every request. The
application must be given a correct genesis to recover.
*/
package gconf

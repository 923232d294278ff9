package server

import (
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/app"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/store"
)

// ValidateGenesis loads the app_state of every given genesis file
// into a throw away store, so that any error is found before the
// chain is started.
func ValidateGenesis(ini sigswap.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini sigswap.Initializer, genesisPath string) error {
	genesis, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}

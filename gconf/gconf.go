package gconf

import (
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// ReadStore is the read half of the store the configuration lives in.
type ReadStore interface {
	Get(key []byte) ([]byte, error)
}

// Store can also write a configuration.
type Store interface {
	ReadStore
	Set(key, value []byte) error
}

// ValidMarshaler is a configuration on its way into the store.
type ValidMarshaler interface {
	Validate() error
	Marshal() ([]byte, error)
}

// Unmarshaler is a configuration on its way out of the store.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is the per package configuration object.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// storeKey is "_c:" followed by the package name.
func storeKey(pkg string) []byte {
	return append([]byte("_c:"), pkg...)
}

// Save validates src and writes it as the configuration of pkg,
// replacing any previous one.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "serialize %s configuration", pkg)
	}
	return db.Set(storeKey(pkg), raw)
}

// Load reads the configuration of pkg into dst. It fails with ErrNotFound
// when pkg was never configured.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(storeKey(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "deserialize %s configuration", pkg)
	}
	return nil
}

// InitConfig reads conf from the genesis section "conf" under the key
// pkg, then saves it.
func InitConfig(db Store, opts sigswap.Options, pkg string, conf Configuration) error {
	var section sigswap.Options
	if err := opts.ReadOptions("conf", &section); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if _, ok := section[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis conf has no %q entry", pkg)
	}
	if err := section.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis conf %q: %s", pkg, err)
	}
	return Save(db, pkg, conf)
}

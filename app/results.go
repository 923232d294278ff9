package app

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/errors"
)

// ResultSet is the RLP list carried in the Key or the Value of a query
// response. Position i of the key set belongs to position i of the value
// set.
type ResultSet struct {
	Results [][]byte
}

func (r ResultSet) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(&r)
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, r)
}

func collect(models []sigswap.Model, part func(sigswap.Model) []byte) *ResultSet {
	set := ResultSet{Results: make([][]byte, 0, len(models))}
	for _, m := range models {
		set.Results = append(set.Results, part(m))
	}
	return &set
}

// ResultsFromKeys lists the keys of models.
func ResultsFromKeys(models []sigswap.Model) *ResultSet {
	return collect(models, func(m sigswap.Model) []byte { return m.Key })
}

// ResultsFromValues lists the values of models.
func ResultsFromValues(models []sigswap.Model) *ResultSet {
	return collect(models, func(m sigswap.Model) []byte { return m.Value })
}

// JoinResults pairs the key and value sets of a query response back into
// models.
func JoinResults(keys, values *ResultSet) ([]sigswap.Model, error) {
	if n, m := len(keys.Results), len(values.Results); n != m {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", n, m)
	}
	models := make([]sigswap.Model, 0, len(keys.Results))
	for i, k := range keys.Results {
		models = append(models, sigswap.Pair(k, values.Results[i]))
	}
	return models, nil
}

// UnmarshalOneResult decodes the first entry of a serialized set into
// dst. An empty set leaves dst untouched.
func UnmarshalOneResult(raw []byte, dst sigswap.Persistent) error {
	var set ResultSet
	if err := set.Unmarshal(raw); err != nil {
		return err
	}
	if len(set.Results) == 0 {
		return nil
	}
	return dst.Unmarshal(set.Results[0])
}

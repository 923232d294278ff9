package app

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iov-one/sigswap"
	"github.com/iov-one/sigswap/crypto"
	"github.com/iov-one/sigswap/errors"
	"github.com/iov-one/sigswap/x/sigs"
)

// Tx is the envelope of every transaction sent to the application. It
// carries a single message, identified by its path, together with the
// signature of the account authorizing it.
type Tx struct {
	Kind      string
	Payload   []byte
	Sequence  uint64
	Signature *crypto.Signature `rlp:"nil"`

	msg sigswap.Msg
}

var _ sigswap.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps the message into an unsigned transaction.
func NewTx(msg sigswap.Msg) (*Tx, error) {
	payload, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return &Tx{
		Kind:    msg.Path(),
		Payload: payload,
		msg:     msg,
	}, nil
}

// GetMsg returns the message decoded by the TxDecoder or given to NewTx.
func (tx *Tx) GetMsg() (sigswap.Msg, error) {
	if tx.msg == nil {
		return nil, errors.Wrapf(errors.ErrMsg, "message %q not decoded", tx.Kind)
	}
	return tx.msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(tx)
}

// Unmarshal decodes the envelope only. Use a TxDecoder to get a
// transaction with its message.
func (tx *Tx) Unmarshal(raw []byte) error {
	return rlp.DecodeBytes(raw, tx)
}

// GetSignBytes returns the message path and payload, the part of the
// transaction covered by the signature next to the sequence.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return rlp.EncodeToBytes([]interface{}{tx.Kind, tx.Payload})
}

func (tx *Tx) GetSequence() uint64 {
	return tx.Sequence
}

func (tx *Tx) GetSignature() *crypto.Signature {
	return tx.Signature
}

package aswap

import "github.com/iov-one/sigswap/errors"

var (
	ErrInvalidParticipant    = errors.Register(1500, "invalid participant address")
	ErrDeadlineAlreadyPassed = errors.Register(1501, "refund deadline has already come")
	ErrSwapAlreadyActive     = errors.Register(1502, "swap for this identifier is already initiated")
	ErrInvalidCaller         = errors.Register(1503, "invalid msg.sender")
	ErrInvalidSignature      = errors.Register(1504, "invalid signer address")
	ErrDeadlineNotReached    = errors.Register(1505, "refund deadline has not come")
)

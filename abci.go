package sigswap

import (
	"github.com/iov-one/sigswap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult is the outcome of a successful check. Failures are
// reported as errors, never as a result.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated caps the work the transaction may do.
	GasAllocated int64
	// GasPayment is what the transaction pays for itself. Decorators add
	// to it, for example for signature verification.
	GasPayment int64
}

// NewCheck returns a result with the gas and log set, which is all most
// handlers report.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{GasAllocated: gasAllocated, Log: log}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverResult is the outcome of a successful delivery.
type DeliverResult struct {
	Data []byte
	Log  string
	// Tags are indexed by tendermint for transaction search.
	Tags    []common.KVPair
	GasUsed int64
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckOrError builds the CheckTx response from a handler return.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err == nil {
		return result.ToABCI()
	}
	return CheckTxError(err, debug)
}

// DeliverOrError builds the DeliverTx response from a handler return.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err == nil {
		return result.ToABCI()
	}
	return DeliverTxError(err, debug)
}

// CheckTxError reports err as a failed CheckTx. Internal errors are
// redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := txErrorInfo("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

// DeliverTxError reports err as a failed DeliverTx.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := txErrorInfo("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

func txErrorInfo(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, phase + " tx: " + log
}

// ParseCheckOrError turns a CheckTx response back into a result or error.
func ParseCheckOrError(res abci.ResponseCheckTx) (*CheckResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	out := CheckResult{Data: res.Data, Log: res.Log, GasAllocated: res.GasWanted}
	return &out, nil
}

// ParseDeliverOrError turns a DeliverTx response back into a result or
// error. Clients use it on broadcast responses.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	out := DeliverResult{Data: res.Data, Log: res.Log, Tags: res.Tags, GasUsed: res.GasUsed}
	return &out, nil
}

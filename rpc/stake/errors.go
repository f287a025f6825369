package stake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leverj/fee-contracts/common"
)

// Errors returned by FaultReason for the contract exceptions.
var (
	ErrNotOperator       = errors.New(common.ErrNotOperator)
	ErrWitnessFailed     = errors.New(common.ErrWitnessFailed)
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAmountTooSmall    = errors.New("amount is too small to distribute")
	ErrTransferFailed    = errors.New("can't transfer rewards")
)

var faults = []error{
	ErrNotOperator,
	ErrWitnessFailed,
	ErrInsufficientFunds,
	ErrAmountTooSmall,
	ErrTransferFailed,
}

// FaultReason converts exception of the FAULTed invocation or transaction
// into error. Returned error matches one of the package errors with
// errors.Is if the contract rejected the call for the known reason. Empty
// exception means no fault, nil is returned then.
func FaultReason(exception string) error {
	if exception == "" {
		return nil
	}

	for _, err := range faults {
		if strings.Contains(exception, err.Error()) {
			return fmt.Errorf("%w (%s)", err, exception)
		}
	}

	return errors.New(exception)
}

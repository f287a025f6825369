package fee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leverj/fee-contracts/common"
)

// Errors returned by FaultReason for the contract exceptions.
var (
	ErrNotOwner           = errors.New(common.ErrNotOwner)
	ErrWouldEmptyOwnerSet = errors.New(common.ErrWouldEmptyOwnerSet)
	ErrUnknownTarget      = errors.New(common.ErrUnknownTarget)
	ErrWitnessFailed      = errors.New(common.ErrWitnessFailed)
)

var faults = []error{
	ErrNotOwner,
	ErrWouldEmptyOwnerSet,
	ErrUnknownTarget,
	ErrWitnessFailed,
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

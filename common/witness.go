package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

const (
	// ErrNotOwner appears when an owner-gated method is called on behalf
	// of an account which is not in the owner set.
	ErrNotOwner = "caller is not an owner"
	// ErrWouldEmptyOwnerSet appears when the removal of the last owner
	// is requested.
	ErrWouldEmptyOwnerSet = "owner set can not become empty"
	// ErrUnknownTarget appears when the removal of an account which is not
	// an owner is requested.
	ErrUnknownTarget = "target is not an owner"
	// ErrNotOperator appears when an operator-gated method is called on
	// behalf of any account except the operator.
	ErrNotOperator = "caller is not the operator"
	// ErrWitnessFailed appears when the method must be called
	// using certain account but was not.
	ErrWitnessFailed = "witness check failed"
)

// CheckWitness checks witness of the passed caller.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(caller []byte) {
	if !runtime.CheckWitness(caller) {
		panic(ErrWitnessFailed)
	}
}

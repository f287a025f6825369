// Package fee contains RPC wrappers for LEV Fee contract.
package fee

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// AddOwnerEvent represents "AddOwner" event emitted by the contract.
type AddOwnerEvent struct {
	Caller util.Uint160
	Owner util.Uint160
}

// RemoveOwnerEvent represents "RemoveOwner" event emitted by the contract.
type RemoveOwnerEvent struct {
	Caller util.Uint160
	Owner util.Uint160
}

// SetMinterEvent represents "SetMinter" event emitted by the contract.
type SetMinterEvent struct {
	Caller util.Uint160
	Minter util.Uint160
}

// SetOperatorEvent represents "SetOperator" event emitted by the contract.
type SetOperatorEvent struct {
	Caller util.Uint160
	Operator util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Decimals invokes `decimals` method of contract.
func (c *ContractReader) Decimals() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "decimals"))
}

// GetOwners invokes `getOwners` method of contract.
func (c *ContractReader) GetOwners() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "getOwners"))
}

// IsOwner invokes `isOwner` method of contract.
func (c *ContractReader) IsOwner(account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isOwner", account))
}

// IterateOwners invokes `iterateOwners` method of contract.
func (c *ContractReader) IterateOwners() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateOwners"))
}

// IterateOwnersExpanded is similar to IterateOwners (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateOwnersExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateOwners", _numOfIteratorItems))
}

// Minter invokes `minter` method of contract. Zero hash is returned if the
// role has never been set.
func (c *ContractReader) Minter() (util.Uint160, error) {
	return itemToOptionalUint160(unwrap.Item(c.invoker.Call(c.hash, "minter")))
}

// Name invokes `name` method of contract.
func (c *ContractReader) Name() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "name"))
}

// Operator invokes `operator` method of contract. Zero hash is returned if
// the role has never been set.
func (c *ContractReader) Operator() (util.Uint160, error) {
	return itemToOptionalUint160(unwrap.Item(c.invoker.Call(c.hash, "operator")))
}

// OwnersCount invokes `ownersCount` method of contract.
func (c *ContractReader) OwnersCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "ownersCount"))
}

// Symbol invokes `symbol` method of contract.
func (c *ContractReader) Symbol() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "symbol"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddOwner creates a transaction invoking `addOwner` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddOwner(caller util.Uint160, newOwner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addOwner", caller, newOwner)
}

// AddOwnerTransaction creates a transaction invoking `addOwner` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddOwnerTransaction(caller util.Uint160, newOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addOwner", caller, newOwner)
}

// AddOwnerUnsigned creates a transaction invoking `addOwner` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddOwnerUnsigned(caller util.Uint160, newOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addOwner", nil, caller, newOwner)
}

// RemoveOwner creates a transaction invoking `removeOwner` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveOwner(caller util.Uint160, target util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeOwner", caller, target)
}

// RemoveOwnerTransaction creates a transaction invoking `removeOwner` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveOwnerTransaction(caller util.Uint160, target util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeOwner", caller, target)
}

// RemoveOwnerUnsigned creates a transaction invoking `removeOwner` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveOwnerUnsigned(caller util.Uint160, target util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeOwner", nil, caller, target)
}

// SetMinter creates a transaction invoking `setMinter` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetMinter(caller util.Uint160, minter util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setMinter", caller, minter)
}

// SetMinterTransaction creates a transaction invoking `setMinter` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetMinterTransaction(caller util.Uint160, minter util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setMinter", caller, minter)
}

// SetMinterUnsigned creates a transaction invoking `setMinter` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetMinterUnsigned(caller util.Uint160, minter util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setMinter", nil, caller, minter)
}

// SetOperator creates a transaction invoking `setOperator` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetOperator(caller util.Uint160, operator util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setOperator", caller, operator)
}

// SetOperatorTransaction creates a transaction invoking `setOperator` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetOperatorTransaction(caller util.Uint160, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setOperator", caller, operator)
}

// SetOperatorUnsigned creates a transaction invoking `setOperator` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetOperatorUnsigned(caller util.Uint160, operator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setOperator", nil, caller, operator)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// itemToOptionalUint160 converts stack item into util.Uint160, Null item is
// converted into zero hash.
func itemToOptionalUint160(item stackitem.Item, err error) (util.Uint160, error) {
	if err != nil {
		return util.Uint160{}, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	return itemToUint160(item)
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

// hashPairFromStackItem retrieves two hash fields of an event.
func hashPairFromStackItem(item *stackitem.Array, first, second string) (util.Uint160, util.Uint160, error) {
	if item == nil {
		return util.Uint160{}, util.Uint160{}, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return util.Uint160{}, util.Uint160{}, errors.New("not an array")
	}
	if len(arr) != 2 {
		return util.Uint160{}, util.Uint160{}, errors.New("wrong number of structure elements")
	}

	a, err := itemToUint160(arr[0])
	if err != nil {
		return util.Uint160{}, util.Uint160{}, fmt.Errorf("field %s: %w", first, err)
	}

	b, err := itemToUint160(arr[1])
	if err != nil {
		return util.Uint160{}, util.Uint160{}, fmt.Errorf("field %s: %w", second, err)
	}

	return a, b, nil
}

// AddOwnerEventsFromApplicationLog retrieves a set of all emitted events
// with "AddOwner" name from the provided [result.ApplicationLog].
func AddOwnerEventsFromApplicationLog(log *result.ApplicationLog) ([]*AddOwnerEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AddOwnerEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AddOwner" {
				continue
			}
			event := new(AddOwnerEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AddOwnerEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AddOwnerEvent or
// returns an error if it's not possible to do to so.
func (e *AddOwnerEvent) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Caller, e.Owner, err = hashPairFromStackItem(item, "Caller", "Owner")
	return err
}

// RemoveOwnerEventsFromApplicationLog retrieves a set of all emitted events
// with "RemoveOwner" name from the provided [result.ApplicationLog].
func RemoveOwnerEventsFromApplicationLog(log *result.ApplicationLog) ([]*RemoveOwnerEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*RemoveOwnerEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "RemoveOwner" {
				continue
			}
			event := new(RemoveOwnerEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize RemoveOwnerEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to RemoveOwnerEvent or
// returns an error if it's not possible to do to so.
func (e *RemoveOwnerEvent) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Caller, e.Owner, err = hashPairFromStackItem(item, "Caller", "Owner")
	return err
}

// SetMinterEventsFromApplicationLog retrieves a set of all emitted events
// with "SetMinter" name from the provided [result.ApplicationLog].
func SetMinterEventsFromApplicationLog(log *result.ApplicationLog) ([]*SetMinterEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SetMinterEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "SetMinter" {
				continue
			}
			event := new(SetMinterEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SetMinterEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SetMinterEvent or
// returns an error if it's not possible to do to so.
func (e *SetMinterEvent) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Caller, e.Minter, err = hashPairFromStackItem(item, "Caller", "Minter")
	return err
}

// SetOperatorEventsFromApplicationLog retrieves a set of all emitted events
// with "SetOperator" name from the provided [result.ApplicationLog].
func SetOperatorEventsFromApplicationLog(log *result.ApplicationLog) ([]*SetOperatorEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SetOperatorEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "SetOperator" {
				continue
			}
			event := new(SetOperatorEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SetOperatorEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SetOperatorEvent or
// returns an error if it's not possible to do to so.
func (e *SetOperatorEvent) FromStackItem(item *stackitem.Array) error {
	var err error
	e.Caller, e.Operator, err = hashPairFromStackItem(item, "Caller", "Operator")
	return err
}

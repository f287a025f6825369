package fee

import (
	"github.com/leverj/fee-contracts/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	ownerPrefix = 0x01
	indexPrefix = 0x02

	seqKey   = "seq"
	countKey = "count"

	minterKey   = "minter"
	operatorKey = "operator"

	nameKey     = "name"
	symbolKey   = "symbol"
	decimalsKey = "decimals"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owners   []interop.Hash160
		name     string
		decimals int
		symbol   string
	})

	if len(args.owners) == 0 {
		panic("empty owner set")
	}

	for i := range args.owners {
		if len(args.owners[i]) != interop.Hash160Len {
			panic("invalid owner")
		}

		appendOwner(ctx, args.owners[i])
	}

	storage.Put(ctx, nameKey, args.name)
	storage.Put(ctx, symbolKey, args.symbol)
	storage.Put(ctx, decimalsKey, args.decimals)

	runtime.Log("fee contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("fee contract updated")
}

// AddOwner method appends newOwner to the end of the owner list. It can be
// invoked by any owner on its own behalf, caller must witness the
// transaction. Adding an account which is already an owner changes nothing.
//
// It produces AddOwner notification if the owner list has been changed.
func AddOwner(caller, newOwner interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx, caller)

	if len(newOwner) != interop.Hash160Len {
		panic("invalid owner")
	}

	if !appendOwner(ctx, newOwner) {
		runtime.Log("account is already an owner")
		return
	}

	runtime.Notify("AddOwner", caller, newOwner)
}

// RemoveOwner method removes target from the owner list keeping the order of
// the rest owners. It can be invoked by any owner on its own behalf (including
// the target itself), caller must witness the transaction. The last owner
// can not be removed.
//
// It produces RemoveOwner notification.
func RemoveOwner(caller, target interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx, caller)

	key := append([]byte{indexPrefix}, target...)

	seq := storage.Get(ctx, key)
	if seq == nil {
		panic(common.ErrUnknownTarget)
	}

	count := ownersCount(ctx)
	if count <= 1 {
		panic(common.ErrWouldEmptyOwnerSet)
	}

	storage.Delete(ctx, common.OrderedKey(ownerPrefix, seq.(int)))
	storage.Delete(ctx, key)
	storage.Put(ctx, countKey, count-1)

	runtime.Notify("RemoveOwner", caller, target)
}

// IsOwner returns true if account is in the owner list.
func IsOwner(account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return isOwner(ctx, account)
}

// GetOwners returns the owner list in the order the owners were added.
func GetOwners() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	owners := []interop.Hash160{}

	it := storage.Find(ctx, []byte{ownerPrefix}, storage.ValuesOnly)
	for iterator.Next(it) {
		owners = append(owners, iterator.Value(it).(interop.Hash160))
	}

	return owners
}

// IterateOwners returns iterator over the owner list, see GetOwners.
func IterateOwners() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{ownerPrefix}, storage.ValuesOnly)
}

// OwnersCount returns the number of owners.
func OwnersCount() int {
	ctx := storage.GetReadOnlyContext()
	return ownersCount(ctx)
}

// SetMinter method assigns minter role to the account. It can be invoked by
// any owner on its own behalf, caller must witness the transaction. Minter
// is not required to be an owner.
//
// It produces SetMinter notification.
func SetMinter(caller, minter interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx, caller)
	setRole(ctx, minterKey, minter)

	runtime.Notify("SetMinter", caller, minter)
}

// SetOperator method assigns operator role to the account. Access rules are
// the same as for SetMinter.
//
// It produces SetOperator notification.
func SetOperator(caller, operator interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx, caller)
	setRole(ctx, operatorKey, operator)

	runtime.Notify("SetOperator", caller, operator)
}

// Minter returns the current minter or nil if the role has never been set.
func Minter() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getRole(ctx, minterKey)
}

// Operator returns the current operator or nil if the role has never been set.
func Operator() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getRole(ctx, operatorKey)
}

// Name returns token name set at deployment stage.
func Name() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, nameKey).(string)
}

// Symbol returns token symbol set at deployment stage.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, symbolKey).(string)
}

// Decimals returns token precision set at deployment stage.
func Decimals() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, decimalsKey).(int)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkOwner(ctx storage.Context, caller interop.Hash160) {
	if !isOwner(ctx, caller) {
		panic(common.ErrNotOwner)
	}

	common.CheckWitness(caller)
}

func isOwner(ctx storage.Context, account interop.Hash160) bool {
	if len(account) != interop.Hash160Len {
		return false
	}

	return storage.Get(ctx, append([]byte{indexPrefix}, account...)) != nil
}

func ownersCount(ctx storage.Context) int {
	n := storage.Get(ctx, countKey)
	if n == nil {
		return 0
	}

	return n.(int)
}

// appendOwner puts owner to the end of the list and returns false if it is
// already there.
func appendOwner(ctx storage.Context, owner interop.Hash160) bool {
	key := append([]byte{indexPrefix}, owner...)
	if storage.Get(ctx, key) != nil {
		return false
	}

	seq := 1
	v := storage.Get(ctx, seqKey)
	if v != nil {
		seq = v.(int)
	}

	storage.Put(ctx, common.OrderedKey(ownerPrefix, seq), owner)
	storage.Put(ctx, key, seq)
	storage.Put(ctx, seqKey, seq+1)
	storage.Put(ctx, countKey, ownersCount(ctx)+1)

	return true
}

func setRole(ctx storage.Context, key string, account interop.Hash160) {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}

	storage.Put(ctx, key, account)
}

func getRole(ctx storage.Context, key string) interop.Hash160 {
	v := storage.Get(ctx, key)
	if v == nil {
		return nil
	}

	return v.(interop.Hash160)
}

package stake

import (
	"github.com/leverj/fee-contracts/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	stakersKey   = "stakers"
	operatorKey  = "operator"
	feeSourceKey = "feeSource"
	amountKey    = "amount"
	tokenKey     = "token"
)

// OnNEP17Payment is a callback for NEP-17 compatible token contracts. Only
// the token set at deployment stage is accepted and only from the fee source
// account.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetReadOnlyContext()

	token := storage.Get(ctx, tokenKey).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(token) {
		panic("stake contract accepts configured token only")
	}

	feeSource := storage.Get(ctx, feeSourceKey).(interop.Hash160)
	if !from.Equals(feeSource) {
		panic("stake contract accepts payments from fee source only")
	}
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		stakers   []interop.Hash160
		operator  interop.Hash160
		feeSource interop.Hash160
		amount    int
		token     interop.Hash160
	})

	if len(args.stakers) == 0 {
		panic("empty staker list")
	}

	for i := range args.stakers {
		if len(args.stakers[i]) != interop.Hash160Len {
			panic("invalid staker")
		}
	}

	if len(args.operator) != interop.Hash160Len {
		panic("invalid operator")
	}

	if len(args.feeSource) != interop.Hash160Len {
		panic("invalid fee source")
	}

	if len(args.token) != interop.Hash160Len {
		panic("invalid token")
	}

	if args.amount <= 0 {
		panic("invalid amount")
	}

	common.SetSerialized(ctx, stakersKey, args.stakers)
	storage.Put(ctx, operatorKey, args.operator)
	storage.Put(ctx, feeSourceKey, args.feeSource)
	storage.Put(ctx, amountKey, args.amount)
	storage.Put(ctx, tokenKey, args.token)

	runtime.Log("stake contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("stake contract updated")
}

// ProcessRewards method distributes the configured amount of tokens from the
// contract account equally among stakers. It can be invoked only by the
// operator on its own behalf, caller must witness the transaction.
//
// Each staker gets amount/len(stakers) tokens, the remainder stays in the
// contract. If the contract balance is less than amount or any transfer
// fails, nothing is distributed.
//
// It produces Distribution notification.
func ProcessRewards(caller interop.Hash160) {
	ctx := storage.GetReadOnlyContext()

	operator := storage.Get(ctx, operatorKey).(interop.Hash160)
	if !caller.Equals(operator) {
		panic(common.ErrNotOperator)
	}

	common.CheckWitness(caller)

	var (
		stakers = common.GetList(ctx, stakersKey)
		amount  = storage.Get(ctx, amountKey).(int)
		token   = storage.Get(ctx, tokenKey).(interop.Hash160)
		self    = runtime.GetExecutingScriptHash()
	)

	balance := contract.Call(token, "balanceOf", contract.ReadStates, self).(int)
	if balance < amount {
		panic("insufficient funds")
	}

	share := amount / len(stakers)
	if share == 0 {
		panic("amount is too small to distribute")
	}

	for i := range stakers {
		ok := contract.Call(token, "transfer", contract.All, self, stakers[i], share, nil).(bool)
		if !ok {
			panic("can't transfer rewards")
		}
	}

	runtime.Log("rewards distributed to stakers")
	runtime.Notify("Distribution", caller, amount, share)
}

// Operator returns the only account allowed to call ProcessRewards.
func Operator() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, operatorKey).(interop.Hash160)
}

// FeeSource returns the only account allowed to fund the contract.
func FeeSource() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, feeSourceKey).(interop.Hash160)
}

// Amount returns the number of tokens distributed by a single ProcessRewards
// call.
func Amount() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, amountKey).(int)
}

// Token returns address of the distributed token contract.
func Token() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, tokenKey).(interop.Hash160)
}

// Stakers returns the list of reward recipients.
func Stakers() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetList(ctx, stakersKey)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

package tokenspy

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Call is the last transfer request.
type Call struct {
	From   interop.Hash160
	To     interop.Hash160
	Amount int
}

const (
	callsKey   = "calls"
	lastKey    = "last"
	failingKey = "failing"

	balance = 1_000_000_00000000
)

func BalanceOf(account interop.Hash160) int {
	return balance
}

func Transfer(from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetContext()

	n := Calls() + 1
	storage.Put(ctx, callsKey, n)
	storage.Put(ctx, lastKey, std.Serialize(Call{
		From:   from,
		To:     to,
		Amount: amount,
	}))

	failFrom := storage.Get(ctx, failingKey)
	if failFrom != nil && n >= failFrom.(int) {
		return false
	}

	runtime.Notify("Transfer", from, to, amount)
	return true
}

// SetFailing makes transfers fail starting from the n-th one counted
// since the deployment.
func SetFailing(n int) {
	storage.Put(storage.GetContext(), failingKey, n)
}

func Calls() int {
	val := storage.Get(storage.GetReadOnlyContext(), callsKey)
	if val == nil {
		return 0
	}
	return val.(int)
}

func Last() Call {
	val := storage.Get(storage.GetReadOnlyContext(), lastKey)
	if val == nil {
		return Call{}
	}
	return std.Deserialize(val.([]byte)).(Call)
}

package tests

import (
	"math/rand"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

// randomAccount returns address of the account which has never been used in
// the chain.
func randomAccount() util.Uint160 {
	var h util.Uint160
	copy(h[:], randomBytes(util.Uint160Size))
	return h
}

func newAccounts(t testing.TB, e *neotest.Executor, n int) []neotest.Signer {
	res := make([]neotest.Signer, n)
	for i := range res {
		res[i] = e.NewAccount(t)
	}
	return res
}

func hashItem(h util.Uint160) stackitem.Item {
	return stackitem.NewByteArray(h.BytesBE())
}

func hashesItem(hs ...util.Uint160) stackitem.Item {
	items := make([]stackitem.Item, len(hs))
	for i := range hs {
		items[i] = hashItem(hs[i])
	}
	return stackitem.NewArray(items)
}

// storedHashItem is hashItem as returned by contract getters converting
// stored values to interop.Hash160.
func storedHashItem(h util.Uint160) stackitem.Item {
	return stackitem.NewBuffer(h.BytesBE())
}

func storedHashesItem(hs ...util.Uint160) stackitem.Item {
	items := make([]stackitem.Item, len(hs))
	for i := range hs {
		items[i] = storedHashItem(hs[i])
	}
	return stackitem.NewArray(items)
}

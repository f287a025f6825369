package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// orderedKeyWidth is enough to hold any sequence number of the contract
// lifetime in decimal form.
const orderedKeyWidth = 10

// GetList returns deserialized list of hashes stored by key or an empty list.
func GetList(ctx storage.Context, key any) []interop.Hash160 {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]interop.Hash160)
	}

	return []interop.Hash160{}
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// OrderedKey returns storage key made of prefix and zero-padded decimal n.
// Keys of the same prefix are sorted by n, so storage.Find returns them in
// the order of n.
func OrderedKey(prefix byte, n int) []byte {
	s := std.Itoa10(n)
	for len(s) < orderedKeyWidth {
		s = "0" + s
	}

	return append([]byte{prefix}, []byte(s)...)
}

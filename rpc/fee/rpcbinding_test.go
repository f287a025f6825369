package fee

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke

	method string
	params []any
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.method, t.params = operation, params
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	t.method, t.params = operation, params
	return t.res, t.err
}
func (t *testInv) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	return nil, nil
}
func (t *testInv) TerminateSession(uuid.UUID) error {
	return nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: "HALT",
		Stack: items,
	}
}

func TestReader(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	a, b := util.Uint160{1}, util.Uint160{2}

	ti.err = errors.New("bad")
	_, err := r.GetOwners()
	require.Error(t, err)

	ti.err = nil
	ti.res = halt(stackitem.Make([]stackitem.Item{
		stackitem.Make(a.BytesBE()),
		stackitem.Make(b.BytesBE()),
	}))
	owners, err := r.GetOwners()
	require.NoError(t, err)
	require.Equal(t, []util.Uint160{a, b}, owners)
	require.Equal(t, "getOwners", ti.method)

	ti.res = halt(stackitem.Make(true))
	ok, err := r.IsOwner(a)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []any{a}, ti.params)

	ti.res = halt(stackitem.Make(2))
	n, err := r.OwnersCount()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2), n)

	ti.res = halt(stackitem.Make("FEE"))
	name, err := r.Name()
	require.NoError(t, err)
	require.Equal(t, "FEE", name)

	ti.res = halt(stackitem.Make(9))
	d, err := r.Decimals()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(9), d)
}

func TestReaderRoles(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.res = halt(stackitem.Null{})
	m, err := r.Minter()
	require.NoError(t, err)
	require.Equal(t, util.Uint160{}, m)

	ti.res = halt(stackitem.Make(util.Uint160{7}.BytesBE()))
	m, err = r.Operator()
	require.NoError(t, err)
	require.Equal(t, util.Uint160{7}, m)
	require.Equal(t, "operator", ti.method)

	ti.res = halt(stackitem.Make([]byte{1, 2, 3}))
	_, err = r.Minter()
	require.Error(t, err)

	ti.res = &result.Invoke{
		State:          "FAULT",
		FaultException: "bad",
	}
	_, err = r.Minter()
	require.Error(t, err)
}

func TestEventsFromApplicationLog(t *testing.T) {
	caller, owner := util.Uint160{1}, util.Uint160{2}

	event := func(name string, items ...stackitem.Item) state.NotificationEvent {
		return state.NotificationEvent{
			ScriptHash: util.Uint160{9},
			Name:       name,
			Item:       stackitem.NewArray(items),
		}
	}

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				event("AddOwner", stackitem.Make(caller.BytesBE()), stackitem.Make(owner.BytesBE())),
				event("SetMinter", stackitem.Make(caller.BytesBE()), stackitem.Make(owner.BytesBE())),
				event("RemoveOwner", stackitem.Make(owner.BytesBE()), stackitem.Make(caller.BytesBE())),
			},
		}},
	}

	added, err := AddOwnerEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*AddOwnerEvent{{Caller: caller, Owner: owner}}, added)

	removed, err := RemoveOwnerEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*RemoveOwnerEvent{{Caller: owner, Owner: caller}}, removed)

	minters, err := SetMinterEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*SetMinterEvent{{Caller: caller, Minter: owner}}, minters)

	operators, err := SetOperatorEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Empty(t, operators)

	_, err = AddOwnerEventsFromApplicationLog(nil)
	require.Error(t, err)

	log.Executions[0].Events = append(log.Executions[0].Events,
		event("SetOperator", stackitem.Make(caller.BytesBE())))
	_, err = SetOperatorEventsFromApplicationLog(log)
	require.Error(t, err)
}

func TestFaultReason(t *testing.T) {
	require.NoError(t, FaultReason(""))

	for _, reason := range []error{ErrNotOwner, ErrWouldEmptyOwnerSet, ErrUnknownTarget, ErrWitnessFailed} {
		exception := `at instruction 120 (THROW): unhandled exception: "` + reason.Error() + `"`

		err := FaultReason(exception)
		require.ErrorIs(t, err, reason)
		require.Contains(t, err.Error(), exception)
	}

	err := FaultReason("invalid owner")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotOwner))
}

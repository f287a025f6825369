package deploy

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/leverj/fee-contracts/rpc/fee"
	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/opcode"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// unusedBlockchain panics on any call.
type unusedBlockchain struct {
	Blockchain
}

func validPrm(t *testing.T) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	return Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   unusedBlockchain{},
		LocalAccount: acc,
		FeeContract: FeeContractPrm{
			Owners:   []util.Uint160{acc.ScriptHash(), {1}},
			Name:     "FEE",
			Symbol:   "FEE",
			Decimals: 9,
		},
		StakeContract: StakeContractPrm{
			Stakers:   []util.Uint160{{2}, {3}},
			Operator:  util.Uint160{4},
			FeeSource: acc.ScriptHash(),
			Amount:    big.NewInt(100),
			Token:     util.Uint160{5},
		},
	}
}

func TestCheckPrm(t *testing.T) {
	require.NoError(t, checkPrm(validPrm(t)))

	for _, tc := range []struct {
		name string
		mod  func(*Prm)
		err  string
	}{
		{name: "no blockchain", mod: func(p *Prm) { p.Blockchain = nil }, err: "missing blockchain"},
		{name: "no account", mod: func(p *Prm) { p.LocalAccount = nil }, err: "missing local account"},
		{name: "no owners", mod: func(p *Prm) { p.FeeContract.Owners = nil }, err: "empty owner set"},
		{name: "no stakers", mod: func(p *Prm) { p.StakeContract.Stakers = nil }, err: "empty staker list"},
		{name: "no amount", mod: func(p *Prm) { p.StakeContract.Amount = nil }, err: "non-positive amount"},
		{name: "zero amount", mod: func(p *Prm) { p.StakeContract.Amount = big.NewInt(0) }, err: "non-positive amount"},
		{name: "no token", mod: func(p *Prm) { p.StakeContract.Token = util.Uint160{} }, err: "missing token"},
		{name: "no operator", mod: func(p *Prm) { p.StakeContract.Operator = util.Uint160{} }, err: "missing operator"},
		{name: "no fee source", mod: func(p *Prm) { p.StakeContract.FeeSource = util.Uint160{} }, err: "missing fee source"},
		{
			name: "funding by stranger",
			mod: func(p *Prm) {
				p.StakeContract.FeeSource = util.Uint160{6}
				p.StakeContract.InitialFunding = big.NewInt(1)
			},
			err: "initial funding requires local account to be the fee source",
		},
		{
			name: "roles by stranger",
			mod: func(p *Prm) {
				p.FeeContract.Owners = []util.Uint160{{1}}
				p.FeeContract.Operator = util.Uint160{7}
			},
			err: "role assignment requires local account to be an owner",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prm := validPrm(t)
			tc.mod(&prm)
			require.EqualError(t, checkPrm(prm), tc.err)
		})
	}

	t.Run("roles by owner", func(t *testing.T) {
		prm := validPrm(t)
		prm.FeeContract.Minter = util.Uint160{8}
		prm.FeeContract.Operator = util.Uint160{9}
		require.NoError(t, checkPrm(prm))
	})
}

func TestDeployInvalidPrm(t *testing.T) {
	prm := validPrm(t)
	prm.FeeContract.Owners = nil

	_, err := Deploy(context.Background(), prm)
	require.ErrorContains(t, err, "empty owner set")
}

func TestDeployData(t *testing.T) {
	prm := validPrm(t)

	require.Equal(t, []any{
		[]any{prm.FeeContract.Owners[0], prm.FeeContract.Owners[1]},
		"FEE",
		int64(9),
		"FEE",
	}, feeDeployData(prm.FeeContract))

	require.Equal(t, []any{
		[]any{util.Uint160{2}, util.Uint160{3}},
		util.Uint160{4},
		prm.StakeContract.FeeSource,
		big.NewInt(100),
		util.Uint160{5},
	}, stakeDeployData(prm.StakeContract))
}

func TestIsErrContractNotFound(t *testing.T) {
	require.True(t, isErrContractNotFound(errors.New("Unknown contract (-102)")))
	require.False(t, isErrContractNotFound(errors.New("connection refused")))
}

// testBlockchain is an in-memory Blockchain persisting every sent
// transaction in the next block.
type testBlockchain struct {
	deployed map[util.Uint160]bool
	stateErr error

	// Transactions with a script calling this method FAULT.
	faultMethod    string
	faultException string

	sent []*transaction.Transaction
}

func newTestBlockchain() *testBlockchain {
	return &testBlockchain{deployed: make(map[util.Uint160]bool)}
}

func (b *testBlockchain) InvokeContractVerify(util.Uint160, []smartcontract.Parameter, []transaction.Signer, ...transaction.Witness) (*result.Invoke, error) {
	return nil, errors.New("unexpected call")
}

func (b *testBlockchain) InvokeFunction(util.Uint160, string, []smartcontract.Parameter, []transaction.Signer) (*result.Invoke, error) {
	return &result.Invoke{State: vmstate.Halt.String(), GasConsumed: 1}, nil
}

func (b *testBlockchain) InvokeScript([]byte, []transaction.Signer) (*result.Invoke, error) {
	return &result.Invoke{State: vmstate.Halt.String(), GasConsumed: 1}, nil
}

func (b *testBlockchain) TerminateSession(uuid.UUID) (bool, error) {
	return false, errors.New("unexpected call")
}

func (b *testBlockchain) TraverseIterator(uuid.UUID, uuid.UUID, int) ([]stackitem.Item, error) {
	return nil, errors.New("unexpected call")
}

func (b *testBlockchain) CalculateNetworkFee(*transaction.Transaction) (int64, error) {
	return 1, nil
}

func (b *testBlockchain) GetBlockCount() (uint32, error) {
	return uint32(len(b.sent)) + 1, nil
}

func (b *testBlockchain) GetVersion() (*result.Version, error) {
	return &result.Version{
		Protocol: result.Protocol{
			Network:              netmode.UnitTestNet,
			MillisecondsPerBlock: 2,
			ValidatorsCount:      1,
		},
	}, nil
}

func (b *testBlockchain) SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error) {
	b.sent = append(b.sent, tx)
	return tx.Hash(), nil
}

func (b *testBlockchain) Context() context.Context {
	return context.Background()
}

func (b *testBlockchain) GetApplicationLog(h util.Uint256, _ *trigger.Type) (*result.ApplicationLog, error) {
	for _, tx := range b.sent {
		if !tx.Hash().Equals(h) {
			continue
		}

		ex := state.Execution{Trigger: trigger.Application, VMState: vmstate.Halt}
		if b.faultMethod != "" && bytes.Contains(tx.Script, []byte(b.faultMethod)) {
			ex.VMState = vmstate.Fault
			ex.FaultException = b.faultException
		}

		return &result.ApplicationLog{Container: h, Executions: []state.Execution{ex}}, nil
	}

	return nil, errors.New("unknown transaction")
}

func (b *testBlockchain) GetContractStateByHash(h util.Uint160) (*state.Contract, error) {
	if b.stateErr != nil {
		return nil, b.stateErr
	}

	if b.deployed[h] {
		return &state.Contract{ContractBase: state.ContractBase{Hash: h}}, nil
	}

	return nil, errors.New("Unknown contract (-102)")
}

// sentMethods returns the first method of the given ones called by each
// sent transaction.
func (b *testBlockchain) sentMethods(methods ...string) []string {
	res := make([]string, 0, len(b.sent))
	for _, tx := range b.sent {
		for _, m := range methods {
			if bytes.Contains(tx.Script, []byte(m)) {
				res = append(res, m)
				break
			}
		}
	}
	return res
}

func commonPrm(t *testing.T, name string) CommonDeployPrm {
	f, err := nef.NewFile([]byte{byte(opcode.RET)})
	require.NoError(t, err)

	return CommonDeployPrm{NEF: *f, Manifest: *manifest.NewManifest(name)}
}

func deployPrm(t *testing.T, bc Blockchain) Prm {
	prm := validPrm(t)
	prm.Blockchain = bc
	prm.FeeContract.Common = commonPrm(t, "fee")
	prm.StakeContract.Common = commonPrm(t, "stake")
	return prm
}

func contractAddress(prm Prm, c CommonDeployPrm) util.Uint160 {
	return state.CreateContractHash(prm.LocalAccount.ScriptHash(), c.NEF.Checksum, c.Manifest.Name)
}

var txMethods = []string{"deploy", "setMinter", "setOperator", "transfer"}

func TestDeploy(t *testing.T) {
	ctx := context.Background()

	t.Run("all stages", func(t *testing.T) {
		bc := newTestBlockchain()
		prm := deployPrm(t, bc)
		prm.FeeContract.Minter = util.Uint160{8}
		prm.FeeContract.Operator = util.Uint160{9}
		prm.StakeContract.InitialFunding = big.NewInt(1000)

		res, err := Deploy(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, contractAddress(prm, prm.FeeContract.Common), res.Fee)
		require.Equal(t, contractAddress(prm, prm.StakeContract.Common), res.Stake)
		require.NotEqual(t, res.Fee, res.Stake)

		require.Equal(t, []string{"deploy", "setMinter", "setOperator", "deploy", "transfer"}, bc.sentMethods(txMethods...))
	})

	t.Run("already deployed", func(t *testing.T) {
		bc := newTestBlockchain()
		prm := deployPrm(t, bc)
		bc.deployed[contractAddress(prm, prm.FeeContract.Common)] = true
		bc.deployed[contractAddress(prm, prm.StakeContract.Common)] = true

		res, err := Deploy(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, contractAddress(prm, prm.FeeContract.Common), res.Fee)
		require.Equal(t, contractAddress(prm, prm.StakeContract.Common), res.Stake)
		require.Empty(t, bc.sent)
	})

	t.Run("only missing contract", func(t *testing.T) {
		bc := newTestBlockchain()
		prm := deployPrm(t, bc)
		bc.deployed[contractAddress(prm, prm.FeeContract.Common)] = true

		_, err := Deploy(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, []string{"deploy"}, bc.sentMethods(txMethods...))
		require.True(t, bytes.Contains(bc.sent[0].Script, []byte("stake")))
	})

	t.Run("contract state failure", func(t *testing.T) {
		bc := newTestBlockchain()
		bc.stateErr = errors.New("connection refused")

		_, err := Deploy(ctx, deployPrm(t, bc))
		require.ErrorContains(t, err, "connection refused")
		require.Empty(t, bc.sent)
	})

	t.Run("failed transaction", func(t *testing.T) {
		bc := newTestBlockchain()
		bc.faultMethod = "setMinter"
		bc.faultException = `at instruction 120 (THROW): unhandled exception: "caller is not an owner"`

		prm := deployPrm(t, bc)
		prm.FeeContract.Minter = util.Uint160{8}

		_, err := Deploy(ctx, prm)
		require.ErrorIs(t, err, fee.ErrNotOwner)
		require.Equal(t, []string{"deploy", "setMinter"}, bc.sentMethods(txMethods...))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		bc := newTestBlockchain()

		_, err := Deploy(ctx, deployPrm(t, bc))
		require.ErrorIs(t, err, actor.ErrContextDone)
	})
}

package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/leverj/fee-contracts/rpc/fee"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the contracts deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)

	// RPCPollingWaiter groups functions needed to wait for the sent
	// transactions to be persisted.
	actor.RPCPollingWaiter
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// FeeContractPrm groups deployment parameters of the Fee contract.
type FeeContractPrm struct {
	Common CommonDeployPrm

	// Initial owner list, must not be empty.
	Owners []util.Uint160

	Name     string
	Symbol   string
	Decimals int64

	// Optional roles assigned right after the deployment. Local account must
	// be one of the Owners to assign them.
	Minter   util.Uint160
	Operator util.Uint160
}

// StakeContractPrm groups deployment parameters of the Stake contract.
type StakeContractPrm struct {
	Common CommonDeployPrm

	// Reward recipients, must not be empty.
	Stakers []util.Uint160

	// The only account allowed to process rewards.
	Operator util.Uint160

	// The only account allowed to fund the contract.
	FeeSource util.Uint160

	// Number of tokens distributed per ProcessRewards call, must be positive.
	Amount *big.Int

	// Distributed NEP-17 token.
	Token util.Uint160

	// Optional number of tokens transferred from the local account to the
	// deployed contract. Local account must be the FeeSource then.
	InitialFunding *big.Int
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	FeeContract   FeeContractPrm
	StakeContract StakeContractPrm
}

// Result groups addresses of the deployed contracts.
type Result struct {
	Fee   util.Uint160
	Stake util.Uint160
}

// Deploy deploys Fee and Stake contracts to the Neo network represented by
// given Prm.Blockchain.
//
// Deploy is idempotent: contracts already deployed by the local account are
// not deployed again. Parameters are checked before any transaction is sent.
// Deploy waits for each transaction to be persisted and fails if it has not
// been executed successfully.
//
// Summary of stages:
//  1. Fee contract deployment
//  2. assignment of the Fee minter and operator roles if requested
//  3. Stake contract deployment
//  4. initial funding of the Stake contract if requested
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	err := checkPrm(prm)
	if err != nil {
		return res, fmt.Errorf("invalid deployment parameters: %w", err)
	}

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	w := waiter{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      act,
	}

	prm.Logger.Info("synchronizing Fee contract with the chain...")

	res.Fee, err = syncContract(ctx, w, prm.FeeContract.Common, feeDeployData(prm.FeeContract))
	if err != nil {
		return res, fmt.Errorf("sync Fee contract with the chain: %w", err)
	}

	prm.Logger.Info("Fee contract successfully synchronized", zap.Stringer("address", res.Fee))

	err = setFeeRoles(ctx, w, res.Fee, prm.FeeContract)
	if err != nil {
		return res, fmt.Errorf("set Fee contract roles: %w", err)
	}

	prm.Logger.Info("synchronizing Stake contract with the chain...")

	res.Stake, err = syncContract(ctx, w, prm.StakeContract.Common, stakeDeployData(prm.StakeContract))
	if err != nil {
		return res, fmt.Errorf("sync Stake contract with the chain: %w", err)
	}

	prm.Logger.Info("Stake contract successfully synchronized", zap.Stringer("address", res.Stake))

	if prm.StakeContract.InitialFunding != nil && prm.StakeContract.InitialFunding.Sign() > 0 {
		prm.Logger.Info("funding Stake contract...", zap.Stringer("amount", prm.StakeContract.InitialFunding))

		token := nep17.New(act, prm.StakeContract.Token)
		h, vub, err := token.Transfer(act.Sender(), res.Stake, prm.StakeContract.InitialFunding, nil)
		err = w.wait(ctx, h, vub, err)
		if err != nil {
			return res, fmt.Errorf("fund Stake contract: %w", err)
		}

		prm.Logger.Info("Stake contract successfully funded")
	}

	return res, nil
}

func checkPrm(prm Prm) error {
	switch {
	case prm.Blockchain == nil:
		return errors.New("missing blockchain")
	case prm.LocalAccount == nil:
		return errors.New("missing local account")
	case len(prm.FeeContract.Owners) == 0:
		return errors.New("empty owner set")
	case len(prm.StakeContract.Stakers) == 0:
		return errors.New("empty staker list")
	case prm.StakeContract.Amount == nil || prm.StakeContract.Amount.Sign() <= 0:
		return errors.New("non-positive amount")
	case prm.StakeContract.Token.Equals(util.Uint160{}):
		return errors.New("missing token")
	case prm.StakeContract.Operator.Equals(util.Uint160{}):
		return errors.New("missing operator")
	case prm.StakeContract.FeeSource.Equals(util.Uint160{}):
		return errors.New("missing fee source")
	}

	if prm.StakeContract.InitialFunding != nil && prm.StakeContract.InitialFunding.Sign() > 0 &&
		!prm.StakeContract.FeeSource.Equals(prm.LocalAccount.ScriptHash()) {
		return errors.New("initial funding requires local account to be the fee source")
	}

	if !prm.FeeContract.Minter.Equals(util.Uint160{}) || !prm.FeeContract.Operator.Equals(util.Uint160{}) {
		local := prm.LocalAccount.ScriptHash()
		for i := range prm.FeeContract.Owners {
			if prm.FeeContract.Owners[i].Equals(local) {
				return nil
			}
		}

		return errors.New("role assignment requires local account to be an owner")
	}

	return nil
}

func hashesToAny(hs []util.Uint160) []any {
	res := make([]any, len(hs))
	for i := range hs {
		res[i] = hs[i]
	}
	return res
}

func feeDeployData(prm FeeContractPrm) []any {
	return []any{
		hashesToAny(prm.Owners),
		prm.Name,
		prm.Decimals,
		prm.Symbol,
	}
}

func stakeDeployData(prm StakeContractPrm) []any {
	return []any{
		hashesToAny(prm.Stakers),
		prm.Operator,
		prm.FeeSource,
		prm.Amount,
		prm.Token,
	}
}

// syncContract deploys the contract unless it is already deployed by the
// actor and returns its address.
func syncContract(ctx context.Context, w waiter, prm CommonDeployPrm, data []any) (util.Uint160, error) {
	addr := state.CreateContractHash(w.actor.Sender(), prm.NEF.Checksum, prm.Manifest.Name)
	l := w.logger.With(zap.String("contract", prm.Manifest.Name), zap.Stringer("address", addr))

	_, err := w.blockchain.GetContractStateByHash(addr)
	if err == nil {
		l.Info("contract is already deployed, skip")
		return addr, nil
	}

	if !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get contract state: %w", err)
	}

	l.Info("contract is missing on the chain, deploying...")

	h, vub, err := management.New(w.actor).Deploy(&prm.NEF, &prm.Manifest, data)
	err = w.wait(ctx, h, vub, err)
	if err != nil {
		return addr, fmt.Errorf("deploy contract: %w", err)
	}

	return addr, nil
}

func setFeeRoles(ctx context.Context, w waiter, addr util.Uint160, prm FeeContractPrm) error {
	c := fee.New(w.actor, addr)
	local := w.actor.Sender()

	if !prm.Minter.Equals(util.Uint160{}) {
		w.logger.Info("setting Fee minter...", zap.Stringer("minter", prm.Minter))

		h, vub, err := c.SetMinter(local, prm.Minter)
		err = w.wait(ctx, h, vub, err)
		if err != nil {
			return fmt.Errorf("set minter: %w", err)
		}
	}

	if !prm.Operator.Equals(util.Uint160{}) {
		w.logger.Info("setting Fee operator...", zap.Stringer("operator", prm.Operator))

		h, vub, err := c.SetOperator(local, prm.Operator)
		err = w.wait(ctx, h, vub, err)
		if err != nil {
			return fmt.Errorf("set operator: %w", err)
		}
	}

	return nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

func faultReason(exception string) error {
	if exception == "" {
		return errors.New("unknown fault")
	}
	return fee.FaultReason(exception)
}

// waiter sends transactions on behalf of the local account and waits for them
// to be persisted.
type waiter struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      *actor.Actor
}

// wait waits for the transaction sent with given results and checks that it
// has been executed successfully. Results are those of any [actor.Actor]
// sending method.
func (w waiter) wait(ctx context.Context, h util.Uint256, vub uint32, err error) error {
	if err != nil {
		return fmt.Errorf("send transaction: %w", err)
	}

	l := w.logger.With(zap.Stringer("tx", h))
	l.Debug("transaction sent, waiting for it to be persisted...", zap.Uint32("vub", vub))

	res, err := w.actor.WaitAny(ctx, vub, h)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed: %w", h.StringLE(), faultReason(res.FaultException))
	}

	l.Debug("transaction persisted")

	return nil
}

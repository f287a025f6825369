package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leverj/fee-contracts/contracts"
	"github.com/leverj/fee-contracts/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	debug := flag.Bool("debug", false, "Enable development logging")

	flag.Parse()

	if *configPath == "" {
		log.Fatal("missing config file")
	}

	cfg, err := readConfigFile(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	var logger *zap.Logger
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(fmt.Errorf("init logger: %w", err))
	}

	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	res, err := run(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("deployment failed", zap.Error(err))
	}

	logger.Info("contracts are successfully deployed",
		zap.String("fee", address.Uint160ToString(res.Fee)),
		zap.String("stake", address.Uint160ToString(res.Stake)))
}

func run(ctx context.Context, logger *zap.Logger, cfg *config) (deploy.Result, error) {
	var res deploy.Result

	prm, err := deployPrm(cfg)
	if err != nil {
		return res, err
	}

	prm.Logger = logger

	acc, err := openAccount(cfg)
	if err != nil {
		return res, err
	}

	prm.LocalAccount = acc

	cs, err := contracts.ReadAll(os.DirFS(cfg.Contracts))
	if err != nil {
		return res, err
	}

	prm.FeeContract.Common = deploy.CommonDeployPrm{NEF: cs[0].NEF, Manifest: cs[0].Manifest}
	prm.StakeContract.Common = deploy.CommonDeployPrm{NEF: cs[1].NEF, Manifest: cs[1].Manifest}

	c, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return res, fmt.Errorf("RPC client dial: %w", err)
	}

	defer c.Close()

	err = c.Init()
	if err != nil {
		return res, fmt.Errorf("init RPC client: %w", err)
	}

	prm.Blockchain = c

	return deploy.Deploy(ctx, prm)
}

// deployPrm fills deployment parameters from the config except contracts,
// blockchain and the local account.
func deployPrm(cfg *config) (deploy.Prm, error) {
	var (
		prm deploy.Prm
		err error
	)

	prm.FeeContract.Owners, err = decodeAddresses(cfg.Fee.Owners)
	if err != nil {
		return prm, fmt.Errorf("fee owners: %w", err)
	}

	prm.FeeContract.Name = cfg.Fee.Name
	prm.FeeContract.Symbol = cfg.Fee.Symbol
	prm.FeeContract.Decimals = *cfg.Fee.Decimals

	prm.FeeContract.Minter, err = decodeOptionalAddress(cfg.Fee.Minter)
	if err != nil {
		return prm, fmt.Errorf("fee minter: %w", err)
	}

	prm.FeeContract.Operator, err = decodeOptionalAddress(cfg.Fee.Operator)
	if err != nil {
		return prm, fmt.Errorf("fee operator: %w", err)
	}

	prm.StakeContract.Stakers, err = decodeAddresses(cfg.Stake.Stakers)
	if err != nil {
		return prm, fmt.Errorf("stakers: %w", err)
	}

	prm.StakeContract.Operator, err = decodeOptionalAddress(cfg.Stake.Operator)
	if err != nil {
		return prm, fmt.Errorf("stake operator: %w", err)
	}

	prm.StakeContract.FeeSource, err = decodeOptionalAddress(cfg.Stake.FeeSource)
	if err != nil {
		return prm, fmt.Errorf("fee source: %w", err)
	}

	prm.StakeContract.Token, err = decodeOptionalAddress(cfg.Stake.Token)
	if err != nil {
		return prm, fmt.Errorf("token: %w", err)
	}

	prm.StakeContract.Amount, err = decodeOptionalAmount(cfg.Stake.Amount)
	if err != nil {
		return prm, fmt.Errorf("stake amount: %w", err)
	}

	prm.StakeContract.InitialFunding, err = decodeOptionalAmount(cfg.Stake.InitialFunding)
	if err != nil {
		return prm, fmt.Errorf("initial funding: %w", err)
	}

	return prm, nil
}

func openAccount(cfg *config) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(cfg.Wallet.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	h, err := address.StringToUint160(cfg.Wallet.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", cfg.Wallet.Address)
	}

	err = acc.Decrypt(cfg.Wallet.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}

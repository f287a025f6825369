package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"gopkg.in/yaml.v3"
)

// config is a structure of the YAML configuration file.
type config struct {
	RPC struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"rpc"`

	Wallet struct {
		Path     string `yaml:"path"`
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
	} `yaml:"wallet"`

	// Directory with compiled contracts, see contracts.Read.
	Contracts string `yaml:"contracts"`

	Fee struct {
		Owners   []string `yaml:"owners"`
		Name     string   `yaml:"name"`
		Symbol   string   `yaml:"symbol"`
		Decimals *int64   `yaml:"decimals"`
		Minter   string   `yaml:"minter"`
		Operator string   `yaml:"operator"`
	} `yaml:"fee"`

	Stake struct {
		Stakers        []string `yaml:"stakers"`
		Operator       string   `yaml:"operator"`
		FeeSource      string   `yaml:"fee_source"`
		Amount         string   `yaml:"amount"`
		Token          string   `yaml:"token"`
		InitialFunding string   `yaml:"initial_funding"`
	} `yaml:"stake"`
}

func readConfigFile(path string) (*config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return readConfig(f)
}

func readConfig(r io.Reader) (*config, error) {
	var cfg config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}

	switch {
	case cfg.RPC.Endpoint == "":
		return nil, errors.New("missing RPC endpoint")
	case cfg.Wallet.Path == "":
		return nil, errors.New("missing wallet path")
	case cfg.Wallet.Address == "":
		return nil, errors.New("missing wallet address")
	case cfg.Contracts == "":
		return nil, errors.New("missing contracts directory")
	}

	if cfg.Fee.Name == "" {
		cfg.Fee.Name = "FEE"
	}

	if cfg.Fee.Symbol == "" {
		cfg.Fee.Symbol = "FEE"
	}

	if cfg.Fee.Decimals == nil {
		cfg.Fee.Decimals = new(int64)
		*cfg.Fee.Decimals = 9
	} else if *cfg.Fee.Decimals < 0 {
		return nil, errors.New("negative decimals")
	}

	return &cfg, nil
}

// decodeAddresses decodes Neo addresses of the list.
func decodeAddresses(list []string) ([]util.Uint160, error) {
	res := make([]util.Uint160, len(list))

	for i := range list {
		var err error

		res[i], err = address.StringToUint160(list[i])
		if err != nil {
			return nil, fmt.Errorf("invalid address #%d '%s': %w", i, list[i], err)
		}
	}

	return res, nil
}

// decodeOptionalAddress decodes Neo address or returns zero hash for an
// empty string.
func decodeOptionalAddress(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, nil
	}

	res, err := address.StringToUint160(s)
	if err != nil {
		return res, fmt.Errorf("invalid address '%s': %w", s, err)
	}

	return res, nil
}

// decodeOptionalAmount decodes decimal integer or returns nil for an empty
// string.
func decodeOptionalAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}

	res, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount '%s'", s)
	}

	return res, nil
}

// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/offlinetx/offline/bitcoin"
	"github.com/btcsuite/offlinetx/pkg/btcunit"
	"github.com/btcsuite/offlinetx/pkg/txfee"
	"github.com/jessevdk/go-flags"
)

const (
	signSubCmd           = "sign"
	createUnsignedSubCmd = "create-unsigned"
	estimateFeeSubCmd    = "estimate-fee"

	defaultLogLevel    = "info"
	defaultLogFilename = "offlinetx.log"
)

var (
	// errMultipleNetworks is returned when more than one network flag is
	// set.
	errMultipleNetworks = errors.New("the testnet, regtest, signet " +
		"and simnet params can't be used together -- choose one of " +
		"the four")

	// errInvalidMaxFeeRate is returned when the max fee rate is zero or
	// above the total supply.
	errInvalidMaxFeeRate = errors.New("invalid max fee rate")
)

// appConfig holds the options shared by every sub-command.
type appConfig struct {
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogDir     string `long:"logdir" description:"Directory to write a rotated log file to, in addition to stderr"`
}

// NetworkFlags selects the chain addresses and keys must belong to. Mainnet
// is used when no flag is set.
type NetworkFlags struct {
	TestNet3      bool `long:"testnet" description:"Use the test bitcoin network (version 3)"`
	RegressionNet bool `long:"regtest" description:"Use the regression test network"`
	SigNet        bool `long:"signet" description:"Use the signet test network"`
	SimNet        bool `long:"simnet" description:"Use the simulation test network"`

	params *chaincfg.Params
}

// resolveNetwork sets the active chain params. It returns an error if more
// than one network was selected.
func (n *NetworkFlags) resolveNetwork() error {
	n.params = &chaincfg.MainNetParams

	numNets := 0
	if n.TestNet3 {
		numNets++
		n.params = &chaincfg.TestNet3Params
	}
	if n.RegressionNet {
		numNets++
		n.params = &chaincfg.RegressionNetParams
	}
	if n.SigNet {
		numNets++
		n.params = &chaincfg.SigNetParams
	}
	if n.SimNet {
		numNets++
		n.params = &chaincfg.SimNetParams
	}

	if numNets > 1 {
		return errMultipleNetworks
	}

	return nil
}

// ChainParams returns the params resolved from the flags.
func (n *NetworkFlags) ChainParams() *chaincfg.Params {
	return n.params
}

// CommonFlags are the options of every command that reads a request.
type CommonFlags struct {
	Input       string `short:"i" long:"input" description:"Path to the JSON request" required:"true"`
	Output      string `short:"o" long:"output" description:"Path to write the result to instead of stdout"`
	FeeStrategy string `long:"feestrategy" description:"How the transaction size is estimated for the fee" choice:"heuristic" choice:"exact" default:"heuristic"`
	MaxFeeRate  int64  `long:"maxfeerate" description:"The highest fee rate in sat/vB a request may ask for" default:"1000"`

	NetworkFlags
}

// validate checks the values go-flags can't and resolves the network.
func (c *CommonFlags) validate() error {
	if c.MaxFeeRate <= 0 || c.MaxFeeRate > btcutil.MaxSatoshi {
		return fmt.Errorf("%w: %d, must be in (0, %d]",
			errInvalidMaxFeeRate, c.MaxFeeRate,
			int64(btcutil.MaxSatoshi))
	}

	return c.resolveNetwork()
}

// backendConfig returns the bitcoin backend config the flags describe.
func (c *CommonFlags) backendConfig() (bitcoin.Config, error) {
	estimator, err := txfee.ByName(c.FeeStrategy)
	if err != nil {
		return bitcoin.Config{}, err
	}

	return bitcoin.Config{
		ChainParams:  c.ChainParams(),
		FeeEstimator: estimator,
		MaxFeeRate: btcunit.NewSatPerVByte(
			btcutil.Amount(c.MaxFeeRate),
		),
	}, nil
}

type signConfig struct {
	PromptKey bool `long:"promptkey" description:"Read the WIF private key from the terminal instead of the request's privateKey"`

	CommonFlags
}

type createUnsignedConfig struct {
	PSBT bool `long:"psbt" description:"Output a base64 PSBT instead of the raw unsigned transaction"`

	CommonFlags
}

type estimateFeeConfig struct {
	CommonFlags
}

// commandConfig is implemented by the config of every sub-command.
type commandConfig interface {
	common() *CommonFlags
}

func (c *signConfig) common() *CommonFlags {
	return &c.CommonFlags
}

func (c *createUnsignedConfig) common() *CommonFlags {
	return &c.CommonFlags
}

func (c *estimateFeeConfig) common() *CommonFlags {
	return &c.CommonFlags
}

// parseCommandLine parses args into the active sub-command and its config.
// A flags.ErrHelp error is returned as is when help was requested.
func parseCommandLine(args []string) (string, *appConfig, commandConfig,
	error) {

	cfg := &appConfig{
		DebugLevel: defaultLogLevel,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)

	signConf := &signConfig{}
	_, err := parser.AddCommand(signSubCmd, "Sign a transaction",
		"Assembles the transaction described by the request, signs "+
			"every input with the request's key and outputs the "+
			"hex encoded signed transaction", signConf)
	if err != nil {
		return "", nil, nil, err
	}

	createUnsignedConf := &createUnsignedConfig{}
	_, err = parser.AddCommand(createUnsignedSubCmd,
		"Create an unsigned transaction",
		"Assembles the transaction described by the request without "+
			"signing it and outputs it as raw hex or as a PSBT",
		createUnsignedConf)
	if err != nil {
		return "", nil, nil, err
	}

	estimateFeeConf := &estimateFeeConfig{}
	_, err = parser.AddCommand(estimateFeeSubCmd, "Estimate the fee",
		"Prints the size, fee and change the transaction described "+
			"by the request would have", estimateFeeConf)
	if err != nil {
		return "", nil, nil, err
	}

	if _, err := parser.ParseArgs(args); err != nil {
		return "", nil, nil, err
	}

	var cmdConf commandConfig
	switch parser.Command.Active.Name {
	case signSubCmd:
		cmdConf = signConf

	case createUnsignedSubCmd:
		cmdConf = createUnsignedConf

	case estimateFeeSubCmd:
		cmdConf = estimateFeeConf
	}

	if err := cmdConf.common().validate(); err != nil {
		return "", nil, nil, err
	}

	return parser.Command.Active.Name, cfg, cmdConf, nil
}

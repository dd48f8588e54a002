// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/offlinetx/offline"
	"github.com/btcsuite/offlinetx/offline/bitcoin"
	"github.com/jessevdk/go-flags"
	"golang.org/x/term"
)

var (
	// errNoTerminal is returned when the key is to be prompted for but
	// stdin is not a terminal.
	errNoTerminal = errors.New("--promptkey requires stdin to be a " +
		"terminal")

	// errEmptyKey is returned when an empty key was entered at the
	// prompt.
	errEmptyKey = errors.New("no private key entered")
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	// go-flags already printed its own errors and the help message.
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) {
		if flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	printErrorAndExit(err)
}

// printErrorAndExit reports err with its kind on stderr and exits with a
// non-zero code.
func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", offline.ErrorKind(err), err)
	os.Exit(1)
}

// run executes the command described by args, writing its result to stdout
// unless an output file is given.
func run(args []string, stdout io.Writer) error {
	subCmd, cfg, cmdConf, err := parseCommandLine(args)
	if err != nil {
		return err
	}

	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	if cfg.LogDir != "" {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			return err
		}
		defer closeLogRotator()
	}

	backendCfg, err := cmdConf.common().backendConfig()
	if err != nil {
		return err
	}
	pipeline := offline.NewPipeline(bitcoin.New(backendCfg))

	log.Debugf("Running %s on %s", subCmd, cmdConf.common().Input)

	switch conf := cmdConf.(type) {
	case *signConfig:
		return sign(pipeline, conf, stdout)

	case *createUnsignedConfig:
		return createUnsigned(pipeline, conf, stdout)

	case *estimateFeeConfig:
		return estimateFee(pipeline, conf, stdout)

	default:
		return fmt.Errorf("unknown sub-command '%s'", subCmd)
	}
}

// sign runs the full pipeline and outputs the signed transaction.
func sign(pipeline *offline.Pipeline, conf *signConfig,
	stdout io.Writer) error {

	opts := offline.DocumentOptions{KeyOptional: conf.PromptKey}
	network, req, err := pipeline.LoadFile(conf.Input, opts)
	if err != nil {
		return err
	}

	if conf.PromptKey {
		key, err := promptPrivateKey()
		if err != nil {
			return err
		}

		withKey := *req
		withKey.PrivateKey = key
		req = &withKey
	}

	tx, err := pipeline.Run(network, req)
	if err != nil {
		return err
	}

	txHex, err := tx.Hex()
	if err != nil {
		return err
	}

	if err := writeOutput(conf.Output, stdout, txHex); err != nil {
		return err
	}

	log.Infof("Transaction id: %s", tx.TxID())

	return nil
}

// createUnsigned assembles the transaction without signing it.
func createUnsigned(pipeline *offline.Pipeline, conf *createUnsignedConfig,
	stdout io.Writer) error {

	tx, err := assemble(pipeline, conf.Input)
	if err != nil {
		return err
	}

	if !conf.PSBT {
		return writeOutput(conf.Output, stdout, tx.UnsignedHex())
	}

	exporter, ok := tx.(offline.PacketExporter)
	if !ok {
		return &offline.UnsupportedError{
			Component: "output format",
			Input:     "psbt",
			Expected:  "hex",
		}
	}

	packet, err := exporter.ExportPacket()
	if err != nil {
		return err
	}

	return writeOutput(conf.Output, stdout, packet)
}

// estimateFee prints the size and fee figures of the assembled transaction.
func estimateFee(pipeline *offline.Pipeline, conf *estimateFeeConfig,
	stdout io.Writer) error {

	tx, err := assemble(pipeline, conf.Input)
	if err != nil {
		return err
	}

	btcTx, ok := tx.(*bitcoin.Transaction)
	if !ok {
		return fmt.Errorf("unexpected transaction type %T", tx)
	}

	change := "none, below dust and added to the fee"
	if idx := btcTx.ChangeIndex(); idx >= 0 {
		change = fmt.Sprintf("%d sat at output %d",
			btcTx.MsgTx().TxOut[idx].Value, idx)
	}

	var b strings.Builder
	feeRate := btcTx.FeeRate()
	fmt.Fprintf(&b, "strategy: %s\n", conf.FeeStrategy)
	fmt.Fprintf(&b, "fee rate: %v (%v)\n", feeRate,
		feeRate.ToSatPerKVByte())
	fmt.Fprintf(&b, "estimated vsize: %d vB\n",
		btcTx.EstimatedVSize().VBytes())
	fmt.Fprintf(&b, "estimated fee: %d sat\n", int64(btcTx.EstimatedFee()))
	fmt.Fprintf(&b, "fee: %d sat\n", btcTx.Fee())
	fmt.Fprintf(&b, "change: %s", change)

	return writeOutput(conf.Output, stdout, b.String())
}

// assemble loads the request at path and builds its unsigned transaction.
// The private key is not needed and not required to be present.
func assemble(pipeline *offline.Pipeline, path string) (offline.Transaction,
	error) {

	network, req, err := pipeline.LoadFile(
		path, offline.DocumentOptions{KeyOptional: true},
	)
	if err != nil {
		return nil, err
	}

	return pipeline.Assemble(network, req)
}

// promptPrivateKey reads a WIF key from the terminal without echoing it.
func promptPrivateKey() (offline.Secret, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}

	fmt.Fprint(os.Stderr, "Enter WIF private key: ")
	keyBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", &offline.FileOperationError{
			Operation: "read key", Reason: err.Error(),
		}
	}

	key := strings.TrimSpace(string(keyBytes))
	for i := range keyBytes {
		keyBytes[i] = 0
	}

	if key == "" {
		return "", errEmptyKey
	}

	return offline.Secret(key), nil
}

// writeOutput writes data to path, or to stdout if path is empty.
func writeOutput(path string, stdout io.Writer, data string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, data)
		return err
	}

	err := os.WriteFile(path, []byte(data+"\n"), 0600)
	if err != nil {
		return &offline.FileOperationError{
			Operation: "write", Reason: err.Error(),
		}
	}

	log.Infof("Wrote result to %s", path)

	return nil
}

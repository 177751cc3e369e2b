// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command legendrecrack recovers the secret key of a Legendre-symbol
// pseudo-random generator by sliding-window brute-force key search.
package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"
	"strconv"
	"time"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	"github.com/mthoma/legendrecrack/legendre"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

// CommonFlags are shared between the crack and scenarios subcommands.
type CommonFlags struct {
	ConfidenceBits int    `subcmd:"confidence-bits,100,'consecutive surviving symbols required before a candidate is accepted'"`
	Engine         string `subcmd:"engine,both,'which engine(s) to run: set, bitmap, or both'"`
	Verbose        bool   `subcmd:"verbose,false,'print per-engine counters'"`
}

type crackFlags struct {
	CommonFlags
	ProgressBar bool `subcmd:"progress,true,'display a progress bar tracking anchor advance through the keyspace window'"`
}

type scenariosFlags struct {
	CommonFlags
}

var cmdSet *subcmd.CommandSet

func init() {
	crackCmd := subcmd.NewCommand("crack",
		subcmd.MustRegisterFlagStruct(&crackFlags{}, nil, nil),
		crack, subcmd.AtLeastNArguments(2))
	crackCmd.Document(`recover the key of a Legendre PRG stream: crack security_bits stream_length [keyspace_bits]`)

	scenariosCmd := subcmd.NewCommand("scenarios",
		subcmd.MustRegisterFlagStruct(&scenariosFlags{}, nil, nil),
		scenarios, subcmd.ExactlyNumArguments(0))
	scenariosCmd.Document(`run the fixed S1, S2, S3 and S5 scenario rows plus a freshly generated S4 and report pass/fail for both engines.`)

	cmdSet = subcmd.NewCommandSet(crackCmd, scenariosCmd)
	cmdSet.Document(`recover Legendre PRG keys by sliding-window brute force search.`)
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

func parsePositiveInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return n, nil
}

func engineNames(sel string) ([]string, error) {
	switch sel {
	case "set":
		return []string{"set"}, nil
	case "bitmap":
		return []string{"bitmap"}, nil
	case "both", "":
		return []string{"set", "bitmap"}, nil
	default:
		return nil, fmt.Errorf("unknown --engine value %q, want set, bitmap, or both", sel)
	}
}

// progressReporter drives a progressbar.ProgressBar off the fraction of
// the keyspace window the anchor has advanced through, treating the
// first reported anchor as the base (the driver picks K0 internally, so
// the CLI doesn't know it in advance).
func progressReporter(bar *progressbar.ProgressBar, window *big.Int) legendre.ProgressFunc {
	var base *big.Int
	return func(anchor *big.Int, elapsed time.Duration) {
		if window.Sign() <= 0 {
			return
		}
		if base == nil {
			base = new(big.Int).Set(anchor)
		}
		advanced := new(big.Int).Sub(anchor, base)
		if advanced.Sign() < 0 {
			return
		}
		frac := new(big.Float).Quo(new(big.Float).SetInt(advanced), new(big.Float).SetInt(window))
		f, _ := frac.Float64()
		if f > 1 {
			f = 1
		}
		bar.Set(int(f * 100))
	}
}

func crack(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cmdutil.HandleSignals(cancel, os.Interrupt)

	cl := values.(*crackFlags)
	if len(args) > 3 {
		return fmt.Errorf("crack takes at most 3 arguments, got %d", len(args))
	}

	securityBits, err := parsePositiveInt("security_bits", args[0])
	if err != nil {
		return err
	}
	if securityBits < 2 || securityBits > 256 {
		return fmt.Errorf("security_bits must be in [2,256], got %d", securityBits)
	}
	streamLength, err := parsePositiveInt("stream_length", args[1])
	if err != nil {
		return err
	}
	keyspaceBits := 0
	if len(args) == 3 {
		if keyspaceBits, err = parsePositiveInt("keyspace_bits", args[2]); err != nil {
			return err
		}
	}

	engines, err := engineNames(cl.Engine)
	if err != nil {
		return err
	}

	d := &legendre.Driver{Verbose: cl.Verbose}

	var bar *progressbar.ProgressBar
	var progress legendre.ProgressFunc
	if cl.ProgressBar && keyspaceBits > 0 {
		w := os.Stdout
		if !terminal.IsTerminal(int(os.Stdout.Fd())) {
			w = os.Stderr
		}
		bar = progressbar.NewOptions(100, progressbar.OptionSetWriter(w))
		bar.RenderBlank()
		window := new(big.Int).Lsh(big.NewInt(1), uint(keyspaceBits))
		progress = progressReporter(bar, window)
	}
	if cl.Verbose {
		inner := progress
		progress = func(anchor *big.Int, elapsed time.Duration) {
			if inner != nil {
				inner(anchor, elapsed)
			}
			log.Printf("anchor=%s elapsed=%s", anchor, elapsed)
		}
	}

	result, err := d.Run(ctx, legendre.RunOptions{
		SecurityBits:   securityBits,
		StreamLength:   streamLength,
		KeyspaceBits:   keyspaceBits,
		ConfidenceBits: cl.ConfidenceBits,
		Engines:        engines,
		Progress:       progress,
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Printf("prime:  %s\n", result.Prime)
	fmt.Printf("key:    %s\n", result.Key)
	fmt.Printf("window: starting from %s\n", result.K0)
	for _, name := range engines {
		r := result.Results[name]
		if !cl.Verbose {
			fmt.Printf("%s engine: recovered %s\n", name, r.Key)
			continue
		}
		fmt.Printf("%s engine: recovered %s (symbols computed=%d reused=%d, took %s)\n",
			name, r.Key, r.SymbolsComputed, r.SymbolsReused, r.Duration)
	}
	return nil
}

func scenarios(ctx context.Context, values interface{}, args []string) error {
	errs := &errors.M{}
	for _, sc := range legendre.ScenarioSet() {
		ok, err := legendre.RunScenario(ctx, sc)
		status := "PASS"
		if err != nil || !ok {
			status = "FAIL"
			errs.Append(fmt.Errorf("%s: %v", sc.Name, err))
		}
		log.Printf("%-4s %-4s p=%v K=%v L=%v confidence=%v start=%v",
			status, sc.Name, sc.P, sc.K, sc.L, sc.ConfidenceBits, sc.StartFrom)
	}
	return errs.Err()
}

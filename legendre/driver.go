// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package legendre

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"cloudeng.io/errors"
)

// WrongResultError is returned when an engine's recovered key does not
// match the key the hint was generated from, or when two engines
// disagree with each other. Either is a correctness regression in the
// engine, not a runtime condition a caller can recover from.
type WrongResultError struct {
	Engine string
	Got    *big.Int
	Want   *big.Int
}

func (e *WrongResultError) Error() string {
	return fmt.Sprintf("legendre: %s engine returned %s, want %s", e.Engine, e.Got, e.Want)
}

// RunOptions configures a Driver.Run invocation.
type RunOptions struct {
	// Prime is the modulus to attack. If nil, one is generated with
	// SecurityBits bits.
	Prime *big.Int
	// SecurityBits is used to generate Prime when Prime is nil.
	SecurityBits int
	// Key is the secret to recover. If nil, one is drawn uniformly from
	// [0, Prime).
	Key *big.Int
	// StreamLength is the hint length L.
	StreamLength int
	// KeyspaceBits, if > 0, restricts the search to start from
	// max(0, Key - 2^KeyspaceBits) instead of 0.
	KeyspaceBits int
	// ConfidenceBits is the number of consecutive surviving symbols
	// required before an engine accepts a candidate.
	ConfidenceBits int
	// Engines names which engines to run and cross-check: any of "set",
	// "bitmap". Defaults to both.
	Engines []string
	// Progress, if non-nil, is forwarded to every engine run.
	Progress ProgressFunc
}

// RunResult is the outcome of a verified Driver.Run.
type RunResult struct {
	Prime   *big.Int
	Key     *big.Int
	K0      *big.Int
	Results map[string]Result
}

// Driver builds a Legendre PRG instance, runs one or both search
// engines against it, and verifies every engine's answer against the
// planted key.
type Driver struct {
	Verbose bool
}

// GeneratePrime returns a random prime of the given bit length, suitable
// as the Legendre PRG's modulus.
func (d *Driver) GeneratePrime(bits int) (*big.Int, error) {
	p, err := rand.Prime(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("legendre: generating a %d-bit prime: %w", bits, err)
	}
	return p, nil
}

// GenerateKey returns a random key in [0, p).
func (d *Driver) GenerateKey(p *big.Int) (*big.Int, error) {
	return rand.Int(rand.Reader, p)
}

func newEngine(name string, opts ...EngineOption) (Engine, error) {
	switch name {
	case "set":
		return NewSetEngine(opts...), nil
	case "bitmap":
		return NewBitmapEngine(opts...), nil
	default:
		return nil, fmt.Errorf("legendre: unknown engine %q, want \"set\" or \"bitmap\"", name)
	}
}

// Run builds (or accepts) p and K, computes the hint, runs every
// requested engine, and verifies each recovered key against K and
// against each other. It aggregates every failure via errors.M rather
// than stopping at the first one, so a caller sees every engine's
// disposition in a single error.
func (d *Driver) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	p := opts.Prime
	if p == nil {
		var err error
		p, err = d.GeneratePrime(opts.SecurityBits)
		if err != nil {
			return nil, err
		}
	}
	key := opts.Key
	if key == nil {
		var err error
		key, err = d.GenerateKey(p)
		if err != nil {
			return nil, err
		}
	}

	hint, err := Prng(key, big.NewInt(0), p, opts.StreamLength)
	if err != nil {
		return nil, err
	}

	k0 := big.NewInt(0)
	if opts.KeyspaceBits > 0 {
		window := new(big.Int).Lsh(bigOne, uint(opts.KeyspaceBits))
		k0.Sub(key, window)
		if k0.Sign() < 0 {
			k0.SetInt64(0)
		}
	}

	names := opts.Engines
	if len(names) == 0 {
		names = []string{"set", "bitmap"}
	}

	var engineOptions []EngineOption
	if opts.Progress != nil {
		engineOptions = append(engineOptions, WithProgress(opts.Progress))
	}

	errs := &errors.M{}
	results := make(map[string]Result, len(names))
	for _, name := range names {
		eng, err := newEngine(name, engineOptions...)
		if err != nil {
			errs.Append(err)
			continue
		}
		r, err := eng.Search(ctx, p, hint, k0, opts.ConfidenceBits)
		if err != nil {
			errs.Append(fmt.Errorf("legendre: %s engine: %w", name, err))
			continue
		}
		results[name] = r
		if r.Key.Cmp(key) != 0 {
			errs.Append(&WrongResultError{Engine: name, Got: r.Key, Want: key})
		}
	}

	if set, okSet := results["set"]; okSet {
		if bm, okBm := results["bitmap"]; okBm && set.Key.Cmp(bm.Key) != 0 {
			errs.Append(&WrongResultError{Engine: "bitmap", Got: bm.Key, Want: set.Key})
		}
	}

	return &RunResult{Prime: p, Key: key, K0: k0, Results: results}, errs.Err()
}

// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package legendre implements the Legendre-symbol pseudo-random generator
// and the sliding-window key-search engines that invert it.
package legendre

import (
	"fmt"
	"math/big"
)

// InvalidPrimeError is returned when a value presented as the generator's
// modulus is even, less than 3, or fails a primality test.
type InvalidPrimeError struct {
	P *big.Int
}

func (e *InvalidPrimeError) Error() string {
	return fmt.Sprintf("legendre: %s is not a valid odd prime", e.P)
}

// primalityRounds is the number of Miller-Rabin rounds used by Oracle's
// primality check. 20 rounds gives a false-positive probability below
// 2^-40, which is the same order of magnitude the engine already accepts
// for its confidence_bits default (the CLI's --confidence-bits flag).
const primalityRounds = 20

// Oracle computes Legendre symbols modulo a fixed odd prime p.
type Oracle struct {
	p *big.Int
}

// NewOracle validates p and returns an Oracle bound to it. p is copied; the
// caller's value may be mutated afterwards without affecting the Oracle.
func NewOracle(p *big.Int) (*Oracle, error) {
	if p == nil || p.Sign() <= 0 || p.Cmp(big.NewInt(2)) <= 0 || p.Bit(0) == 0 || !p.ProbablyPrime(primalityRounds) {
		return nil, &InvalidPrimeError{P: p}
	}
	return &Oracle{p: new(big.Int).Set(p)}, nil
}

// P returns the prime this oracle was constructed with.
func (o *Oracle) P() *big.Int {
	return new(big.Int).Set(o.p)
}

// Legendre returns legendre(a, p) in {-1, 0, +1}. a may be any integer,
// positive or negative, and is reduced modulo p internally (big.Jacobi
// performs this reduction as part of its reciprocity-based algorithm,
// which for an odd prime modulus coincides exactly with the Legendre
// symbol).
func (o *Oracle) Legendre(a *big.Int) int {
	return big.Jacobi(a, o.p)
}

// Bit returns true iff legendre(a, p) == +1. By the generator's
// convention, the degenerate case legendre(a,p) == 0,
// which occurs only when p divides a, is folded into false alongside -1.
func (o *Oracle) Bit(a *big.Int) bool {
	return o.Legendre(a) == 1
}

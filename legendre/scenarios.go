// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package legendre

import (
	"context"
	"fmt"
	"math/big"
)

// Scenario is one row of the concrete scenario table: a fixed (p, K, L,
// confidence, start_from) tuple with a known expected result.
type Scenario struct {
	Name           string
	P              *big.Int
	K              *big.Int
	L              int
	ConfidenceBits int
	StartFrom      *big.Int
}

// Scenarios holds the fixed-constant rows S1, S2, S3 and S5. S4 needs a
// freshly generated 40-bit prime and is built by Scenario4 instead; S6
// ("two runs of S2 with engines v2 and v3 return identically") is not a
// distinct row — RunScenario always cross-checks both engines, so
// running S2 exercises S6 for free.
var Scenarios = []Scenario{
	{Name: "S1", P: big.NewInt(23), K: big.NewInt(7), L: 64, ConfidenceBits: 20, StartFrom: big.NewInt(0)},
	{Name: "S2", P: big.NewInt(1009), K: big.NewInt(500), L: 128, ConfidenceBits: 40, StartFrom: big.NewInt(0)},
	{Name: "S3", P: big.NewInt(1009), K: big.NewInt(500), L: 128, ConfidenceBits: 40, StartFrom: big.NewInt(496)},
	{Name: "S5", P: big.NewInt(23), K: big.NewInt(0), L: 32, ConfidenceBits: 16, StartFrom: big.NewInt(0)},
}

// Scenario4 builds S4: a fixed 40-bit prime (the smallest prime >=
// 2^40), a deterministic K in (p/2, p), and start_from = max(0, K -
// 2^22). K is picked deterministically rather than at random so the
// scenario reproduces the same run every time it's invoked from the
// CLI.
func Scenario4() Scenario {
	p := new(big.Int).Lsh(big.NewInt(1), 40)
	for !p.ProbablyPrime(40) {
		p.Add(p, bigOne)
	}
	half := new(big.Int).Rsh(p, 1)
	k := new(big.Int).Add(half, bigOne)
	window := new(big.Int).Lsh(bigOne, 22)
	start := new(big.Int).Sub(k, window)
	if start.Sign() < 0 {
		start.SetInt64(0)
	}
	return Scenario{Name: "S4", P: p, K: k, L: 1000, ConfidenceBits: 100, StartFrom: start}
}

// ScenarioSet returns the fixed table plus the freshly built S4 row.
func ScenarioSet() []Scenario {
	out := make([]Scenario, 0, len(Scenarios)+1)
	out = append(out, Scenarios...)
	out = append(out, Scenario4())
	return out
}

// RunScenario runs both engines against sc and checks that each
// recovers sc.K and that they agree with each other.
func RunScenario(ctx context.Context, sc Scenario) (bool, error) {
	hint, err := Prng(sc.K, big.NewInt(0), sc.P, sc.L)
	if err != nil {
		return false, err
	}

	setResult, err := NewSetEngine().Search(ctx, sc.P, hint, sc.StartFrom, sc.ConfidenceBits)
	if err != nil {
		return false, fmt.Errorf("set engine: %w", err)
	}
	bmResult, err := NewBitmapEngine().Search(ctx, sc.P, hint, sc.StartFrom, sc.ConfidenceBits)
	if err != nil {
		return false, fmt.Errorf("bitmap engine: %w", err)
	}

	if setResult.Key.Cmp(sc.K) != 0 {
		return false, &WrongResultError{Engine: "set", Got: setResult.Key, Want: sc.K}
	}
	if bmResult.Key.Cmp(sc.K) != 0 {
		return false, &WrongResultError{Engine: "bitmap", Got: bmResult.Key, Want: sc.K}
	}
	if setResult.Key.Cmp(bmResult.Key) != 0 {
		return false, &WrongResultError{Engine: "bitmap", Got: bmResult.Key, Want: setResult.Key}
	}
	return true, nil
}

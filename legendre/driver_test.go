// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package legendre

import (
	"context"
	"math/big"
	"testing"
)

func TestDriverRunWithFixedPrimeAndKey(t *testing.T) {
	d := &Driver{}
	result, err := d.Run(context.Background(), RunOptions{
		Prime:          big.NewInt(1009),
		Key:            big.NewInt(500),
		StreamLength:   128,
		ConfidenceBits: 40,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Key.Cmp(big.NewInt(500)) != 0 {
		t.Errorf("Key = %v, want 500", result.Key)
	}
	for name, r := range result.Results {
		if r.Key.Cmp(result.Key) != 0 {
			t.Errorf("engine %s returned %v, want %v", name, r.Key, result.Key)
		}
	}
	if len(result.Results) != 2 {
		t.Errorf("len(Results) = %v, want 2 (set and bitmap)", len(result.Results))
	}
}

func TestDriverRunSingleEngine(t *testing.T) {
	d := &Driver{}
	result, err := d.Run(context.Background(), RunOptions{
		Prime:          big.NewInt(1009),
		Key:            big.NewInt(500),
		StreamLength:   128,
		ConfidenceBits: 40,
		Engines:        []string{"bitmap"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := result.Results["set"]; ok {
		t.Errorf("Results contains set engine output, want only bitmap")
	}
	if _, ok := result.Results["bitmap"]; !ok {
		t.Errorf("Results missing bitmap engine output")
	}
}

func TestDriverRunWithKeyspaceWindow(t *testing.T) {
	d := &Driver{}
	result, err := d.Run(context.Background(), RunOptions{
		Prime:          big.NewInt(1009),
		Key:            big.NewInt(500),
		StreamLength:   128,
		ConfidenceBits: 40,
		KeyspaceBits:   3,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := new(big.Int).Sub(big.NewInt(500), big.NewInt(8))
	if result.K0.Cmp(want) != 0 {
		t.Errorf("K0 = %v, want %v", result.K0, want)
	}
}

func TestDriverRunUnknownEngine(t *testing.T) {
	d := &Driver{}
	_, err := d.Run(context.Background(), RunOptions{
		Prime:          big.NewInt(1009),
		Key:            big.NewInt(500),
		StreamLength:   32,
		ConfidenceBits: 16,
		Engines:        []string{"quantum"},
	})
	if err == nil {
		t.Errorf("Run with unknown engine: got nil error")
	}
}

func TestDriverGeneratesPrimeAndKeyWhenAbsent(t *testing.T) {
	d := &Driver{}
	result, err := d.Run(context.Background(), RunOptions{
		SecurityBits:   24,
		StreamLength:   64,
		ConfidenceBits: 64,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Prime == nil || !result.Prime.ProbablyPrime(20) {
		t.Errorf("generated Prime = %v, not prime", result.Prime)
	}
	if result.Key == nil || result.Key.Sign() < 0 || result.Key.Cmp(result.Prime) >= 0 {
		t.Errorf("generated Key = %v, not in [0,p)", result.Key)
	}
}

// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package legendre

import (
	"math/big"
	"testing"
)

func TestHintStreamGet(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, true}
	h := NewHintStream(bits)
	if got, want := h.Len(), len(bits); got != want {
		t.Fatalf("Len() = %v, want %v", got, want)
	}
	for i, want := range bits {
		if got := h.Get(i); got != want {
			t.Errorf("Get(%v) = %v, want %v", i, got, want)
		}
	}
}

func TestHintStreamGetPanicsOutOfRange(t *testing.T) {
	h := NewHintStream([]bool{true, false})
	defer func() {
		if recover() == nil {
			t.Errorf("Get(2): did not panic")
		}
	}()
	h.Get(2)
}

func TestHintStreamSliceReverse(t *testing.T) {
	// L=8, indices 0..7.
	bits := []bool{false, true, false, true, true, false, true, false}
	h := NewHintStream(bits)

	// fromEndExclusive=0, count=8: H[7],H[6],...,H[0].
	got := h.SliceReverse(0, 8)
	want := []bool{false, true, false, true, true, false, true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SliceReverse(0,8)[%v] = %v, want %v", i, got[i], want[i])
		}
	}

	// fromEndExclusive=2, count=3: H[5],H[4],H[3].
	got = h.SliceReverse(2, 3)
	want = []bool{false, true, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SliceReverse(2,3)[%v] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPrngMatchesOracleBitByBit(t *testing.T) {
	p := big.NewInt(1009)
	key := big.NewInt(500)
	h, err := Prng(key, big.NewInt(0), p, 32)
	if err != nil {
		t.Fatal(err)
	}
	o, err := NewOracle(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 32; i++ {
		want := o.Bit(new(big.Int).Add(key, big.NewInt(int64(i))))
		if got := h.Get(i); got != want {
			t.Errorf("H[%v] = %v, want %v", i, got, want)
		}
	}
}

func TestPrngRejectsInvalidPrime(t *testing.T) {
	if _, err := Prng(big.NewInt(1), big.NewInt(0), big.NewInt(10), 8); err == nil {
		t.Errorf("Prng with composite modulus: got nil error")
	}
}

// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package legendre

import (
	"fmt"
	"math/big"
)

// HintStream is an immutable bit sequence of length Len(), packed
// little-endian into machine words. It is the observed prefix of a
// Legendre PRG's output: H[i] = 1 iff legendre(K+i, p) = +1.
type HintStream struct {
	length int
	words  []uint64
}

// NewHintStream packs bits into a HintStream. The slice is copied; the
// caller's backing array is not retained.
func NewHintStream(bits []bool) *HintStream {
	h := &HintStream{length: len(bits), words: make([]uint64, (len(bits)+63)/64)}
	for i, v := range bits {
		if v {
			h.words[i/64] |= uint64(1) << uint(i%64)
		}
	}
	return h
}

// Len returns L.
func (h *HintStream) Len() int { return h.length }

// Get returns H[i]. i must be in [0, Len()); violating this is a
// programmer error and panics, the same way an out-of-range slice index
// does.
func (h *HintStream) Get(i int) bool {
	if i < 0 || i >= h.length {
		panic(fmt.Sprintf("legendre: HintStream.Get(%d) out of range [0,%d)", i, h.length))
	}
	return (h.words[i/64]>>uint(i%64))&1 == 1
}

// SliceReverse returns, for j = 0..count-1, H[L-1-fromEndExclusive-j]:
// the count bits ending fromEndExclusive positions before the end of the
// stream, read back to front. This is exactly the order the bitmap
// engine needs to build its per-symbol AND mask (see BitmapEngine).
func (h *HintStream) SliceReverse(fromEndExclusive, count int) []bool {
	out := make([]bool, count)
	for j := 0; j < count; j++ {
		out[j] = h.Get(h.length - 1 - fromEndExclusive - j)
	}
	return out
}

// Prng computes the Legendre PRG output of length bits starting at
// seed+key, matching legendre_prng.py's prng(key, seed, p, length):
// bit i is bit(key+seed+i, p).
func Prng(key, seed, p *big.Int, length int) (*HintStream, error) {
	oracle, err := NewOracle(p)
	if err != nil {
		return nil, err
	}
	base := new(big.Int).Add(key, seed)
	idx := new(big.Int)
	bits := make([]bool, length)
	for i := 0; i < length; i++ {
		idx.Add(base, big.NewInt(int64(i)))
		bits[i] = oracle.Bit(idx)
	}
	return NewHintStream(bits), nil
}

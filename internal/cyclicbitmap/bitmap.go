// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package cyclicbitmap implements a fixed-length bit vector with an O(1)
// logical rotation, used by the legendre package to track a sliding window
// of candidate keys without ever physically shifting the backing storage.
package cyclicbitmap

import (
	"fmt"
	"math/bits"
)

// OutOfBoundsError is returned when a logical index or slice falls outside
// [0, N) of the bitmap.
type OutOfBoundsError struct {
	Index, Length int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("cyclicbitmap: index %d out of bounds for length %d", e.Index, e.Length)
}

// InvalidShiftError is returned by Shift when asked to rotate by more than
// the bitmap's length.
type InvalidShiftError struct {
	Shift, Length int
}

func (e *InvalidShiftError) Error() string {
	return fmt.Sprintf("cyclicbitmap: shift %d exceeds length %d", e.Shift, e.Length)
}

// Bitmap is a fixed-length bit vector B of length N. Logical index i maps
// to physical index (head+i) mod N; Shift advances head instead of moving
// bits, making rotation O(1) regardless of N. This is the data structure
// the search engine's candidate window and symbol-reuse cache are built on
// (see legendre.SetEngine and legendre.BitmapEngine).
type Bitmap struct {
	length int
	head   int
	def    bool
	words  []uint64
}

// New returns a bitmap of the given length with every bit initialised to
// def. head starts at 0.
func New(length int, def bool) *Bitmap {
	if length < 0 {
		length = 0
	}
	nWords := (length + 63) / 64
	words := make([]uint64, nWords)
	if def {
		for i := range words {
			words[i] = ^uint64(0)
		}
	}
	return &Bitmap{length: length, def: def, words: words}
}

// Len returns N.
func (b *Bitmap) Len() int { return b.length }

// Default returns the fill value used by Shift and New for newly
// rotated-in bits.
func (b *Bitmap) Default() bool { return b.def }

func (b *Bitmap) physIndex(i int) int {
	return (b.head + i) % b.length
}

func (b *Bitmap) getPhys(phys int) bool {
	w, bit := phys/64, uint(phys%64)
	return (b.words[w]>>bit)&1 == 1
}

func (b *Bitmap) setPhys(phys int, v bool) {
	w, bit := phys/64, uint(phys%64)
	if v {
		b.words[w] |= uint64(1) << bit
	} else {
		b.words[w] &^= uint64(1) << bit
	}
}

// Get returns the bit at logical index i.
func (b *Bitmap) Get(i int) bool {
	return b.getPhys(b.physIndex(i))
}

// Set writes a single bit at logical index i.
func (b *Bitmap) Set(i int, v bool) error {
	if i < 0 || i >= b.length {
		return &OutOfBoundsError{Index: i, Length: b.length}
	}
	b.setPhys(b.physIndex(i), v)
	return nil
}

// SetSlice writes len(vals) bits starting at logical index a, splitting
// the write across the wraparound point when head+a+len(vals) exceeds the
// backing storage.
func (b *Bitmap) SetSlice(a int, vals []bool) error {
	if a < 0 || a+len(vals) > b.length {
		return &OutOfBoundsError{Index: a + len(vals), Length: b.length}
	}
	if len(vals) == 0 {
		return nil
	}
	target := b.physIndex(a)
	l := len(vals)
	if target+l <= b.length {
		for j := 0; j < l; j++ {
			b.setPhys(target+j, vals[j])
		}
		return nil
	}
	exceeding := target + l - b.length
	first := l - exceeding
	for j := 0; j < first; j++ {
		b.setPhys(target+j, vals[j])
	}
	for j := 0; j < exceeding; j++ {
		b.setPhys(j, vals[first+j])
	}
	return nil
}

// Shift logically drops the leading s bits, advances head by s, and fills
// the s bits rotated in from the rear with the bitmap's default. 0 <= s <=
// N; s > N is an InvalidShiftError.
func (b *Bitmap) Shift(s int) error {
	if s < 0 || s > b.length {
		return &InvalidShiftError{Shift: s, Length: b.length}
	}
	if b.length == 0 {
		return nil
	}
	fill := make([]bool, s)
	for i := range fill {
		fill[i] = b.def
	}
	if err := b.SetSlice(0, fill); err != nil {
		return err
	}
	b.head = (b.head + s) % b.length
	return nil
}

// AndSlice computes B[0..ln) &= mask[0..ln), handling the wraparound split
// the same way SetSlice does. len(mask) must be >= ln and ln <= N.
func (b *Bitmap) AndSlice(mask []bool, ln int) error {
	if ln > b.length || ln > len(mask) {
		return &OutOfBoundsError{Index: ln, Length: b.length}
	}
	if ln == 0 {
		return nil
	}
	target := b.head
	if target+ln <= b.length {
		for j := 0; j < ln; j++ {
			p := target + j
			b.setPhys(p, b.getPhys(p) && mask[j])
		}
		return nil
	}
	exceeding := target + ln - b.length
	first := ln - exceeding
	for j := 0; j < first; j++ {
		p := target + j
		b.setPhys(p, b.getPhys(p) && mask[j])
	}
	for j := 0; j < exceeding; j++ {
		b.setPhys(j, b.getPhys(j) && mask[first+j])
	}
	return nil
}

// scanRange returns the physical index of the first bit equal to v in the
// half-open physical range [lo, hi), word-at-a-time, or -1 if none exists.
func (b *Bitmap) scanRange(lo, hi int, v bool) int {
	if lo >= hi {
		return -1
	}
	wLo, wHi := lo/64, (hi-1)/64
	for w := wLo; w <= wHi; w++ {
		word := b.words[w]
		if !v {
			word = ^word
		}
		base := w * 64
		if w == wLo {
			word &= ^uint64(0) << uint(lo-base)
		}
		if w == wHi {
			if upper := hi - base; upper < 64 {
				word &= (uint64(1) << uint(upper)) - 1
			}
		}
		if word != 0 {
			return base + bits.TrailingZeros64(word)
		}
	}
	return -1
}

// First returns the smallest logical index i with Get(i) == v, or N if no
// such index exists. Scans the physical range after head and then the
// range before it, each word-at-a-time.
func (b *Bitmap) First(v bool) int {
	if b.length == 0 {
		return 0
	}
	if pos := b.scanRange(b.head, b.length, v); pos != -1 {
		return pos - b.head
	}
	if pos := b.scanRange(0, b.head, v); pos != -1 {
		return b.length - b.head + pos
	}
	return b.length
}

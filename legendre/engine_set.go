// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package legendre

import (
	"context"
	"math/big"
	"time"

	"github.com/mthoma/legendrecrack/internal/cyclicbitmap"
)

// SetEngine is the set-based search engine (v2): the candidate window
// is a Set<Int> of absolute key values, and a calc_syms CyclicBitmap
// tracks which offsets relative to the current anchor have already been
// queried from the oracle so a small advance of c doesn't re-derive
// symbols it already has.
type SetEngine struct {
	opts engineOpts
}

// NewSetEngine constructs a SetEngine.
func NewSetEngine(opts ...EngineOption) *SetEngine {
	o := defaultEngineOpts()
	for _, fn := range opts {
		fn(&o)
	}
	return &SetEngine{opts: o}
}

var bigOne = big.NewInt(1)

// Search implements the outer-step algorithm in full: advance to the
// smallest live candidate, pre-seed the window one block length ahead,
// shift the reuse cache, then test confidenceBits symbols against every
// surviving candidate before accepting the anchor.
func (e *SetEngine) Search(ctx context.Context, p *big.Int, hint *HintStream, k0 *big.Int, confidenceBits int) (Result, error) {
	oracle, err := NewOracle(p)
	if err != nil {
		return Result{}, err
	}
	l := hint.Len()
	bigL := big.NewInt(int64(l))

	c := big.NewInt(0)
	if k0 != nil {
		c.Set(k0)
	}

	candidates := newBigIntSet()
	for i := 0; i < l; i++ {
		candidates.Add(new(big.Int).Add(c, big.NewInt(int64(i))))
	}
	calcSyms := cyclicbitmap.New(l, false)

	var symbolsComputed, symbolsReused int
	start := time.Now()
	lastProgress := start

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		prev := new(big.Int).Set(c)
		if candidates.Len() == 0 {
			c = new(big.Int).Add(prev, bigL)
		} else {
			c = candidates.Min()
		}

		lo := new(big.Int).Add(prev, bigL)
		hi := new(big.Int).Add(c, bigL)
		for v := new(big.Int).Set(lo); v.Cmp(hi) < 0; v.Add(v, bigOne) {
			candidates.Add(new(big.Int).Set(v))
		}

		delta := new(big.Int).Sub(c, prev)
		if err := calcSyms.Shift(int(delta.Int64())); err != nil {
			return Result{}, err
		}

		eliminated := false
		for i := 0; i < confidenceBits; i++ {
			relPos := l - i - 1
			if calcSyms.Get(relPos) {
				symbolsReused++
				continue
			}
			calcSyms.Set(relPos, true)

			idx := new(big.Int).Add(c, big.NewInt(int64(l-i)))
			s := oracle.Bit(idx)
			symbolsComputed++

			// rel grows monotonically with k under ascending iteration, so
			// breaking once rel exceeds l is equivalent to a per-candidate
			// rel<=l guard that never breaks early.
			rel := new(big.Int)
			for _, k := range candidates.SortedSlice() {
				rel.Sub(k, c)
				rel.Add(rel, big.NewInt(int64(i)))
				if rel.Sign() == 0 {
					continue
				}
				if rel.Cmp(bigL) > 0 {
					break
				}
				relInt := int(rel.Int64())
				if s != hint.Get(l-relInt) {
					candidates.Delete(k)
				}
			}

			if !candidates.Contains(c) {
				eliminated = true
				break
			}
		}

		if !eliminated && candidates.Contains(c) {
			return Result{
				Key:             c,
				SymbolsComputed: symbolsComputed,
				SymbolsReused:   symbolsReused,
				Duration:        time.Since(start),
			}, nil
		}

		now := time.Now()
		e.opts.maybeReportProgress(c, start, now, &lastProgress)
	}
}

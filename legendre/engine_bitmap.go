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

// BitmapEngine is the bitmap-based search engine (v3): the candidate
// window is itself a CyclicBitmap of length L, bit j meaning "c+j is
// still live". Symbol reuse is absorbed implicitly by the rotation
// discipline (freshly rotated-in bits default to true) rather than by a
// separate reuse cache.
type BitmapEngine struct {
	opts engineOpts
}

// NewBitmapEngine constructs a BitmapEngine.
func NewBitmapEngine(opts ...EngineOption) *BitmapEngine {
	o := defaultEngineOpts()
	for _, fn := range opts {
		fn(&o)
	}
	return &BitmapEngine{opts: o}
}

// Search implements the outer-step algorithm: rotate to the first live
// candidate, then AND successive per-symbol masks into the window until
// either bit 0 dies (the anchor is wrong, advance) or confidenceBits
// symbols survive (the anchor is the key).
func (e *BitmapEngine) Search(ctx context.Context, p *big.Int, hint *HintStream, k0 *big.Int, confidenceBits int) (Result, error) {
	oracle, err := NewOracle(p)
	if err != nil {
		return Result{}, err
	}
	l := hint.Len()

	c := big.NewInt(0)
	if k0 != nil {
		c.Set(k0)
	}
	candidates := cyclicbitmap.New(l, true)

	var symbolsComputed int
	start := time.Now()
	lastProgress := start

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		off := candidates.First(true)
		c = new(big.Int).Add(c, big.NewInt(int64(off)))
		if err := candidates.Shift(off); err != nil {
			return Result{}, err
		}

		for i := 0; i < confidenceBits; i++ {
			o := l - i - 1
			symIdx := new(big.Int).Add(c, big.NewInt(int64(o)))
			s := oracle.Bit(symIdx)
			symbolsComputed++

			maskLen := l - i
			rev := hint.SliceReverse(i, maskLen)
			mask := make([]bool, maskLen)
			for j, bit := range rev {
				if s {
					mask[j] = bit
				} else {
					mask[j] = !bit
				}
			}
			if err := candidates.AndSlice(mask, maskLen); err != nil {
				return Result{}, err
			}
			if !candidates.Get(0) {
				break
			}
		}

		if candidates.Get(0) {
			return Result{
				Key:             c,
				SymbolsComputed: symbolsComputed,
				Duration:        time.Since(start),
			}, nil
		}

		now := time.Now()
		e.opts.maybeReportProgress(c, start, now, &lastProgress)
	}
}

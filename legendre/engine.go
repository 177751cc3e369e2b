// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package legendre

import (
	"context"
	"math/big"
	"time"
)

// Result is what a SearchEngine returns on success: the recovered key
// plus diagnostic counters that need not be reproducible across engine
// variants or implementations (see the concurrency notes this is
// grounded on).
type Result struct {
	Key             *big.Int
	SymbolsComputed int
	SymbolsReused   int
	Duration        time.Duration
}

// ProgressFunc is invoked periodically (by default every 20s of wall
// time, mirroring the source's log cadence) with the current anchor and
// elapsed search duration. A nil ProgressFunc disables progress
// reporting entirely.
type ProgressFunc func(anchor *big.Int, elapsed time.Duration)

// Engine is the shared contract both the set-based and bitmap-based
// search engines implement. They must agree on every recovered key for
// identical inputs.
type Engine interface {
	// Search returns the unique key K such that prng(K,0,p,L) agrees
	// with hint, starting the search at k0 (0 if nil). confidenceBits
	// consecutive surviving symbol checks are required before a
	// candidate is accepted.
	Search(ctx context.Context, p *big.Int, hint *HintStream, k0 *big.Int, confidenceBits int) (Result, error)
}

type engineOpts struct {
	progress         ProgressFunc
	progressInterval time.Duration
}

func defaultEngineOpts() engineOpts {
	return engineOpts{progressInterval: 20 * time.Second}
}

// EngineOption configures a SetEngine or BitmapEngine at construction
// time, following the functional-options pattern used throughout this
// codebase (see DecompressorOption in the teacher this was adapted
// from).
type EngineOption func(*engineOpts)

// WithProgress installs a callback invoked roughly every interval of
// wall time while the engine searches.
func WithProgress(fn ProgressFunc) EngineOption {
	return func(o *engineOpts) { o.progress = fn }
}

// WithProgressInterval overrides the default 20s progress cadence.
func WithProgressInterval(d time.Duration) EngineOption {
	return func(o *engineOpts) { o.progressInterval = d }
}

func (o *engineOpts) maybeReportProgress(anchor *big.Int, start, now time.Time, last *time.Time) {
	if o.progress == nil {
		return
	}
	if now.Sub(*last) < o.progressInterval {
		return
	}
	o.progress(anchor, now.Sub(start))
	*last = now
}

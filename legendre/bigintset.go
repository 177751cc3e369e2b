// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package legendre

import (
	"math/big"
	"sort"
)

// bigIntSet is an unordered set of arbitrary-precision integers with
// ascending-snapshot iteration, used by SetEngine for its candidate
// window. It exists to give the set variant an ordered container that
// supports safe in-iteration removal via the snapshot-then-mutate
// discipline called for in the source this is grounded on (see
// SetEngine.Search).
type bigIntSet struct {
	m map[string]*big.Int
}

func newBigIntSet() *bigIntSet {
	return &bigIntSet{m: make(map[string]*big.Int)}
}

func (s *bigIntSet) Add(v *big.Int) {
	s.m[v.String()] = v
}

func (s *bigIntSet) Delete(v *big.Int) {
	delete(s.m, v.String())
}

func (s *bigIntSet) Contains(v *big.Int) bool {
	_, ok := s.m[v.String()]
	return ok
}

func (s *bigIntSet) Len() int {
	return len(s.m)
}

// Min returns the smallest element, or nil if the set is empty.
func (s *bigIntSet) Min() *big.Int {
	var min *big.Int
	for _, v := range s.m {
		if min == nil || v.Cmp(min) < 0 {
			min = v
		}
	}
	return min
}

// SortedSlice returns a stable ascending snapshot of the set's current
// members, safe to range over while the set itself is mutated.
func (s *bigIntSet) SortedSlice() []*big.Int {
	out := make([]*big.Int, 0, len(s.m))
	for _, v := range s.m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}

// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package datagen produces the input keys for a sort and checks results.
//
// Keys are uniform in [0, Max). Generation is split into fixed-size blocks,
// each drawing from its own PCG stream seeded by (Seed, block), so the
// output depends only on n and Seed and never on the number of workers.
package datagen

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-oddeven/oddeven/contrib/workerpool"
)

// DefaultMax is the default exclusive upper bound of generated keys.
const DefaultMax = 1000

const blockSize = 1 << 12

// histogramLimit is the largest Max for which SameKeys compares
// histograms. Counts keeps one histogram per worker range, so larger key
// ranges are compared by sorting copies instead.
const histogramLimit = 1 << 16

// Options configures Generate, Counts and SameKeys.
type Options struct {
	// Max is the exclusive upper bound of keys. Zero means DefaultMax.
	Max int

	// Seed selects the random streams.
	Seed uint64

	// Pool runs the work. Nil runs it on the caller's goroutine.
	Pool *workerpool.Pool
}

func (o Options) limit() int {
	if o.Max <= 0 {
		return DefaultMax
	}
	return o.Max
}

// Generate returns n random keys in [0, Max).
func Generate(n int, opts Options) []int {
	if n <= 0 {
		return []int{}
	}

	keys := make([]int, n)
	limit := opts.limit()
	blocks := (n + blockSize - 1) / blockSize

	fill := func(block int) {
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(block)))
		start := block * blockSize
		for i := start; i < min(start+blockSize, n); i++ {
			keys[i] = rng.IntN(limit)
		}
	}

	if opts.Pool == nil {
		for b := range blocks {
			fill(b)
		}
		return keys
	}
	opts.Pool.ParallelForAtomic(blocks, fill)
	return keys
}

// Counts returns how often each key in [0, Max) occurs in keys. Two
// sequences hold the same multiset of keys iff their counts are equal.
func Counts(keys []int, opts Options) ([]int, error) {
	limit := opts.limit()
	counts := make([]int, limit)

	var (
		mu       sync.Mutex
		firstErr error
	)
	tally := func(start, end int) {
		local := make([]int, limit)
		for _, k := range keys[start:end] {
			if k < 0 || k >= limit {
				mu.Lock()
				if firstErr == nil {
					firstErr = errors.Errorf("datagen: key %d outside [0, %d)", k, limit)
				}
				mu.Unlock()
				return
			}
			local[k]++
		}
		mu.Lock()
		for k, c := range local {
			counts[k] += c
		}
		mu.Unlock()
	}

	if opts.Pool == nil {
		tally(0, len(keys))
	} else {
		opts.Pool.ParallelFor(len(keys), tally)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return counts, nil
}

// SameKeys reports whether a and b hold the same multiset of keys, all in
// [0, Max). Small key ranges are compared with Counts; large ones by
// sorting copies, so memory stays proportional to len(a).
func SameKeys(a, b []int, opts Options) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	limit := opts.limit()
	if limit <= histogramLimit {
		want, err := Counts(a, opts)
		if err != nil {
			return false, err
		}
		got, err := Counts(b, opts)
		if err != nil {
			return false, err
		}
		return slices.Equal(want, got), nil
	}

	for _, keys := range [][]int{a, b} {
		for _, k := range keys {
			if k < 0 || k >= limit {
				return false, errors.Errorf("datagen: key %d outside [0, %d)", k, limit)
			}
		}
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y), nil
}

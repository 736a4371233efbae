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

package oddeven

import (
	"github.com/samber/lo"
)

// ValidateSize checks that n keys can be split evenly across p ranks.
func ValidateSize(n, p int) error {
	switch {
	case p <= 0:
		return &ConfigError{N: n, Workers: p, Reason: "worker count must be positive"}
	case n < 0:
		return &ConfigError{N: n, Workers: p, Reason: "size must not be negative"}
	case n%p != 0:
		return &ConfigError{N: n, Workers: p, Reason: "size is not evenly divisible by worker count"}
	}
	return nil
}

// ChunkSize returns the number of keys each of p ranks owns.
func ChunkSize(n, p int) int {
	if p <= 0 {
		return 0
	}
	return n / p
}

// Split cuts global into p contiguous chunks of equal length, in rank order.
// The chunks do not share memory with global.
func Split[K any](global []K, p int) ([][]K, error) {
	if err := ValidateSize(len(global), p); err != nil {
		return nil, err
	}

	size := ChunkSize(len(global), p)
	if size == 0 {
		// lo.Chunk rejects a zero size; an empty input still yields p chunks.
		return lo.Times(p, func(int) []K { return []K{} }), nil
	}

	chunks := lo.Chunk(global, size)
	for i, chunk := range chunks {
		chunks[i] = append([]K(nil), chunk...)
	}
	return chunks, nil
}

// Join concatenates chunks in ascending rank order. It is the inverse of
// Split.
func Join[K any](chunks [][]K) []K {
	return lo.Flatten(chunks)
}

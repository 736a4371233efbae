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

// Package oddeven sorts a sequence by parallel odd-even transposition across
// a fixed number of cooperating ranks that share no memory.
//
// # Algorithm
//
// The root rank splits the input into P equal chunks and scatters one to
// every rank. Each rank sorts its chunk locally, then P rounds follow. In
// even rounds ranks (0,1), (2,3), ... pair up; in odd rounds (1,2), (3,4),
// ... do. Paired ranks swap their whole chunks, merge the two sorted runs
// and keep one half each: the lower rank keeps the smaller half, the higher
// rank the larger one. After P rounds the chunks, concatenated by rank, are
// globally sorted and the root gathers them back.
//
// Keys are any constraints.Ordered type but must be totally ordered, so
// float keys must not contain NaN.
//
// # Components
//
//   - Split / Join: partitioning and its inverse
//   - SortInPlace: the local comparison sort (introsort)
//   - Assign: the pure (rank, round, P) -> role/partner schedule
//   - Exchanger: the exchange-merge-split step
//   - Run: the per-rank coordinator driving all of the above
//
// # Example Usage
//
//	data := []int{7, 4, 8, 1, 6, 2, 5, 3}
//	if err := oddeven.Sort(ctx, data, 4); err != nil {
//	    return err
//	}
//
// Run can be driven by any transport.Comm implementation; Sort uses the
// in-process world from package inproc.
package oddeven

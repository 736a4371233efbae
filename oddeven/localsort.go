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

import "golang.org/x/exp/constraints"

// Thresholds for the local sort strategies.
const (
	// insertionThreshold: use insertion sort for chunks this size or smaller.
	insertionThreshold = 24

	// sampleThreshold: pick the pivot from five samples above this size,
	// median-of-3 below it.
	sampleThreshold = 8
)

// SortInPlace sorts a chunk in ascending order. It is an introsort:
//   - Insertion sort for small ranges
//   - Quicksort with a sampled-median pivot and 3-way partitioning
//   - Heapsort fallback once recursion passes 2*log2(n), for an
//     O(n log n) worst case
//
// The sort is deterministic but not stable. Keys must be totally ordered:
// floating-point NaN is not supported and leaves the chunk unsorted.
func SortInPlace[K constraints.Ordered](chunk []K) {
	n := len(chunk)
	if n <= 1 {
		return
	}

	// Calculate max recursion depth: 2 * floor(log2(n))
	maxDepth := 0
	for tmp := n; tmp > 0; tmp >>= 1 {
		maxDepth++
	}
	maxDepth *= 2

	introSort(chunk, maxDepth)
}

// IsSorted reports whether chunk is in ascending order.
func IsSorted[K constraints.Ordered](chunk []K) bool {
	for i := 1; i < len(chunk); i++ {
		if chunk[i] < chunk[i-1] {
			return false
		}
	}
	return true
}

func introSort[K constraints.Ordered](data []K, depthLimit int) {
	for {
		n := len(data)
		if n <= insertionThreshold {
			insertionSort(data)
			return
		}
		if depthLimit == 0 {
			heapSort(data)
			return
		}
		depthLimit--

		lt, gt := partition3Way(data, pivotSampled(data))

		// Recurse into the smaller side, loop on the larger one.
		if lt < n-gt {
			introSort(data[:lt], depthLimit)
			data = data[gt:]
		} else {
			introSort(data[gt:], depthLimit)
			data = data[:lt]
		}
	}
}

func insertionSort[K constraints.Ordered](data []K) {
	for i := 1; i < len(data); i++ {
		key := data[i]
		j := i - 1
		for j >= 0 && data[j] > key {
			data[j+1] = data[j]
			j--
		}
		data[j+1] = key
	}
}

// pivotMedianOf3 returns the median of the first, middle and last keys.
func pivotMedianOf3[K constraints.Ordered](data []K) K {
	n := len(data)
	if n <= 2 {
		return data[0]
	}

	a, b, c := data[0], data[n/2], data[n-1]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
		if a > b {
			b = a
		}
	}
	return b
}

// pivotSampled returns the median of five evenly spaced samples.
func pivotSampled[K constraints.Ordered](data []K) K {
	n := len(data)
	if n <= sampleThreshold {
		return pivotMedianOf3(data)
	}

	samples := [5]K{data[0], data[n/4], data[n/2], data[3*n/4], data[n-1]}
	insertionSort(samples[:])
	return samples[2]
}

// partition3Way rearranges data around pivot (Dutch National Flag) and
// returns (lt, gt) such that:
//   - data[0:lt] < pivot
//   - data[lt:gt] == pivot
//   - data[gt:n] > pivot
func partition3Way[K constraints.Ordered](data []K, pivot K) (int, int) {
	lt, i, gt := 0, 0, len(data)
	for i < gt {
		switch {
		case data[i] < pivot:
			data[lt], data[i] = data[i], data[lt]
			lt++
			i++
		case data[i] > pivot:
			gt--
			data[i], data[gt] = data[gt], data[i]
		default:
			i++
		}
	}
	return lt, gt
}

func heapSort[K constraints.Ordered](data []K) {
	n := len(data)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(data, i, n)
	}
	for i := n - 1; i > 0; i-- {
		data[0], data[i] = data[i], data[0]
		siftDown(data, 0, i)
	}
}

func siftDown[K constraints.Ordered](data []K, i, n int) {
	for {
		largest := i
		left, right := 2*i+1, 2*i+2
		if left < n && data[left] > data[largest] {
			largest = left
		}
		if right < n && data[right] > data[largest] {
			largest = right
		}
		if largest == i {
			return
		}
		data[i], data[largest] = data[largest], data[i]
		i = largest
	}
}

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

// Package transport defines the message-passing contract the odd-even sort
// runs on top of. A Comm is one rank's endpoint into a fixed-size world of
// ranks that share no memory and talk only through reliable, ordered
// point-to-point messages plus scatter and gather collectives.
package transport

import (
	"context"
	"time"
)

// Comm is a single rank's view of the world. Implementations must deliver
// messages between any two ranks in FIFO order.
type Comm[K any] interface {
	// Rank returns this endpoint's rank in [0, Size()).
	Rank() int

	// Size returns the number of ranks in the world.
	Size() int

	// ProcessorName identifies the host this rank runs on.
	ProcessorName() string

	// SendRecv sends send to peer and receives exactly len(recv) keys from
	// peer into recv. It returns only after both halves have completed, so
	// two ranks calling SendRecv on each other never deadlock.
	SendRecv(ctx context.Context, peer, tag int, send, recv []K) error

	// Scatter distributes chunks[r] from root to every rank r and returns
	// the caller's own chunk. chunks is only read on root.
	Scatter(ctx context.Context, root int, chunks [][]K) ([]K, error)

	// Gather collects every rank's local chunk at root, indexed by rank.
	// Non-root ranks receive nil.
	Gather(ctx context.Context, root int, local []K) ([][]K, error)

	// Wtime returns the wall time elapsed since an epoch shared by all
	// ranks of the world.
	Wtime() time.Duration
}

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

// Package inproc bootstraps a world of ranks inside a single process. Each
// rank runs on its own goroutine and owns its data exclusively; ranks talk
// through one buffered channel per ordered pair, and every payload is copied
// on send so no backing array is ever shared between ranks.
package inproc

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-oddeven/oddeven/transport"
)

// Reserved tags for collectives. Point-to-point tags must be >= 0.
const (
	tagScatter = -1 - iota
	tagGather
)

// DefaultBuffer is the capacity of each rank-to-rank link.
const DefaultBuffer = 1

type options struct {
	buffer        int
	processorName string
}

// Option configures a World.
type Option func(*options)

// WithBuffer sets the capacity of each rank-to-rank link. Values below 1
// are raised to 1: a symmetric exchange needs at least one slot per
// direction.
func WithBuffer(n int) Option {
	return func(o *options) {
		o.buffer = max(n, 1)
	}
}

// WithProcessorName overrides the host name reported by every rank.
func WithProcessorName(name string) Option {
	return func(o *options) {
		o.processorName = name
	}
}

type envelope[K any] struct {
	tag     int
	payload []K
}

// World is a fixed set of ranks [0, Size()) created before a sort starts.
// A World is meant to carry a single Run; messages left over from an
// aborted run are not drained.
type World[K any] struct {
	size  int
	name  string
	epoch time.Time

	// links[src][dst] carries messages from src to dst in FIFO order.
	links [][]chan envelope[K]
	comms []*Comm[K]
}

// NewWorld creates a world of size ranks.
func NewWorld[K any](size int, opts ...Option) (*World[K], error) {
	if size <= 0 {
		return nil, errors.Errorf("inproc: world size must be positive, got %d", size)
	}

	o := options{buffer: DefaultBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.processorName == "" {
		o.processorName = hostname()
	}

	w := &World[K]{
		size:  size,
		name:  o.processorName,
		epoch: time.Now(),
		links: make([][]chan envelope[K], size),
		comms: make([]*Comm[K], size),
	}
	for src := range size {
		w.links[src] = make([]chan envelope[K], size)
		for dst := range size {
			w.links[src][dst] = make(chan envelope[K], o.buffer)
		}
		w.comms[src] = &Comm[K]{w: w, rank: src}
	}
	return w, nil
}

// Size returns the number of ranks.
func (w *World[K]) Size() int {
	return w.size
}

// Comm returns the endpoint of rank, or nil if rank is out of range.
func (w *World[K]) Comm(rank int) *Comm[K] {
	if rank < 0 || rank >= w.size {
		return nil
	}
	return w.comms[rank]
}

// Run calls fn concurrently for every rank and waits for all of them.
// The first rank to fail cancels the context handed to the others, so a
// single crash aborts the whole world. Run returns that first error.
func (w *World[K]) Run(ctx context.Context, fn func(ctx context.Context, c transport.Comm[K]) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range w.comms {
		g.Go(func() error {
			return fn(gctx, c)
		})
	}
	return g.Wait()
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}

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
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/ajroetker/go-oddeven/oddeven/transport"
)

// State is a coordinator's position in the sort.
type State uint8

const (
	StateIdle State = iota
	StateDistributing
	StateLocallySorting
	StateExchanging
	StateCollecting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDistributing:
		return "distributing"
	case StateLocallySorting:
		return "locally-sorting"
	case StateExchanging:
		return "exchanging"
	case StateCollecting:
		return "collecting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is reported to an Observer when a rank enters a state and after
// every completed round. Round is -1 outside StateExchanging. Chunk is a
// copy of the rank's keys at that point, nil before distribution.
type Event[K any] struct {
	Rank  int
	State State
	Round int
	Chunk []K
}

// Options configures Run. All ranks must agree on N and Root.
type Options[K any] struct {
	// N is the total number of keys being sorted.
	N int

	// Root is the rank that holds the input and collects the result.
	Root int

	// Start, if positive, is the c.Wtime() reading at which the caller
	// began timing, so work done before Run (such as generating the
	// input) counts towards Result.Elapsed. Zero starts the clock at
	// distribution.
	Start time.Duration

	// Logger receives progress records. Nil disables logging.
	Logger *zap.Logger

	// Observer, if set, is called synchronously from the rank's goroutine.
	// Calls from different ranks may run concurrently.
	Observer func(Event[K])
}

// Result is what a rank holds once Run returns.
type Result[K any] struct {
	Rank int

	// Local is the rank's final, globally positioned chunk.
	Local []K

	// Sorted is the fully sorted sequence. Only set on the root.
	Sorted []K

	// Elapsed is the wall time from Options.Start (or distribution) to
	// collection as seen by this rank. The root's value is the one reported
	// for the sort.
	Elapsed time.Duration

	Rounds int
}

// Run executes the odd-even transposition sort for the rank behind c. Every
// rank of the world must call Run with the same options; global is only
// read on opts.Root.
//
// Any error is fatal for the whole sort: a ConfigError is detected before
// distribution, and a TransportError aborts the rank mid-sort. Other ranks
// blocked on the failed rank only return once ctx is cancelled.
func Run[K constraints.Ordered](ctx context.Context, c transport.Comm[K], global []K, opts Options[K]) (*Result[K], error) {
	rank, p := c.Rank(), c.Size()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.Int("rank", rank), zap.String("host", c.ProcessorName()))
	logger.Info("process started")

	co := &coordinator[K]{rank: rank, logger: logger, observer: opts.Observer}
	co.enter(StateIdle, nil)

	if opts.Root < 0 || opts.Root >= p {
		return nil, &ConfigError{N: opts.N, Workers: p, Reason: "root rank out of range"}
	}
	isRoot := rank == opts.Root
	if isRoot {
		logger.Info("sort started", zap.Int("size", opts.N), zap.Int("workers", p))
	}
	if err := ValidateSize(opts.N, p); err != nil {
		return nil, err
	}

	start := opts.Start
	if start <= 0 {
		start = c.Wtime()
	}

	co.enter(StateDistributing, nil)
	var chunks [][]K
	if isRoot {
		if len(global) != opts.N {
			return nil, &ConfigError{N: opts.N, Workers: p, Reason: "input length does not match size"}
		}
		var err error
		if chunks, err = Split(global, p); err != nil {
			return nil, err
		}
	}
	local, err := c.Scatter(ctx, opts.Root, chunks)
	if err != nil {
		return nil, errors.Wrap(err, "distribute")
	}
	if want := ChunkSize(opts.N, p); len(local) != want {
		return nil, &transport.TransportError{
			Op: "scatter", Rank: rank, Peer: opts.Root,
			Err: errors.Wrapf(transport.ErrSizeMismatch, "received %d keys, want %d", len(local), want),
		}
	}

	co.enter(StateLocallySorting, local)
	SortInPlace(local)

	x := NewExchanger[K](len(local))
	rounds := Rounds(p)
	for round := range rounds {
		a := Assign(rank, round, p)
		logger.Debug("round",
			zap.Int("round", round),
			zap.Stringer("role", a.Role),
			zap.Int("partner", a.Partner))
		if err := x.Exchange(ctx, c, local, a, round); err != nil {
			return nil, err
		}
		co.emit(StateExchanging, round, local)
	}

	co.enter(StateCollecting, local)
	gathered, err := c.Gather(ctx, opts.Root, local)
	if err != nil {
		return nil, errors.Wrap(err, "collect")
	}

	res := &Result[K]{
		Rank:    rank,
		Local:   local,
		Elapsed: c.Wtime() - start,
		Rounds:  rounds,
	}
	if isRoot {
		res.Sorted = Join(gathered)
		logger.Info("sort finished", zap.Duration("time", res.Elapsed))
	}
	co.enter(StateDone, local)
	return res, nil
}

type coordinator[K any] struct {
	rank     int
	logger   *zap.Logger
	observer func(Event[K])
}

func (co *coordinator[K]) enter(s State, chunk []K) {
	co.logger.Debug("state", zap.Stringer("state", s))
	co.emit(s, -1, chunk)
}

func (co *coordinator[K]) emit(s State, round int, chunk []K) {
	if co.observer == nil {
		return
	}
	co.observer(Event[K]{Rank: co.rank, State: s, Round: round, Chunk: slices.Clone(chunk)})
}

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

	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/ajroetker/go-oddeven/oddeven/transport"
	"github.com/ajroetker/go-oddeven/oddeven/transport/inproc"
)

type sortOptions struct {
	logger *zap.Logger
	world  []inproc.Option
}

// SortOption configures Sort.
type SortOption func(*sortOptions)

// WithLogger sets the logger handed to every rank.
func WithLogger(logger *zap.Logger) SortOption {
	return func(o *sortOptions) {
		o.logger = logger
	}
}

// WithWorldOptions passes options through to the in-process world.
func WithWorldOptions(opts ...inproc.Option) SortOption {
	return func(o *sortOptions) {
		o.world = append(o.world, opts...)
	}
}

// Sort sorts data in place across p in-process ranks. len(data) must be a
// multiple of p. As with SortInPlace, NaN keys are not supported.
func Sort[K constraints.Ordered](ctx context.Context, data []K, p int, opts ...SortOption) error {
	if err := ValidateSize(len(data), p); err != nil {
		return err
	}

	var o sortOptions
	for _, opt := range opts {
		opt(&o)
	}

	world, err := inproc.NewWorld[K](p, o.world...)
	if err != nil {
		return err
	}

	const root = 0
	var sorted []K
	err = world.Run(ctx, func(ctx context.Context, c transport.Comm[K]) error {
		res, err := Run(ctx, c, data, Options[K]{N: len(data), Root: root, Logger: o.logger})
		if err != nil {
			return err
		}
		if c.Rank() == root {
			sorted = res.Sorted
		}
		return nil
	})
	if err != nil {
		return err
	}

	copy(data, sorted)
	return nil
}

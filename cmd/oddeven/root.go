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

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajroetker/go-oddeven/internal/config"
	"github.com/ajroetker/go-oddeven/internal/logging"
	"github.com/ajroetker/go-oddeven/oddeven"
	"github.com/ajroetker/go-oddeven/oddeven/contrib/datagen"
	"github.com/ajroetker/go-oddeven/oddeven/contrib/workerpool"
	"github.com/ajroetker/go-oddeven/oddeven/transport"
	"github.com/ajroetker/go-oddeven/oddeven/transport/inproc"
)

type rootFlags struct {
	configPath string
	workers    int
	seed       uint64
	maxKey     int
	print      bool
	verify     bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "oddeven [N]",
		Short: "Parallel odd-even transposition sort of N random keys",
		Long: `Generates N random keys on the root rank, scatters them across P ranks,
sorts each chunk locally and runs P rounds of pairwise exchange-merge-split
before gathering the globally sorted sequence back on the root.

N defaults to 100 and must be a multiple of the worker count.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging, f.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runSort(cmd.Context(), cmd.OutOrStdout(), cfg, f, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	flags.IntVarP(&f.workers, "workers", "p", 0, "number of ranks P (0 = largest divisor of N up to GOMAXPROCS)")
	flags.Uint64Var(&f.seed, "seed", 0, "random seed for the input (0 = from the clock)")
	flags.IntVar(&f.maxKey, "max", datagen.DefaultMax, "exclusive upper bound of generated keys")
	flags.BoolVar(&f.print, "print", false, "print the sorted keys")
	flags.BoolVar(&f.verify, "verify", false, "check the result is a sorted permutation of the input")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// resolveConfig layers defaults, the config file, the environment, flags
// and the positional N, in that order.
func resolveConfig(cmd *cobra.Command, f *rootFlags, args []string) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Sort.Workers = f.workers
	}
	if flags.Changed("seed") {
		cfg.Data.Seed = f.seed
	}
	if flags.Changed("max") {
		cfg.Data.Max = f.maxKey
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid size %q", args[0])
		}
		cfg.Sort.Size = n
	}
	cfg.ResolveWorkers()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func runSort(ctx context.Context, out io.Writer, cfg *config.Config, f *rootFlags, logger *zap.Logger) error {
	seed := cfg.Data.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Debug("configuration",
		zap.Int("size", cfg.Sort.Size),
		zap.Int("workers", cfg.Sort.Workers),
		zap.Uint64("seed", seed))

	pool := workerpool.New(0)
	defer pool.Close()
	genOpts := datagen.Options{Max: cfg.Data.Max, Seed: seed, Pool: pool}

	world, err := inproc.NewWorld[int](cfg.Sort.Workers, inproc.WithBuffer(cfg.Sort.Buffer))
	if err != nil {
		return err
	}

	root := cfg.Sort.Root
	var input, sorted []int
	err = world.Run(ctx, func(ctx context.Context, c transport.Comm[int]) error {
		// Timing includes input generation on the root.
		start := c.Wtime()
		var global []int
		if c.Rank() == root {
			global = datagen.Generate(cfg.Sort.Size, genOpts)
			input = global
		}
		res, err := oddeven.Run(ctx, c, global, oddeven.Options[int]{
			N:      cfg.Sort.Size,
			Root:   root,
			Start:  start,
			Logger: logger,
		})
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

	if f.verify {
		if err := verify(input, sorted, genOpts); err != nil {
			return err
		}
		logger.Info("result verified", zap.Int("size", len(sorted)))
	}
	if f.print {
		if _, err := fmt.Fprintln(out, formatKeys(sorted)); err != nil {
			return errors.Wrap(err, "failed to print result")
		}
	}
	return nil
}

func verify(input, sorted []int, opts datagen.Options) error {
	if !oddeven.IsSorted(sorted) {
		return errors.New("verify: result is not sorted")
	}
	same, err := datagen.SameKeys(input, sorted, opts)
	if err != nil {
		return errors.Wrap(err, "verify")
	}
	if !same {
		return errors.New("verify: result is not a permutation of the input")
	}
	return nil
}

func formatKeys(keys []int) string {
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(k))
	}
	return sb.String()
}

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

// Command oddeven sorts N random keys with a parallel odd-even transposition
// sort over P in-process ranks.
//
// Usage:
//
//	oddeven [N] [flags]
//	oddeven 100000 -p 8 --verify
//	oddeven 16 -p 4 --seed 42 --print
//
// N defaults to 100. P comes from --workers (or the config file), never
// from N, and must divide N evenly. Every rank logs its rank and host at
// start; the root additionally logs N and the elapsed sort time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-oddeven/oddeven"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cfgErr *oddeven.ConfigError
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

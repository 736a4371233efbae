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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-oddeven/internal/config"
	"github.com/ajroetker/go-oddeven/oddeven"
	"github.com/ajroetker/go-oddeven/oddeven/contrib/datagen"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func parseKeys(t *testing.T, line string) []int {
	t.Helper()
	var keys []int
	for _, field := range strings.Fields(line) {
		k, err := strconv.Atoi(field)
		require.NoError(t, err)
		keys = append(keys, k)
	}
	return keys
}

func TestRootPrintsSortedKeys(t *testing.T) {
	out, err := execute(t, "16", "-p", "4", "--seed", "42", "--max", "50", "--print", "--verify")
	require.NoError(t, err)

	keys := parseKeys(t, out)
	require.Len(t, keys, 16)
	assert.True(t, oddeven.IsSorted(keys), "output not sorted: %v", keys)
	for _, k := range keys {
		assert.Less(t, k, 50)
	}
}

func TestRootSameSeedSameOutput(t *testing.T) {
	a, err := execute(t, "24", "-p", "3", "--seed", "7", "--print")
	require.NoError(t, err)
	b, err := execute(t, "24", "-p", "6", "--seed", "7", "--print")
	require.NoError(t, err)
	assert.Equal(t, a, b, "the sorted result must not depend on the worker count")
}

func TestRootDefaultSize(t *testing.T) {
	out, err := execute(t, "-p", "4", "--print")
	require.NoError(t, err)
	assert.Len(t, parseKeys(t, out), 100)
}

func TestRootNoArguments(t *testing.T) {
	for _, procs := range []int{3, 6, 8, 12, 16} {
		t.Run(fmt.Sprintf("procs=%d", procs), func(t *testing.T) {
			prev := runtime.GOMAXPROCS(procs)
			defer runtime.GOMAXPROCS(prev)

			out, err := execute(t, "--print")
			require.NoError(t, err)
			keys := parseKeys(t, out)
			assert.Len(t, keys, 100)
			assert.True(t, oddeven.IsSorted(keys))
		})
	}
}

func TestRootWorkersFromEnvAreExplicit(t *testing.T) {
	t.Setenv("ODDEVEN_WORKERS", "3")
	_, err := execute(t)
	var cfgErr *oddeven.ConfigError
	require.True(t, errors.As(err, &cfgErr), "want *oddeven.ConfigError, got %v", err)
	assert.Equal(t, 3, cfgErr.Workers)
}

func TestRootUnevenSizeIsConfigError(t *testing.T) {
	_, err := execute(t, "10", "-p", "4")
	var cfgErr *oddeven.ConfigError
	require.True(t, errors.As(err, &cfgErr), "want *oddeven.ConfigError, got %v", err)
	assert.Equal(t, 10, cfgErr.N)
	assert.Equal(t, 4, cfgErr.Workers)
}

func TestRootInvalidArguments(t *testing.T) {
	_, err := execute(t, "lots", "-p", "2")
	assert.ErrorContains(t, err, "invalid size")

	_, err = execute(t, "8", "16", "-p", "2")
	assert.Error(t, err)

	_, err = execute(t, "8", "-p", "-1")
	assert.ErrorContains(t, err, "workers must not be negative")
}

func TestRootMaxIsCapped(t *testing.T) {
	_, err := execute(t, "8", "-p", "2", "--verify", "--max", strconv.Itoa(config.MaxKeyLimit+1))
	assert.ErrorContains(t, err, "max must not exceed")

	out, err := execute(t, "8", "-p", "2", "--verify", "--print", "--max", strconv.Itoa(config.MaxKeyLimit))
	require.NoError(t, err)
	assert.Len(t, parseKeys(t, out), 8)
}

func TestRootConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oddeven.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sort:\n  size: 12\n  workers: 3\ndata:\n  seed: 5\n"), 0644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "--print"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Len(t, parseKeys(t, out.String()), 12)
}

func TestVerifyDetectsBadResult(t *testing.T) {
	opts := datagen.Options{Max: 10}
	assert.NoError(t, verify([]int{3, 1, 2}, []int{1, 2, 3}, opts))
	assert.ErrorContains(t, verify([]int{3, 1, 2}, []int{2, 1, 3}, opts), "not sorted")
	assert.ErrorContains(t, verify([]int{3, 1, 2}, []int{1, 1, 3}, opts), "not a permutation")
}

func TestFormatKeys(t *testing.T) {
	assert.Equal(t, "", formatKeys(nil))
	assert.Equal(t, "1 2 30", formatKeys([]int{1, 2, 30}))
}

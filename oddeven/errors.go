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

import "fmt"

// ConfigError reports a sort configuration that cannot be partitioned,
// such as a size that is not evenly divisible by the number of ranks. It is
// detected before any data is distributed.
type ConfigError struct {
	N       int
	Workers int
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("oddeven: invalid configuration (n=%d, workers=%d): %s", e.N, e.Workers, e.Reason)
}

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

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/ajroetker/go-oddeven/oddeven/transport"
)

// Merge writes the sorted union of a and b into dst using a two-pointer
// merge. Both inputs must be sorted; len(dst) must equal len(a)+len(b).
// On ties the key from a is taken first.
func Merge[K constraints.Ordered](dst, a, b []K) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if b[j] < a[i] {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}

// MergeSplit merges the sorted chunks local and received into scratch and
// copies one half back into local: the first len(local) keys for RoleLow,
// the last len(local) keys for RoleHigh. RoleNone leaves local untouched.
// scratch must hold len(local)+len(received) keys.
func MergeSplit[K constraints.Ordered](local, received, scratch []K, role Role) {
	if role == RoleNone {
		return
	}
	Merge(scratch, local, received)
	if role == RoleLow {
		copy(local, scratch[:len(local)])
	} else {
		copy(local, scratch[len(scratch)-len(local):])
	}
}

// Exchanger performs the exchange-merge-split step for one rank. It owns the
// receive and merge buffers and reuses them across rounds; an Exchanger must
// not be shared between ranks.
type Exchanger[K constraints.Ordered] struct {
	recv    []K
	scratch []K
}

// NewExchanger allocates the buffers for chunks of size keys.
func NewExchanger[K constraints.Ordered](size int) *Exchanger[K] {
	return &Exchanger[K]{
		recv:    make([]K, size),
		scratch: make([]K, 2*size),
	}
}

// Exchange swaps local with the partner named by a and keeps the half of
// the merged keys that a's role calls for. Both partners must call Exchange
// for the same round. Idle assignments return immediately.
func (x *Exchanger[K]) Exchange(ctx context.Context, c transport.Comm[K], local []K, a Assignment, round int) error {
	if !a.Active() {
		return nil
	}
	if len(local) != len(x.recv) {
		return &transport.TransportError{
			Op:   "exchange",
			Rank: c.Rank(),
			Peer: a.Partner,
			Err: errors.Wrapf(transport.ErrSizeMismatch,
				"chunk holds %d keys, exchanger sized for %d", len(local), len(x.recv)),
		}
	}
	if err := c.SendRecv(ctx, a.Partner, round, local, x.recv); err != nil {
		return errors.Wrapf(err, "round %d", round)
	}
	MergeSplit(local, x.recv, x.scratch, a.Role)
	return nil
}

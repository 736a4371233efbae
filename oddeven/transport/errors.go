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

package transport

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidPeer is returned for a peer or root outside [0, Size()).
	ErrInvalidPeer = errors.New("invalid peer rank")

	// ErrUnexpectedMessage is returned when the next message from a peer
	// carries a different tag than the one being received.
	ErrUnexpectedMessage = errors.New("unexpected message")

	// ErrSizeMismatch is returned when a received payload does not match
	// the receive buffer or the number of scattered chunks is wrong.
	ErrSizeMismatch = errors.New("payload size mismatch")
)

// TransportError reports a failed send, receive, scatter or gather. It is
// fatal for the whole sort: there is no retry and no partial result.
type TransportError struct {
	Op   string
	Rank int
	Peer int
	Err  error
}

func (e *TransportError) Error() string {
	if e.Peer < 0 {
		return fmt.Sprintf("transport: %s on rank %d: %v", e.Op, e.Rank, e.Err)
	}
	return fmt.Sprintf("transport: %s rank %d <-> %d: %v", e.Op, e.Rank, e.Peer, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

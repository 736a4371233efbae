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

package inproc

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-oddeven/oddeven/transport"
)

// Comm is one rank's endpoint into a World. It implements transport.Comm.
type Comm[K any] struct {
	w    *World[K]
	rank int
}

var _ transport.Comm[int] = (*Comm[int])(nil)

func (c *Comm[K]) Rank() int { return c.rank }

func (c *Comm[K]) Size() int { return c.w.size }

func (c *Comm[K]) ProcessorName() string { return c.w.name }

// Wtime returns the time elapsed since the World was created.
func (c *Comm[K]) Wtime() time.Duration {
	return time.Since(c.w.epoch)
}

// SendRecv posts send to peer before blocking on peer's message. Because
// every link has at least one free slot once the previous message has been
// consumed, both sides of an exchange can post first and neither blocks.
func (c *Comm[K]) SendRecv(ctx context.Context, peer, tag int, send, recv []K) error {
	const op = "sendrecv"
	if err := c.checkPeer(op, peer); err != nil {
		return err
	}
	if tag < 0 {
		return c.fail(op, peer, errors.Errorf("tag %d is reserved", tag))
	}
	if err := c.send(ctx, op, peer, tag, send); err != nil {
		return err
	}
	payload, err := c.recv(ctx, op, peer, tag)
	if err != nil {
		return err
	}
	if len(payload) != len(recv) {
		return c.fail(op, peer, errors.Wrapf(transport.ErrSizeMismatch,
			"received %d keys, buffer holds %d", len(payload), len(recv)))
	}
	copy(recv, payload)
	return nil
}

// Scatter sends chunks[r] from root to each rank r.
func (c *Comm[K]) Scatter(ctx context.Context, root int, chunks [][]K) ([]K, error) {
	const op = "scatter"
	if err := c.checkPeer(op, root); err != nil {
		return nil, err
	}
	if c.rank != root {
		return c.recv(ctx, op, root, tagScatter)
	}

	if len(chunks) != c.w.size {
		return nil, c.fail(op, -1, errors.Wrapf(transport.ErrSizeMismatch,
			"%d chunks for %d ranks", len(chunks), c.w.size))
	}
	for r, chunk := range chunks {
		if r == root {
			continue
		}
		if err := c.send(ctx, op, r, tagScatter, chunk); err != nil {
			return nil, err
		}
	}
	return slices.Clone(chunks[root]), nil
}

// Gather collects local from every rank at root, in rank order.
func (c *Comm[K]) Gather(ctx context.Context, root int, local []K) ([][]K, error) {
	const op = "gather"
	if err := c.checkPeer(op, root); err != nil {
		return nil, err
	}
	if c.rank != root {
		return nil, c.send(ctx, op, root, tagGather, local)
	}

	chunks := make([][]K, c.w.size)
	chunks[root] = slices.Clone(local)
	for r := range c.w.size {
		if r == root {
			continue
		}
		payload, err := c.recv(ctx, op, r, tagGather)
		if err != nil {
			return nil, err
		}
		chunks[r] = payload
	}
	return chunks, nil
}

func (c *Comm[K]) send(ctx context.Context, op string, peer, tag int, payload []K) error {
	msg := envelope[K]{tag: tag, payload: slices.Clone(payload)}
	select {
	case c.w.links[c.rank][peer] <- msg:
		return nil
	case <-ctx.Done():
		return c.fail(op, peer, ctx.Err())
	}
}

func (c *Comm[K]) recv(ctx context.Context, op string, peer, tag int) ([]K, error) {
	select {
	case msg := <-c.w.links[peer][c.rank]:
		if msg.tag != tag {
			return nil, c.fail(op, peer, errors.Wrapf(transport.ErrUnexpectedMessage,
				"tag %d, want %d", msg.tag, tag))
		}
		return msg.payload, nil
	case <-ctx.Done():
		return nil, c.fail(op, peer, ctx.Err())
	}
}

func (c *Comm[K]) checkPeer(op string, peer int) error {
	if peer < 0 || peer >= c.w.size {
		return c.fail(op, peer, errors.Wrapf(transport.ErrInvalidPeer, "rank %d of %d", peer, c.w.size))
	}
	return nil
}

func (c *Comm[K]) fail(op string, peer int, err error) error {
	return &transport.TransportError{Op: op, Rank: c.rank, Peer: peer, Err: err}
}

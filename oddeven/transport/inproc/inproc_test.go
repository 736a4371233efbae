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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ajroetker/go-oddeven/oddeven/transport"
)

func TestNewWorldInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := NewWorld[int](size)
		assert.Error(t, err, "size %d", size)
	}
}

func TestWorldRanks(t *testing.T) {
	w, err := NewWorld[int](3, WithProcessorName("node-7"))
	require.NoError(t, err)
	assert.Equal(t, 3, w.Size())
	for r := range 3 {
		c := w.Comm(r)
		require.NotNil(t, c)
		assert.Equal(t, r, c.Rank())
		assert.Equal(t, 3, c.Size())
		assert.Equal(t, "node-7", c.ProcessorName())
	}
	assert.Nil(t, w.Comm(3))
	assert.Nil(t, w.Comm(-1))
}

func TestDefaultProcessorName(t *testing.T) {
	w, err := NewWorld[int](1)
	require.NoError(t, err)
	assert.NotEmpty(t, w.Comm(0).ProcessorName())
}

func TestWtimeAdvances(t *testing.T) {
	w, err := NewWorld[int](2)
	require.NoError(t, err)
	a := w.Comm(0).Wtime()
	time.Sleep(time.Millisecond)
	b := w.Comm(1).Wtime()
	assert.Greater(t, b, a)
}

func TestSendRecvExchange(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWorld[int](2)
	require.NoError(t, err)

	send := [][]int{{1, 2, 3}, {4, 5, 6}}
	recv := [][]int{make([]int, 3), make([]int, 3)}
	err = w.Run(context.Background(), func(ctx context.Context, c transport.Comm[int]) error {
		r := c.Rank()
		return c.SendRecv(ctx, 1-r, 0, send[r], recv[r])
	})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, recv[0])
	assert.Equal(t, []int{1, 2, 3}, recv[1])
}

func TestSendRecvManyRounds(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWorld[int](2)
	require.NoError(t, err)

	const rounds = 50
	err = w.Run(context.Background(), func(ctx context.Context, c transport.Comm[int]) error {
		recv := make([]int, 1)
		for round := range rounds {
			if err := c.SendRecv(ctx, 1-c.Rank(), round, []int{round*10 + c.Rank()}, recv); err != nil {
				return err
			}
			if want := round*10 + 1 - c.Rank(); recv[0] != want {
				return errors.New("received a key from the wrong round")
			}
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestSendCopiesPayload(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWorld[int](2)
	require.NoError(t, err)

	var got []int
	err = w.Run(context.Background(), func(ctx context.Context, c transport.Comm[int]) error {
		buf := make([]int, 2)
		if c.Rank() == 0 {
			data := []int{1, 2}
			if err := c.SendRecv(ctx, 1, 0, data, buf); err != nil {
				return err
			}
			data[0] = 99
			return nil
		}
		if err := c.SendRecv(ctx, 0, 0, []int{3, 4}, buf); err != nil {
			return err
		}
		got = buf
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
}

func TestSendRecvSizeMismatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWorld[int](2)
	require.NoError(t, err)

	err = w.Run(context.Background(), func(ctx context.Context, c transport.Comm[int]) error {
		if c.Rank() == 0 {
			return c.SendRecv(ctx, 1, 0, []int{1, 2, 3}, make([]int, 2))
		}
		return c.SendRecv(ctx, 0, 0, []int{4, 5}, make([]int, 2))
	})

	var te *transport.TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, transport.ErrSizeMismatch)
	assert.Equal(t, "sendrecv", te.Op)
	assert.Equal(t, 1, te.Rank)
}

func TestSendRecvTagMismatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWorld[int](2)
	require.NoError(t, err)

	err = w.Run(context.Background(), func(ctx context.Context, c transport.Comm[int]) error {
		return c.SendRecv(ctx, 1-c.Rank(), c.Rank(), []int{1}, make([]int, 1))
	})
	assert.ErrorIs(t, err, transport.ErrUnexpectedMessage)
}

func TestSendRecvInvalidArguments(t *testing.T) {
	w, err := NewWorld[int](2)
	require.NoError(t, err)
	c := w.Comm(0)

	err = c.SendRecv(context.Background(), 2, 0, nil, nil)
	assert.ErrorIs(t, err, transport.ErrInvalidPeer)

	err = c.SendRecv(context.Background(), -1, 0, nil, nil)
	assert.ErrorIs(t, err, transport.ErrInvalidPeer)

	err = c.SendRecv(context.Background(), 1, tagScatter, nil, nil)
	var te *transport.TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Error(), "reserved")
}

func TestRecvCancelled(t *testing.T) {
	w, err := NewWorld[int](2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.Comm(0).SendRecv(ctx, 1, 0, []int{1}, make([]int, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScatterGather(t *testing.T) {
	defer goleak.VerifyNone(t)

	const size, root = 4, 2
	w, err := NewWorld[int](size)
	require.NoError(t, err)

	chunks := [][]int{{0, 1}, {10, 11}, {20, 21}, {30, 31}}
	var gathered [][]int
	err = w.Run(context.Background(), func(ctx context.Context, c transport.Comm[int]) error {
		var send [][]int
		if c.Rank() == root {
			send = chunks
		}
		local, err := c.Scatter(ctx, root, send)
		if err != nil {
			return err
		}
		if local[0] != c.Rank()*10 {
			return errors.New("scattered chunk landed on the wrong rank")
		}
		for i := range local {
			local[i]++
		}
		out, err := c.Gather(ctx, root, local)
		if err != nil {
			return err
		}
		if c.Rank() == root {
			gathered = out
		} else if out != nil {
			return errors.New("non-root rank received gathered chunks")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {11, 12}, {21, 22}, {31, 32}}, gathered)
	assert.Equal(t, []int{20, 21}, chunks[root], "root's input chunk must not be mutated")
}

func TestScatterWrongChunkCount(t *testing.T) {
	w, err := NewWorld[int](1)
	require.NoError(t, err)

	_, err = w.Comm(0).Scatter(context.Background(), 0, [][]int{{1}, {2}})
	assert.ErrorIs(t, err, transport.ErrSizeMismatch)
}

func TestScatterInvalidRoot(t *testing.T) {
	w, err := NewWorld[int](2)
	require.NoError(t, err)

	_, err = w.Comm(0).Scatter(context.Background(), 3, nil)
	assert.ErrorIs(t, err, transport.ErrInvalidPeer)
	_, err = w.Comm(0).Gather(context.Background(), -1, nil)
	assert.ErrorIs(t, err, transport.ErrInvalidPeer)
}

func TestRunFirstErrorCancelsOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWorld[int](3)
	require.NoError(t, err)

	boom := errors.New("rank crashed")
	err = w.Run(context.Background(), func(ctx context.Context, c transport.Comm[int]) error {
		if c.Rank() == 0 {
			return boom
		}
		// Waits on rank 0 forever unless cancelled.
		_, err := c.Scatter(ctx, 0, nil)
		return err
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithBufferFloor(t *testing.T) {
	var o options
	WithBuffer(0)(&o)
	assert.Equal(t, 1, o.buffer)
	WithBuffer(8)(&o)
	assert.Equal(t, 8, o.buffer)
}

// go-ncp
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-ncp.
//
// go-ncp is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-ncp is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ncp; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package ncp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagePool(t *testing.T) {
	t.Parallel()

	pool := NewMessagePool(2, 4)

	a, err := pool.New()
	require.NoError(t, err)
	b, err := pool.NewWithData([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2, pool.InUse())

	_, err = pool.New()
	require.ErrorIs(t, err, ErrNoBufs)

	require.ErrorIs(t, b.Append([]byte{5}), ErrNoBufs)
	assert.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())

	a.Free()
	a.Free()
	assert.Equal(t, 1, pool.InUse())
	assert.Equal(t, 1, pool.DoubleFrees())

	c, err := pool.New()
	require.NoError(t, err)
	c.Free()
	b.Free()
	assert.Equal(t, 0, pool.InUse())
}

func TestMessagePool_NewWithDataTooLarge(t *testing.T) {
	t.Parallel()

	pool := NewMessagePool(1, 2)
	_, err := pool.NewWithData([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrNoBufs)
	assert.Equal(t, 0, pool.InUse(), "lease returned on failure")
}

func TestMessageQueue(t *testing.T) {
	t.Parallel()

	pool := NewMessagePool(4, 16)
	queue := NewMessageQueue(2)
	assert.Nil(t, queue.Dequeue())

	var msgs []*Message
	for i := byte(0); i < 3; i++ {
		msg, err := pool.NewWithData([]byte{i})
		require.NoError(t, err)
		msgs = append(msgs, msg)
	}

	require.NoError(t, queue.Enqueue(msgs[0]))
	require.NoError(t, queue.Enqueue(msgs[1]))
	require.ErrorIs(t, queue.Enqueue(msgs[2]), ErrNoBufs)
	assert.Equal(t, 2, queue.Len())

	first := queue.Dequeue()
	assert.Equal(t, []byte{0}, first.Bytes())
	first.Free()

	queue.Clear()
	assert.Equal(t, 0, queue.Len())
	msgs[2].Free()
	assert.Equal(t, 0, pool.InUse())
}

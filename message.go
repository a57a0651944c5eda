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
	"fmt"
	"sync"
)

// Message pool defaults
const (
	DefaultMessagePoolSize = 32
	DefaultMaxMessageSize  = 1280
)

// Message is a datagram buffer leased from a MessagePool. Whoever holds a
// Message is responsible for calling Free exactly once.
type Message struct {
	pool  *MessagePool
	data  []byte
	freed bool
}

// Append copies b to the end of the message.
func (m *Message) Append(b []byte) error {
	if len(m.data)+len(b) > m.pool.maxSize {
		return fmt.Errorf("%w: message would grow to %d bytes, limit %d",
			ErrNoBufs, len(m.data)+len(b), m.pool.maxSize)
	}
	m.data = append(m.data, b...)
	return nil
}

// Bytes returns the message payload. The slice is owned by the message.
func (m *Message) Bytes() []byte {
	return m.data
}

// Len returns the payload length
func (m *Message) Len() int {
	return len(m.data)
}

// Free returns the message to its pool. Calling Free again is a no-op.
func (m *Message) Free() {
	m.pool.release(m)
}

// MessagePool bounds the number of datagram buffers alive at once.
// It is safe for concurrent use.
type MessagePool struct {
	mu          sync.Mutex
	capacity    int
	maxSize     int
	inUse       int
	doubleFrees int
}

// NewMessagePool creates a pool of capacity messages of at most maxSize bytes.
func NewMessagePool(capacity, maxSize int) *MessagePool {
	if capacity <= 0 {
		capacity = DefaultMessagePoolSize
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}
	return &MessagePool{capacity: capacity, maxSize: maxSize}
}

// New leases an empty message, or fails with ErrNoBufs when the pool is exhausted.
func (p *MessagePool) New() (*Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inUse >= p.capacity {
		return nil, fmt.Errorf("%w: %d of %d messages in use", ErrNoBufs, p.inUse, p.capacity)
	}
	p.inUse++
	return &Message{pool: p}, nil
}

// NewWithData leases a message holding a copy of data.
func (p *MessagePool) NewWithData(data []byte) (*Message, error) {
	msg, err := p.New()
	if err != nil {
		return nil, err
	}
	if err := msg.Append(data); err != nil {
		msg.Free()
		return nil, err
	}
	return msg, nil
}

// InUse returns the number of leased messages
func (p *MessagePool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// DoubleFrees returns how many times Free was called on an already freed message.
func (p *MessagePool) DoubleFrees() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doubleFrees
}

func (p *MessagePool) release(m *Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m.freed {
		p.doubleFrees++
		return
	}
	m.freed = true
	m.data = nil
	p.inUse--
}

// MessageQueue is a bounded FIFO of messages. It is not safe for
// concurrent use; the NCP only touches it from its event loop.
type MessageQueue struct {
	items    []*Message
	capacity int
}

// NewMessageQueue creates a queue holding at most capacity messages.
func NewMessageQueue(capacity int) *MessageQueue {
	return &MessageQueue{capacity: capacity}
}

// Enqueue appends msg, failing with ErrNoBufs when the queue is full. The
// caller keeps ownership of msg on failure.
func (q *MessageQueue) Enqueue(msg *Message) error {
	if len(q.items) >= q.capacity {
		return fmt.Errorf("%w: queue full at %d messages", ErrNoBufs, q.capacity)
	}
	q.items = append(q.items, msg)
	return nil
}

// Dequeue removes and returns the oldest message, or nil when empty.
func (q *MessageQueue) Dequeue() *Message {
	if len(q.items) == 0 {
		return nil
	}
	msg := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return msg
}

// Len returns the number of queued messages
func (q *MessageQueue) Len() int {
	return len(q.items)
}

// Clear frees every queued message.
func (q *MessageQueue) Clear() {
	for _, msg := range q.items {
		msg.Free()
	}
	q.items = nil
}

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
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-ncp/spinel"
)

// NCP is the Spinel protocol engine: it answers host commands against the
// property table and schedules every outbound frame so that at most one is
// in flight on the transport.
//
// Thread Safety: the FrameHandler, StackEventHandler and ScanHandler
// methods may be called from any goroutine; they only post work to the
// event loop. Everything else runs on the loop and must not be called
// concurrently with it.
type NCP struct {
	transport Transport
	stack     Stack
	config    *Config
	loop      *EventLoop
	pool      *MessagePool
	queue     *MessageQueue
	metrics   *Metrics
	log       zerolog.Logger

	sendDoneTask      *Tasklet
	updateAddressTask *Tasklet

	// sendMessage is released when the in-flight frame completes
	sendMessage *Message
	pending     pendingGet
	lastStatus  spinel.Status
	sending     bool
	hasPending  bool
	started     bool
}

// Snapshot is a point-in-time view of the scheduler state.
type Snapshot struct {
	PendingKey    spinel.PropKey
	PendingHeader spinel.Header
	LastStatus    spinel.Status
	QueueDepth    int
	Sending       bool
	HasPending    bool
}

// New creates an NCP bound to transport and stack. Call Start to begin
// handling frames and Run (or the shared loop) to process them.
func New(transport Transport, stack Stack, opts ...Option) (*NCP, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	if stack == nil {
		return nil, ErrNilStack
	}

	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}
	if config.Loop == nil {
		config.Loop = NewEventLoop()
	}
	if config.Pool == nil {
		config.Pool = NewMessagePool(DefaultMessagePoolSize, DefaultMaxMessageSize)
	}

	n := &NCP{
		transport:  transport,
		stack:      stack,
		config:     config,
		loop:       config.Loop,
		pool:       config.Pool,
		queue:      NewMessageQueue(config.QueueCapacity),
		metrics:    config.Metrics,
		log:        config.Logger.With().Str("component", "ncp").Logger(),
		lastStatus: spinel.StatusResetPowerOn,
	}
	n.sendDoneTask = NewTasklet(n.loop, n.handleSendDone)
	n.updateAddressTask = NewTasklet(n.loop, n.updateAddresses)
	return n, nil
}

// Start registers with the stack and opens the transport.
func (n *NCP) Start() error {
	if n.started {
		return nil
	}
	n.stack.SetEventHandler(n)
	if err := n.transport.Open(n); err != nil {
		return fmt.Errorf("failed to open %s transport: %w", n.transport.Type(), err)
	}
	n.started = true
	n.log.Info().
		Str("transport", string(n.transport.Type())).
		Int("max_frame", n.config.MaxFrameSize).
		Msg("ncp started")
	return nil
}

// Stop closes the transport and frees queued datagrams. Call it after the
// loop has stopped, or from a task running on the loop.
func (n *NCP) Stop() error {
	if !n.started {
		return nil
	}
	n.started = false
	err := n.transport.Close()

	n.queue.Clear()
	if n.sendMessage != nil {
		n.sendMessage.Free()
		n.sendMessage = nil
	}
	n.sending = false
	n.hasPending = false
	n.pending = pendingGet{}
	n.metrics.setQueueDepth(0)
	n.metrics.setSending(false)

	if err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	n.log.Info().Msg("ncp stopped")
	return nil
}

// Run processes engine work until ctx is cancelled.
func (n *NCP) Run(ctx context.Context) error {
	return n.loop.Run(ctx)
}

// Loop returns the event loop the engine runs on
func (n *NCP) Loop() *EventLoop {
	return n.loop
}

// LastStatus returns the status most recently reported on interface 0
func (n *NCP) LastStatus() spinel.Status {
	return n.lastStatus
}

// Snapshot returns the scheduler state. It must run on the loop.
func (n *NCP) Snapshot() Snapshot {
	return Snapshot{
		Sending:       n.sending,
		QueueDepth:    n.queue.Len(),
		HasPending:    n.hasPending,
		PendingHeader: n.pending.header,
		PendingKey:    n.pending.key,
		LastStatus:    n.lastStatus,
	}
}

// HandleFrame implements FrameHandler. The frame is copied before it is
// queued, so the transport may reuse its buffer.
func (n *NCP) HandleFrame(frame []byte) {
	buf := append([]byte(nil), frame...)
	n.loop.Post(func() {
		n.handleReceive(buf)
	})
}

// HandleSendDone implements FrameHandler.
func (n *NCP) HandleSendDone() {
	n.sendDoneTask.Post()
}

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

// Package stream provides an HDLC-framed transport over any byte stream.
// The UART and PTY transports are built on it.
package stream

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/internal/hdlc"
)

const readBufferSize = 256

// Transport errors
var (
	ErrClosed      = errors.New("stream: transport closed")
	ErrAlreadyOpen = errors.New("stream: transport already open")
	ErrNotOpen     = errors.New("stream: transport not open")
)

// Option configures a Transport
type Option func(*Transport)

// WithLogger sets the transport logger
func WithLogger(log zerolog.Logger) Option {
	return func(t *Transport) {
		t.log = log
	}
}

// WithMaxFrameSize sets the largest inbound frame accepted
func WithMaxFrameSize(size int) Option {
	return func(t *Transport) {
		t.maxFrame = size
	}
}

// WithType overrides the reported transport type
func WithType(typ ncp.TransportType) Option {
	return func(t *Transport) {
		t.typ = typ
	}
}

// Stats reports decoder and writer counters
type Stats struct {
	Decoder     hdlc.Stats
	FramesSent  int
	WriteErrors int
}

// Transport frames Spinel traffic with HDLC-lite over rw. A reader
// goroutine decodes inbound frames and a writer goroutine transmits
// outbound ones, reporting completion through the FrameHandler.
type Transport struct {
	rw       io.ReadWriteCloser
	log      zerolog.Logger
	handler  ncp.FrameHandler
	decoder  *hdlc.Decoder
	writeCh  chan []byte
	done     chan struct{}
	typ      ncp.TransportType
	wg       sync.WaitGroup
	stats    Stats
	maxFrame int
	mu       sync.Mutex
	open     bool
	closed   bool
}

// New wraps rw. The transport owns rw and closes it on Close.
func New(rw io.ReadWriteCloser, opts ...Option) *Transport {
	t := &Transport{
		rw:       rw,
		log:      zerolog.Nop(),
		typ:      ncp.TransportStream,
		maxFrame: hdlc.DefaultMaxFrame,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open starts the reader and writer goroutines.
func (t *Transport) Open(handler ncp.FrameHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.closed:
		return ErrClosed
	case t.open:
		return ErrAlreadyOpen
	}

	t.handler = handler
	t.decoder = hdlc.NewDecoder(t.maxFrame, handler.HandleFrame)
	t.decoder.OnError(func(err error) {
		t.log.Debug().Err(err).Msg("dropped inbound frame")
	})
	t.writeCh = make(chan []byte, 1)
	t.done = make(chan struct{})
	t.open = true

	t.wg.Add(2)
	go t.readLoop()
	go t.writeLoop()
	return nil
}

// SendFrame queues frame for transmission. Only one frame may be
// outstanding; a second call before HandleSendDone returns ncp.ErrBusy.
func (t *Transport) SendFrame(frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if !t.open {
		return ErrNotOpen
	}

	encoded := hdlc.Encode(make([]byte, 0, len(frame)*2+4), frame)
	select {
	case t.writeCh <- encoded:
		return nil
	default:
		return fmt.Errorf("send frame: %w", ncp.ErrBusy)
	}
}

// Close stops both goroutines and closes the underlying stream.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	wasOpen := t.open
	if wasOpen {
		close(t.done)
	}
	t.mu.Unlock()

	err := t.rw.Close()
	if wasOpen {
		t.wg.Wait()
	}
	if err != nil {
		return fmt.Errorf("close stream: %w", err)
	}
	return nil
}

// Type returns the transport type
func (t *Transport) Type() ncp.TransportType {
	return t.typ
}

// Stats returns a copy of the transport counters
func (t *Transport) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

func (t *Transport) readLoop() {
	defer t.wg.Done()

	buf := make([]byte, readBufferSize)
	for {
		n, err := t.rw.Read(buf)
		if n > 0 {
			_, _ = t.decoder.Write(buf[:n])
			t.mu.Lock()
			t.stats.Decoder = t.decoder.Stats()
			t.mu.Unlock()
		}
		if err != nil {
			if !t.isClosing() {
				t.log.Warn().Err(err).Msg("stream read failed")
			}
			return
		}
	}
}

func (t *Transport) writeLoop() {
	defer t.wg.Done()

	for {
		select {
		case <-t.done:
			return
		case encoded := <-t.writeCh:
			_, err := t.rw.Write(encoded)

			t.mu.Lock()
			if err != nil {
				t.stats.WriteErrors++
			} else {
				t.stats.FramesSent++
			}
			t.mu.Unlock()

			if err != nil {
				if t.isClosing() {
					return
				}
				t.log.Warn().Err(err).Msg("stream write failed")
			}
			// Completion is reported on failure too so the sender can move on
			t.handler.HandleSendDone()
		}
	}
}

func (t *Transport) isClosing() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

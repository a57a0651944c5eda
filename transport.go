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

// FrameHandler receives events from a Transport. Both methods may be
// called from any goroutine; implementations must not block.
type FrameHandler interface {
	// HandleFrame delivers one complete decoded frame. The slice is only
	// valid for the duration of the call.
	HandleFrame(frame []byte)

	// HandleSendDone reports that the frame passed to the most recent
	// SendFrame call has left the transport.
	HandleSendDone()
}

// Transport moves whole Spinel frames between the NCP and its host.
// This can be implemented by UART, pseudo-terminal or in-memory backends.
type Transport interface {
	// Open starts delivering inbound frames and send completions to handler
	Open(handler FrameHandler) error

	// SendFrame begins transmitting one frame. It must not block until
	// the frame has been written; completion is signalled through
	// FrameHandler.HandleSendDone. A non-nil error means no completion
	// will follow.
	SendFrame(frame []byte) error

	// Close stops the transport. No handler calls happen after Close returns.
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents a UART/serial link.
	TransportUART TransportType = "uart"
	// TransportPTY represents a pseudo-terminal, used for host-side simulation.
	TransportPTY TransportType = "pty"
	// TransportStream represents a generic byte stream such as a pipe or socket.
	TransportStream TransportType = "stream"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

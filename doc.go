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

/*
Package ncp implements the device side of the Spinel protocol: a network
co-processor that lets a host drive a Thread stack over a serial link.

The engine parses host frames, answers GET and SET requests against a fixed
property table, and forwards stack events (inbound datagrams, address table
changes, active scan results) to the host. Every outbound frame goes through
a scheduler that keeps at most one frame in flight on the transport; replies
that cannot be sent immediately are parked in a single pending slot where the
newest request wins.

Features:
  - Spinel wire codec in the spinel subpackage
  - UART, pseudo-terminal and generic stream transports with HDLC-lite framing
  - A pluggable Stack interface, with an in-memory virtual stack for testing
  - Prometheus metrics and zerolog logging

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-ncp"
	    "github.com/ZaparooProject/go-ncp/transport/uart"
	)

	transport, err := uart.New("/dev/ttyACM0")
	if err != nil {
	    log.Fatal(err)
	}

	loop := ncp.NewEventLoop()
	engine, err := ncp.New(transport, stack,
	    ncp.WithEventLoop(loop),
	    ncp.WithLogger(logger),
	)
	if err != nil {
	    log.Fatal(err)
	}
	if err := engine.Start(); err != nil {
	    log.Fatal(err)
	}
	defer engine.Stop()

	// Blocks until ctx is cancelled
	_ = engine.Run(ctx)

Concurrency:

All protocol state is owned by an EventLoop. Transports and stacks may call
the handler methods of NCP from any goroutine; those calls only post work to
the loop. Tests can skip Run entirely and call EventLoop.RunPending to process
work deterministically on the test goroutine.

Error Handling:

Stack implementations report failures with the sentinel errors of this
package (ErrBusy, ErrInvalidArgs and so on). StatusFromError converts any
error into the Spinel status sent to the host:

	if err := stack.SetChannel(ch); err != nil {
	    status := ncp.StatusFromError(err)
	    ...
	}
*/
package ncp

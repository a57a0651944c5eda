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
	"github.com/ZaparooProject/go-ncp/spinel"
)

// pendingGet is the single deferred reply slot. A newer request always
// replaces an older one.
type pendingGet struct {
	header    spinel.Header
	key       spinel.PropKey
	status    spinel.Status
	value     uint8
	hasStatus bool
	hasValue  bool
}

// defer outcomes recorded by Metrics.pendingGet
const (
	pendingStored     = "stored"
	pendingSuperseded = "superseded"
	pendingServed     = "served"
)

func (n *NCP) newFrame(h spinel.Header, cmd spinel.Command, key spinel.PropKey) *spinel.Encoder {
	return spinel.NewEncoder(n.config.MaxFrameSize).FrameHeader(h, cmd, key)
}

// trySend hands frame to the transport unless a frame is already in flight.
// msg, when non-nil, is released once the send completes.
func (n *NCP) trySend(frame []byte, cmd spinel.Command, msg *Message) bool {
	if n.sending {
		return false
	}
	n.sending = true
	n.sendMessage = msg
	n.metrics.setSending(true)

	if err := n.transport.SendFrame(frame); err != nil {
		n.log.Warn().Err(err).Stringer("cmd", cmd).Msg("transport rejected frame")
		n.metrics.frameDropped(dropSendError)
		// No completion will arrive for this frame; synthesise one.
		n.sendDoneTask.Post()
		return true
	}
	n.metrics.frameSent(cmd)
	return true
}

// sendEncoded transmits a fully built frame, dropping it if encoding overflowed.
func (n *NCP) sendEncoded(e *spinel.Encoder, cmd spinel.Command, key spinel.PropKey, msg *Message) {
	if err := e.Err(); err != nil {
		n.log.Warn().Err(err).Stringer("cmd", cmd).Stringer("key", key).Msg("dropping oversized frame")
		n.metrics.frameDropped(dropEncodeOverflow)
		if msg != nil {
			msg.Free()
		}
		return
	}
	n.trySend(e.Bytes(), cmd, msg)
}

// deferGet parks a GET for key until the in-flight frame completes.
func (n *NCP) deferGet(h spinel.Header, key spinel.PropKey) {
	n.park(pendingGet{header: h, key: key})
}

// deferStatus parks a LAST_STATUS reply carrying status.
func (n *NCP) deferStatus(h spinel.Header, status spinel.Status) {
	n.park(pendingGet{header: h, key: spinel.PropLastStatus, status: status, hasStatus: true})
}

// deferValue parks a reply reporting key with a fixed one-byte value
// rather than whatever the getter returns later.
func (n *NCP) deferValue(h spinel.Header, key spinel.PropKey, value uint8) {
	n.park(pendingGet{header: h, key: key, value: value, hasValue: true})
}

func (n *NCP) park(p pendingGet) {
	if n.hasPending {
		n.log.Debug().
			Stringer("dropped_key", n.pending.key).
			Uint8("dropped_tid", n.pending.header.TID()).
			Stringer("key", p.key).
			Msg("pending get superseded")
		n.metrics.pendingGet(pendingSuperseded)
	}
	n.pending = p
	n.hasPending = true
	n.metrics.pendingGet(pendingStored)
}

// sendLastStatus reports status for the command carried under h. Only
// interface 0 updates the stored last status.
func (n *NCP) sendLastStatus(h spinel.Header, status spinel.Status) {
	if h.IID() == 0 {
		n.lastStatus = status
	}
	n.metrics.statusReply(status)
	n.emitStatus(h, status)
}

func (n *NCP) emitStatus(h spinel.Header, status spinel.Status) {
	if n.sending {
		n.deferStatus(h, status)
		return
	}
	e := n.newFrame(h, spinel.CmdPropValueIs, spinel.PropLastStatus).UintPacked(uint32(status))
	n.sendEncoded(e, spinel.CmdPropValueIs, spinel.PropLastStatus, nil)
}

// emitValue sends key with a fixed one-byte value, deferring it while a
// frame is in flight.
func (n *NCP) emitValue(h spinel.Header, key spinel.PropKey, value uint8) {
	if n.sending {
		n.deferValue(h, key, value)
		return
	}
	e := n.newFrame(h, spinel.CmdPropValueIs, key).Uint8(value)
	n.sendEncoded(e, spinel.CmdPropValueIs, key, nil)
}

// handleSendDone releases the completed frame, then sends queued datagrams
// ahead of the pending GET.
func (n *NCP) handleSendDone() {
	if !n.sending {
		n.log.Debug().Msg("send completion with nothing in flight")
	}
	n.sending = false
	n.metrics.setSending(false)
	if n.sendMessage != nil {
		n.sendMessage.Free()
		n.sendMessage = nil
	}

	// A drained item may fail to encode and leave the transport idle, so
	// keep going until something is in flight or there is nothing left.
	for !n.sending {
		if msg := n.queue.Dequeue(); msg != nil {
			n.metrics.setQueueDepth(n.queue.Len())
			n.sendDatagram(msg)
			continue
		}
		if !n.hasPending {
			return
		}
		p := n.pending
		n.hasPending = false
		n.pending = pendingGet{}
		n.metrics.pendingGet(pendingServed)
		switch {
		case p.hasStatus:
			n.emitStatus(p.header, p.status)
		case p.hasValue:
			n.emitValue(p.header, p.key, p.value)
		default:
			n.handlePropertyGet(p.header, p.key)
		}
	}
}

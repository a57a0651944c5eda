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

// HandleReceivedDatagram implements StackEventHandler. The NCP owns msg
// from here on.
func (n *NCP) HandleReceivedDatagram(msg *Message) {
	n.loop.Post(func() {
		n.handleReceivedDatagram(msg)
	})
}

// HandleUnicastAddressesChanged implements StackEventHandler. Notifications
// arriving before the update runs collapse into one.
func (n *NCP) HandleUnicastAddressesChanged() {
	n.updateAddressTask.Post()
}

// HandleActiveScanResult implements ScanHandler.
func (n *NCP) HandleActiveScanResult(result *ActiveScanResult) {
	var copied *ActiveScanResult
	if result != nil {
		r := *result
		copied = &r
	}
	n.loop.Post(func() {
		n.handleActiveScanResult(copied)
	})
}

func (n *NCP) handleReceivedDatagram(msg *Message) {
	if !n.sending {
		n.sendDatagram(msg)
		return
	}
	if err := n.queue.Enqueue(msg); err != nil {
		n.log.Warn().Err(err).Int("len", msg.Len()).Msg("dropping inbound datagram")
		n.metrics.frameDropped(dropQueueFull)
		msg.Free()
		return
	}
	n.metrics.datagramQueued()
	n.metrics.setQueueDepth(n.queue.Len())
}

// sendDatagram forwards msg to the host as an unsolicited STREAM_NET value.
// The message is released when the send completes.
func (n *NCP) sendDatagram(msg *Message) {
	e := n.newFrame(spinel.HeaderDefault, spinel.CmdPropValueIs, spinel.PropStreamNet).Raw(msg.Bytes())
	n.sendEncoded(e, spinel.CmdPropValueIs, spinel.PropStreamNet, msg)
}

// updateAddresses reports the address table and network state. While a
// frame is in flight the update is skipped; the next change retries.
func (n *NCP) updateAddresses() {
	if n.sending {
		n.log.Debug().Msg("skipping address update, send in flight")
		n.metrics.frameDropped(dropBusy)
		return
	}
	n.handlePropertyGet(spinel.HeaderDefault, spinel.PropIPv6AddressTable)
	n.handlePropertyGet(spinel.HeaderDefault, spinel.PropNetState)
}

// handleActiveScanResult reports one beacon, or the end of the scan when
// result is nil. Results that arrive while a frame is in flight are lost.
func (n *NCP) handleActiveScanResult(result *ActiveScanResult) {
	if n.sending {
		n.log.Debug().Bool("final", result == nil).Msg("dropping scan result, send in flight")
		n.metrics.frameDropped(dropBusy)
		return
	}

	if result == nil {
		e := n.newFrame(spinel.HeaderDefault, spinel.CmdPropValueIs, spinel.PropMacScanState).
			Uint8(spinel.ScanStateIdle)
		n.sendEncoded(e, spinel.CmdPropValueIs, spinel.PropMacScanState, nil)
		return
	}

	e := n.newFrame(spinel.HeaderDefault, spinel.CmdPropValueInserted, spinel.PropMacScanBeacon)
	encodeScanBeacon(e, result)
	n.sendEncoded(e, spinel.CmdPropValueInserted, spinel.PropMacScanBeacon, nil)
}

// encodeScanBeacon writes result in the MAC_SCAN_BEACON layout: channel,
// RSSI, then the MAC and network structs.
func encodeScanBeacon(e *spinel.Encoder, result *ActiveScanResult) {
	flags := result.Version << spinel.BeaconFlagVersionShift
	if result.IsJoinable {
		flags |= spinel.BeaconFlagJoinable
	}
	if result.IsNative {
		flags |= spinel.BeaconFlagNative
	}

	e.UintPacked(uint32(result.Channel)).Int8(result.RSSI)
	e.Struct(func(e *spinel.Encoder) {
		e.EUI64(result.ExtAddress).
			Uint16(0xFFFF). // short address is not reported by the scan
			Uint16(result.PANID).
			Uint8(0xFF) // LQI
	})
	e.Struct(func(e *spinel.Encoder) {
		e.UintPacked(spinel.ProtocolTypeThread).
			Uint8(flags).
			UTF8(result.NetworkName).
			Data(result.ExtPANID[:])
	})
}

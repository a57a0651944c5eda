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
	"net/netip"
	"time"
)

// Role is the device's position in the mesh as reported by the stack.
type Role int

// Device roles
const (
	RoleDisabled Role = iota
	RoleDetached
	RoleChild
	RoleRouter
	RoleLeader
)

func (r Role) String() string {
	switch r {
	case RoleDisabled:
		return "disabled"
	case RoleDetached:
		return "detached"
	case RoleChild:
		return "child"
	case RoleRouter:
		return "router"
	case RoleLeader:
		return "leader"
	default:
		return "unknown"
	}
}

// Attached reports whether the role is part of a partition.
func (r Role) Attached() bool {
	return r == RoleChild || r == RoleRouter || r == RoleLeader
}

// NetifAddress is one unicast address assigned to the network interface.
type NetifAddress struct {
	Address           netip.Addr
	PreferredLifetime uint32
	ValidLifetime     uint32
	PrefixLength      uint8
}

// ActiveScanResult describes one beacon heard during an active scan.
type ActiveScanResult struct {
	NetworkName string
	ExtAddress  [8]byte
	ExtPANID    [8]byte
	PANID       uint16
	Channel     uint8
	RSSI        int8
	Version     uint8
	IsJoinable  bool
	IsNative    bool
}

// ScanHandler receives active scan results. A nil result marks the end of
// the scan.
type ScanHandler interface {
	HandleActiveScanResult(result *ActiveScanResult)
}

// StackEventHandler receives asynchronous notifications from the stack.
// Methods may be called from any goroutine.
type StackEventHandler interface {
	// HandleReceivedDatagram takes ownership of msg.
	HandleReceivedDatagram(msg *Message)

	// HandleUnicastAddressesChanged signals that the unicast address set changed.
	HandleUnicastAddressesChanged()
}

// NetworkParams exposes the commissioning parameters of the stack.
type NetworkParams interface {
	Channel() uint8
	SetChannel(channel uint8) error
	PANID() uint16
	SetPANID(panid uint16) error
	ExtendedPANID() [8]byte
	SetExtendedPANID(xpanid [8]byte) error
	NetworkName() string
	SetNetworkName(name string) error
	MasterKey() []byte
	SetMasterKey(key []byte) error
	KeySequenceCounter() uint32
	SetKeySequenceCounter(counter uint32) error
	MeshLocalPrefix() (netip.Prefix, bool)
	SetMeshLocalPrefix(prefix netip.Prefix) error
}

// LinkInfo exposes read-only link and partition state.
type LinkInfo interface {
	ExtendedAddress() [8]byte
	ShortAddress() uint16
	PartitionID() uint32
	NoiseFloor() int8
	LeaderAddress() (netip.Addr, error)
	UnicastAddresses() []NetifAddress
}

// RoleController drives the device role state machine.
type RoleController interface {
	DeviceRole() Role
	Enable() error
	Disable() error
	BecomeDetached() error
	BecomeChild() error
	BecomeRouter() error
	BecomeLeader() error
}

// Scanner runs active scans. The channel mask has bit n set for channel n.
type Scanner interface {
	ActiveScan(channelMask uint32, duration time.Duration, handler ScanHandler) error
	ActiveScanInProgress() bool
}

// Stack is the network stack driven by the NCP. Apart from
// SetEventHandler, its methods are only called from the NCP event loop.
type Stack interface {
	NetworkParams
	LinkInfo
	RoleController
	Scanner

	// SetEventHandler registers the receiver of stack notifications.
	SetEventHandler(handler StackEventHandler)

	// HandleDatagram injects an outbound IPv6 datagram. The stack takes
	// ownership of msg whether or not an error is returned.
	HandleDatagram(msg *Message) error
}

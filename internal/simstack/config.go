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

// Package simstack provides a simulated Thread stack. It keeps network
// parameters in memory, attaches after a configurable delay, assigns
// the usual link-local, mesh-local and RLOC addresses, and answers active
// scans from a fixed list of neighbouring networks.
package simstack

import (
	"bytes"
	"net/netip"
	"time"

	"github.com/rs/zerolog"

	ncp "github.com/ZaparooProject/go-ncp"
)

// Defaults for a freshly created stack
const (
	DefaultChannel     = 11
	DefaultPANID       = 0xFACE
	DefaultNetworkName = "GoThread"
	DefaultAttachDelay = time.Second
	DefaultNoiseFloor  = -100

	// ShortAddressInvalid is reported while detached
	ShortAddressInvalid = 0xFFFE

	minChannel = 11
	maxChannel = 26
	keySize    = 16
)

// Config holds the initial stack state.
type Config struct {
	// Pool allocates loopback datagrams; nil disables loopback delivery
	Pool            *ncp.MessagePool
	Logger          zerolog.Logger
	MeshLocalPrefix netip.Prefix
	NetworkName     string
	MasterKey       []byte
	// Neighbors are reported by active scans
	Neighbors     []ncp.ActiveScanResult
	AttachDelay   time.Duration
	PartitionID   uint32
	ExtAddress    [8]byte
	ExtendedPANID [8]byte
	PANID         uint16
	Channel       uint8
	NoiseFloor    int8
	// Loopback echoes outbound datagrams back as inbound ones
	Loopback bool
}

// DefaultConfig returns a configuration for a single simulated node
func DefaultConfig() Config {
	return Config{
		Logger:          zerolog.Nop(),
		MeshLocalPrefix: netip.MustParsePrefix("fdde:ad00:beef:0::/64"),
		NetworkName:     DefaultNetworkName,
		MasterKey: []byte{
			0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
			0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		},
		AttachDelay:   DefaultAttachDelay,
		PartitionID:   0x4F3C2A71,
		ExtAddress:    [8]byte{0x18, 0xB4, 0x30, 0x00, 0x00, 0x00, 0x00, 0x01},
		ExtendedPANID: [8]byte{0xDE, 0xAD, 0x00, 0xBE, 0xEF, 0x00, 0xCA, 0xFE},
		PANID:         DefaultPANID,
		Channel:       DefaultChannel,
		NoiseFloor:    DefaultNoiseFloor,
	}
}

func (c *Config) normalize() {
	if !c.MeshLocalPrefix.IsValid() {
		c.MeshLocalPrefix = DefaultConfig().MeshLocalPrefix
	}
	c.MeshLocalPrefix = c.MeshLocalPrefix.Masked()
	if c.Channel == 0 {
		c.Channel = DefaultChannel
	}
	if c.MasterKey == nil {
		c.MasterKey = DefaultConfig().MasterKey
	}
	c.MasterKey = bytes.Clone(c.MasterKey)
	if c.ExtAddress == ([8]byte{}) {
		c.ExtAddress = DefaultConfig().ExtAddress
	}
}

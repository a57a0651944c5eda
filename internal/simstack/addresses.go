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

package simstack

import (
	"net/netip"

	ncp "github.com/ZaparooProject/go-ncp"
)

// Address lifetimes and RLOC16 values used by the simulation
const (
	infiniteLifetime = 0xFFFFFFFF
	meshLocalBits    = 64

	routerRLOC16 = 0x0400
	childRLOC16  = 0x0401
	// Leader of partitions the node joins rather than forms
	peerLeaderRLOC16 = 0x2800
)

var linkLocalPrefix = netip.MustParsePrefix("fe80::/64")

// addressWithIID joins the upper 64 bits of prefix with iid
func addressWithIID(prefix netip.Prefix, iid [8]byte) netip.Addr {
	a := prefix.Addr().As16()
	copy(a[8:], iid[:])
	return netip.AddrFrom16(a)
}

// linkLocalIID is the modified EUI-64 interface identifier
func linkLocalIID(ext [8]byte) [8]byte {
	ext[0] ^= 0x02
	return ext
}

// meshLocalIID derives a stable endpoint identifier from the extended address
func meshLocalIID(ext [8]byte) [8]byte {
	var iid [8]byte
	for i := range ext {
		iid[i] = ext[len(ext)-1-i]
	}
	iid[0] |= 0x02
	return iid
}

// locatorIID is 0000:00ff:fe00:RLOC16
func locatorIID(rloc16 uint16) [8]byte {
	return [8]byte{0, 0, 0, 0xFF, 0xFE, 0, byte(rloc16 >> 8), byte(rloc16)}
}

func netifAddress(addr netip.Addr, prefixLen uint8) ncp.NetifAddress {
	return ncp.NetifAddress{
		Address:           addr,
		PrefixLength:      prefixLen,
		PreferredLifetime: infiniteLifetime,
		ValidLifetime:     infiniteLifetime,
	}
}

// addressesFor returns the unicast addresses of a node in role
func addressesFor(role ncp.Role, ext [8]byte, prefix netip.Prefix, rloc16 uint16) []ncp.NetifAddress {
	if role == ncp.RoleDisabled {
		return nil
	}
	addrs := []ncp.NetifAddress{
		netifAddress(addressWithIID(linkLocalPrefix, linkLocalIID(ext)), 64),
		netifAddress(addressWithIID(prefix, meshLocalIID(ext)), meshLocalBits),
	}
	if role.Attached() {
		addrs = append(addrs, netifAddress(addressWithIID(prefix, locatorIID(rloc16)), meshLocalBits))
	}
	return addrs
}

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

type propertyGetter func(n *NCP, e *spinel.Encoder) error

// propertySetter applies value. When echo is true the dispatcher replies
// with a GET of the same key; otherwise the setter has replied itself.
type propertySetter func(n *NCP, h spinel.Header, value []byte) (echo bool, err error)

// property describes one catalog entry. A nil getter or setter answers
// with getStatus or setStatus instead.
type property struct {
	get       propertyGetter
	set       propertySetter
	format    string
	getStatus spinel.Status
	setStatus spinel.Status
}

var properties map[spinel.PropKey]property

func init() {
	properties = map[spinel.PropKey]property{
		spinel.PropLastStatus:      {format: "i", get: (*NCP).getLastStatus},
		spinel.PropProtocolVersion: {format: "iii", get: (*NCP).getProtocolVersion},
		spinel.PropCaps:            {format: "A(i)", get: (*NCP).getCaps},
		spinel.PropNCPVersion:      {format: "U", get: (*NCP).getNCPVersion},
		spinel.PropInterfaceCount:  {format: "C", get: (*NCP).getInterfaceCount},
		spinel.PropPowerState: {
			format:    "C",
			get:       (*NCP).getPowerState,
			setStatus: spinel.StatusUnimplemented,
		},
		spinel.PropHWAddr:           {format: "E", get: (*NCP).getExtendedAddress},
		spinel.PropPhyChan:          {format: "i", get: (*NCP).getChannel, set: (*NCP).setChannel},
		spinel.PropPhyFreq:          {getStatus: spinel.StatusUnimplemented},
		spinel.PropPhyTxPower:       {getStatus: spinel.StatusUnimplemented, setStatus: spinel.StatusUnimplemented},
		spinel.PropPhyRSSI:          {format: "c", get: (*NCP).getRSSI},
		spinel.PropMacScanState:     {format: "C", get: (*NCP).getScanState, set: (*NCP).setScanState},
		spinel.PropMacScanMask:      {getStatus: spinel.StatusUnimplemented, setStatus: spinel.StatusUnimplemented},
		spinel.PropMacScanBeacon:    {format: FormatScanBeacon},
		spinel.PropMac154LAddr:      {format: "E", get: (*NCP).getExtendedAddress},
		spinel.PropMac154SAddr:      {format: "S", get: (*NCP).getShortAddress},
		spinel.PropMac154PANID:      {format: "S", get: (*NCP).getPANID, set: (*NCP).setPANID},
		spinel.PropNetState:         {format: "C", get: (*NCP).getNetState, set: (*NCP).setNetState},
		spinel.PropNetRole:          {format: "C", get: (*NCP).getNetRole, set: (*NCP).setNetRole},
		spinel.PropNetNetworkName:   {format: "U", get: (*NCP).getNetworkName, set: (*NCP).setNetworkName},
		spinel.PropNetXPANID:        {format: "D", get: (*NCP).getExtendedPANID, set: (*NCP).setExtendedPANID},
		spinel.PropNetMasterKey:     {format: "D", get: (*NCP).getMasterKey, set: (*NCP).setMasterKey},
		spinel.PropNetKeySequence:   {format: "L", get: (*NCP).getKeySequence, set: (*NCP).setKeySequence},
		spinel.PropNetPartitionID:   {format: "L", get: (*NCP).getPartitionID},
		spinel.PropThreadLeader:     {format: "6", get: (*NCP).getLeaderAddress},
		spinel.PropIPv6MLPrefix:     {format: "6C", get: (*NCP).getMeshLocalPrefix, set: (*NCP).setMeshLocalPrefix},
		spinel.PropIPv6AddressTable: {format: FormatAddressTable, get: (*NCP).getAddressTable},
		spinel.PropIPv6RouteTable:   {getStatus: spinel.StatusUnimplemented},
		spinel.PropStreamDebug:      {format: "U"},
		spinel.PropStreamRaw:        {format: "D"},
		spinel.PropStreamNet:        {format: "D", set: (*NCP).setStreamNet},
		spinel.PropStreamNetInsecure: {
			format:    "D",
			setStatus: spinel.StatusUnimplemented,
		},
	}

	for key, prop := range properties {
		if prop.get == nil && prop.getStatus == spinel.StatusOK {
			prop.getStatus = spinel.StatusFailure
		}
		if prop.set == nil && prop.setStatus == spinel.StatusOK {
			prop.setStatus = spinel.StatusFailure
		}
		properties[key] = prop
	}
}

// Value layouts of the multi-field properties
const (
	FormatAddressEntry = "T(6CLL)"
	FormatAddressTable = "A(" + FormatAddressEntry + ")"
	FormatScanBeacon   = "icT(ESSC)T(iCUD.)"
)

// PropertyFormat returns the value layout of key, for hosts decoding replies.
func PropertyFormat(key spinel.PropKey) (string, bool) {
	prop, ok := properties[key]
	if !ok || prop.format == "" {
		return "", false
	}
	return prop.format, true
}

func (n *NCP) getLastStatus(e *spinel.Encoder) error {
	e.UintPacked(uint32(n.lastStatus))
	return nil
}

func (*NCP) getProtocolVersion(e *spinel.Encoder) error {
	e.UintPacked(spinel.ProtocolTypeThread).
		UintPacked(spinel.ProtocolVersionMajor).
		UintPacked(spinel.ProtocolVersionMinor)
	return nil
}

func (*NCP) getCaps(e *spinel.Encoder) error {
	e.UintPacked(spinel.CapRoleRouter)
	return nil
}

func (n *NCP) getNCPVersion(e *spinel.Encoder) error {
	e.UTF8(n.config.NCPVersion)
	return nil
}

func (*NCP) getInterfaceCount(e *spinel.Encoder) error {
	e.Uint8(1)
	return nil
}

func (*NCP) getPowerState(e *spinel.Encoder) error {
	e.Uint8(spinel.PowerStateOnline)
	return nil
}

func (n *NCP) getExtendedAddress(e *spinel.Encoder) error {
	e.EUI64(n.stack.ExtendedAddress())
	return nil
}

func (n *NCP) getShortAddress(e *spinel.Encoder) error {
	e.Uint16(n.stack.ShortAddress())
	return nil
}

func (n *NCP) getChannel(e *spinel.Encoder) error {
	e.UintPacked(uint32(n.stack.Channel()))
	return nil
}

func (n *NCP) getPANID(e *spinel.Encoder) error {
	e.Uint16(n.stack.PANID())
	return nil
}

func (n *NCP) getRSSI(e *spinel.Encoder) error {
	e.Int8(n.stack.NoiseFloor())
	return nil
}

func (n *NCP) getScanState(e *spinel.Encoder) error {
	if n.stack.ActiveScanInProgress() {
		e.Uint8(spinel.ScanStateBeacon)
		return nil
	}
	e.Uint8(spinel.ScanStateIdle)
	return nil
}

func (n *NCP) getNetState(e *spinel.Encoder) error {
	e.Uint8(netStateForRole(n.stack.DeviceRole()))
	return nil
}

func netStateForRole(role Role) uint8 {
	switch {
	case role == RoleDetached:
		return spinel.NetStateDetached
	case role.Attached():
		return spinel.NetStateAttached
	default:
		return spinel.NetStateOffline
	}
}

func (n *NCP) getNetRole(e *spinel.Encoder) error {
	var value uint8
	switch n.stack.DeviceRole() {
	case RoleChild:
		value = spinel.NetRoleChild
	case RoleRouter:
		value = spinel.NetRoleRouter
	case RoleLeader:
		value = spinel.NetRoleLeader
	default:
		value = spinel.NetRoleNone
	}
	e.Uint8(value)
	return nil
}

func (n *NCP) getNetworkName(e *spinel.Encoder) error {
	e.UTF8(n.stack.NetworkName())
	return nil
}

func (n *NCP) getExtendedPANID(e *spinel.Encoder) error {
	xpanid := n.stack.ExtendedPANID()
	e.Data(xpanid[:])
	return nil
}

func (n *NCP) getMasterKey(e *spinel.Encoder) error {
	e.Data(n.stack.MasterKey())
	return nil
}

func (n *NCP) getKeySequence(e *spinel.Encoder) error {
	e.Uint32(n.stack.KeySequenceCounter())
	return nil
}

func (n *NCP) getPartitionID(e *spinel.Encoder) error {
	e.Uint32(n.stack.PartitionID())
	return nil
}

func (n *NCP) getLeaderAddress(e *spinel.Encoder) error {
	addr, err := n.stack.LeaderAddress()
	if err != nil {
		return err
	}
	e.Addr(addr)
	return nil
}

// getMeshLocalPrefix writes the prefix and its length, or nothing when the
// stack has no prefix yet.
func (n *NCP) getMeshLocalPrefix(e *spinel.Encoder) error {
	prefix, ok := n.stack.MeshLocalPrefix()
	if !ok {
		return nil
	}
	e.Addr(prefix.Addr()).Uint8(uint8(prefix.Bits()))
	return nil
}

func (n *NCP) getAddressTable(e *spinel.Encoder) error {
	for _, addr := range n.stack.UnicastAddresses() {
		e.Struct(func(e *spinel.Encoder) {
			e.Addr(addr.Address).
				Uint8(addr.PrefixLength).
				Uint32(addr.PreferredLifetime).
				Uint32(addr.ValidLifetime)
		})
	}
	return nil
}

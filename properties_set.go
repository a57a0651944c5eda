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
	"fmt"

	"github.com/ZaparooProject/go-ncp/spinel"
)

const (
	extendedPANIDSize = 8
	maxMasterKeySize  = 16
	meshLocalBits     = 64
)

func (n *NCP) setChannel(_ spinel.Header, value []byte) (bool, error) {
	channel, err := spinel.NewDecoder(value).UintPacked()
	if err != nil {
		return false, err
	}
	if channel > 0xFF {
		return false, fmt.Errorf("%w: channel %d", ErrInvalidArgs, channel)
	}
	return true, n.stack.SetChannel(uint8(channel))
}

func (n *NCP) setPANID(_ spinel.Header, value []byte) (bool, error) {
	panid, err := spinel.NewDecoder(value).Uint16()
	if err != nil {
		return false, err
	}
	return true, n.stack.SetPANID(panid)
}

func (n *NCP) setNetworkName(_ spinel.Header, value []byte) (bool, error) {
	name, err := spinel.NewDecoder(value).UTF8()
	if err != nil {
		return false, err
	}
	return true, n.stack.SetNetworkName(name)
}

func (n *NCP) setExtendedPANID(_ spinel.Header, value []byte) (bool, error) {
	if len(value) != extendedPANIDSize {
		return false, fmt.Errorf("%w: extended PAN ID is %d bytes, want %d", ErrParse, len(value), extendedPANIDSize)
	}
	var xpanid [extendedPANIDSize]byte
	copy(xpanid[:], value)
	return true, n.stack.SetExtendedPANID(xpanid)
}

func (n *NCP) setMasterKey(_ spinel.Header, value []byte) (bool, error) {
	if len(value) > maxMasterKeySize {
		return false, fmt.Errorf("%w: master key is %d bytes, limit %d", ErrParse, len(value), maxMasterKeySize)
	}
	return true, n.stack.SetMasterKey(append([]byte(nil), value...))
}

func (n *NCP) setKeySequence(_ spinel.Header, value []byte) (bool, error) {
	counter, err := spinel.NewDecoder(value).Uint32()
	if err != nil {
		return false, err
	}
	return true, n.stack.SetKeySequenceCounter(counter)
}

func (n *NCP) setMeshLocalPrefix(_ spinel.Header, value []byte) (bool, error) {
	addr, err := spinel.NewDecoder(value).Addr()
	if err != nil {
		return false, err
	}
	prefix, err := addr.Prefix(meshLocalBits)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return true, n.stack.SetMeshLocalPrefix(prefix)
}

// setNetState drives the role state machine towards the requested state.
// A successful attach from the detached state is only started here, so the
// reply reports ATTACHING rather than echoing the current value.
func (n *NCP) setNetState(h spinel.Header, value []byte) (bool, error) {
	state, err := spinel.NewDecoder(value).UintPacked()
	if err != nil {
		return false, err
	}

	switch state {
	case spinel.NetStateOffline:
		if n.stack.DeviceRole() != RoleDisabled {
			return true, n.stack.Disable()
		}
		return true, nil

	case spinel.NetStateDetached:
		switch n.stack.DeviceRole() {
		case RoleDisabled:
			if err := n.stack.Enable(); err != nil {
				return false, err
			}
			return true, n.stack.BecomeDetached()
		case RoleDetached:
			return true, nil
		default:
			return true, n.stack.BecomeDetached()
		}

	case spinel.NetStateAttaching, spinel.NetStateAttached:
		if n.stack.DeviceRole() == RoleDisabled {
			if err := n.stack.Enable(); err != nil {
				return false, err
			}
		}
		if n.stack.DeviceRole() != RoleDetached {
			return true, nil
		}
		if err := n.stack.BecomeRouter(); err != nil {
			return false, err
		}
		n.sendNetStateAttaching(h)
		return false, nil

	default:
		return false, fmt.Errorf("%w: net state %d", ErrInvalidArgs, state)
	}
}

// sendNetStateAttaching reports ATTACHING even when the reply is deferred,
// since the stack still reads DETACHED until the attach completes.
func (n *NCP) sendNetStateAttaching(h spinel.Header) {
	n.emitValue(h, spinel.PropNetState, spinel.NetStateAttaching)
}

func (n *NCP) setNetRole(_ spinel.Header, value []byte) (bool, error) {
	role, err := spinel.NewDecoder(value).UintPacked()
	if err != nil {
		return false, err
	}

	switch role {
	case spinel.NetRoleChild:
		return true, n.stack.BecomeChild()
	case spinel.NetRoleRouter:
		return true, n.stack.BecomeRouter()
	case spinel.NetRoleLeader:
		return true, n.stack.BecomeLeader()
	default:
		return false, fmt.Errorf("%w: net role %d", ErrInvalidArgs, role)
	}
}

func (n *NCP) setScanState(_ spinel.Header, value []byte) (bool, error) {
	state, err := spinel.NewDecoder(value).UintPacked()
	if err != nil {
		return false, err
	}

	switch state {
	case spinel.ScanStateIdle:
		return true, nil
	case spinel.ScanStateBeacon:
		return true, n.stack.ActiveScan(n.config.ChannelMask, n.config.ScanDuration, n)
	case spinel.ScanStateEnergy:
		return false, fmt.Errorf("%w: energy scan", ErrNotImplemented)
	default:
		return false, fmt.Errorf("%w: scan state %d", ErrInvalidArgs, state)
	}
}

// setStreamNet hands an outbound datagram to the stack. Success is only
// acknowledged when the host asked for a reply by setting a TID.
func (n *NCP) setStreamNet(h spinel.Header, value []byte) (bool, error) {
	msg, err := n.pool.NewWithData(value)
	if err != nil {
		return false, err
	}
	if err := n.stack.HandleDatagram(msg); err != nil {
		return false, err
	}
	if h.TID() != 0 {
		n.sendLastStatus(h, spinel.StatusOK)
	}
	return false, nil
}

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

package testing

import (
	"fmt"

	"github.com/ZaparooProject/go-ncp/spinel"
)

// Reply is a decoded frame sent by the NCP
type Reply struct {
	Payload []byte
	Header  spinel.Header
	Command spinel.Command
	Key     spinel.PropKey
}

// Status decodes the payload of a LAST_STATUS reply
func (r Reply) Status() (spinel.Status, error) {
	if r.Key != spinel.PropLastStatus {
		return 0, fmt.Errorf("reply carries %s, not LAST_STATUS", r.Key)
	}
	v, err := spinel.NewDecoder(r.Payload).UintPacked()
	return spinel.Status(v), err
}

// Unsolicited reports whether the frame was sent without a host request
func (r Reply) Unsolicited() bool {
	return r.Header.TID() == 0
}

// ParseReply splits frame into header, command, property key and payload.
// Commands without a key leave Key zero and Payload holding the rest.
func ParseReply(frame []byte) (Reply, error) {
	d := spinel.NewDecoder(frame)
	h, err := d.Header()
	if err != nil {
		return Reply{}, err
	}
	cmd, err := d.Command()
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Header: h, Command: cmd}
	if cmd.IsPropertyCommand() {
		if r.Key, err = d.PropKey(); err != nil {
			return Reply{}, err
		}
	}
	r.Payload = append([]byte(nil), d.Rest()...)
	return r, nil
}

// BuildNoop creates a NOOP command
func BuildNoop(tid uint8) []byte {
	return spinel.NewEncoder(0).FrameHeader(spinel.NewHeader(0, tid), spinel.CmdNoop, 0).Bytes()
}

// BuildReset creates a RESET command
func BuildReset(tid uint8) []byte {
	return spinel.NewEncoder(0).FrameHeader(spinel.NewHeader(0, tid), spinel.CmdReset, 0).Bytes()
}

// BuildGet creates a PROP_VALUE_GET for key
func BuildGet(tid uint8, key spinel.PropKey) []byte {
	return spinel.NewEncoder(0).FrameHeader(spinel.NewHeader(0, tid), spinel.CmdPropValueGet, key).Bytes()
}

// BuildSet creates a PROP_VALUE_SET for key carrying value verbatim
func BuildSet(tid uint8, key spinel.PropKey, value []byte) []byte {
	return spinel.NewEncoder(0).FrameHeader(spinel.NewHeader(0, tid), spinel.CmdPropValueSet, key).Raw(value).Bytes()
}

// BuildSetPacked creates a PROP_VALUE_SET whose value is a packed integer,
// the encoding used for channel, net state, role and scan state.
func BuildSetPacked(tid uint8, key spinel.PropKey, v uint32) []byte {
	return BuildSet(tid, key, spinel.AppendPackedUint(nil, v))
}

// Sample values shared by tests
var (
	// TestDatagram is a minimal IPv6 header followed by a short payload
	TestDatagram = []byte{
		0x60, 0x00, 0x00, 0x00, 0x00, 0x04, 0x11, 0x40,
		0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
		0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02,
		0xde, 0xad, 0xbe, 0xef,
	}

	// TestMasterKey is a full-length network master key
	TestMasterKey = []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
		0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
	}
)

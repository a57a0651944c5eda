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
	"errors"

	"github.com/ZaparooProject/go-ncp/spinel"
)

// handleReceive validates one inbound frame and dispatches its command.
func (n *NCP) handleReceive(frame []byte) {
	n.metrics.frameReceived()

	d := spinel.NewDecoder(frame)
	h, err := d.Header()
	if err != nil {
		n.log.Debug().Msg("ignoring empty frame")
		n.metrics.frameDropped(dropInvalidHeader)
		return
	}
	if !h.Valid() {
		n.log.Debug().Stringer("header", h).Msg("ignoring frame without valid flag")
		n.metrics.frameDropped(dropInvalidHeader)
		return
	}

	// Other interfaces are refused before anything past the header is read
	if h.IID() != 0 {
		n.reject(h, &CommandError{Op: "dispatch", Status: spinel.StatusInvalidInterface})
		return
	}

	cmd, err := d.Command()
	if err != nil {
		n.reject(h, &CommandError{Op: "decode", Status: spinel.StatusParseError, Err: err})
		return
	}

	n.log.Debug().Stringer("cmd", cmd).Uint8("tid", h.TID()).Int("len", len(frame)).Msg("frame received")
	n.handleCommand(h, cmd, d)
}

func (n *NCP) handleCommand(h spinel.Header, cmd spinel.Command, d *spinel.Decoder) {
	switch cmd {
	case spinel.CmdNoop:
		n.sendLastStatus(h, spinel.StatusOK)

	case spinel.CmdReset:
		// The reset notice is unsolicited, so it carries TID 0.
		n.sendLastStatus(spinel.NewHeader(0, 0), spinel.StatusResetSoftware)

	case spinel.CmdPropValueGet, spinel.CmdPropValueSet,
		spinel.CmdPropValueInsert, spinel.CmdPropValueRemove:
		key, err := d.PropKey()
		if err != nil {
			n.reject(h, &CommandError{Op: "decode", Command: cmd, Status: spinel.StatusParseError, Err: err})
			return
		}
		switch cmd {
		case spinel.CmdPropValueGet:
			n.handlePropertyGet(h, key)
		case spinel.CmdPropValueSet:
			n.handlePropertySet(h, key, d.Data())
		default:
			n.reject(h, &CommandError{Op: "dispatch", Command: cmd, Key: key, Status: spinel.StatusUnimplemented})
		}

	default:
		n.reject(h, &CommandError{Op: "dispatch", Command: cmd, Status: spinel.StatusInvalidCommand})
	}
}

// reject answers the command under h with the status carried by err.
func (n *NCP) reject(h spinel.Header, err error) {
	status := StatusFromError(err)
	n.log.Debug().Err(err).Uint8("tid", h.TID()).Stringer("status", status).Msg("command rejected")
	n.sendLastStatus(h, status)
}

// handlePropertyGet replies with the current value of key, or defers the
// request when a frame is in flight.
func (n *NCP) handlePropertyGet(h spinel.Header, key spinel.PropKey) {
	if n.sending {
		n.deferGet(h, key)
		return
	}

	prop, ok := properties[key]
	if !ok {
		n.reject(h, &CommandError{Op: "get", Command: spinel.CmdPropValueGet, Key: key, Status: spinel.StatusPropertyNotFound})
		return
	}
	if prop.get == nil {
		n.reject(h, &CommandError{Op: "get", Command: spinel.CmdPropValueGet, Key: key, Status: prop.getStatus})
		return
	}

	e := n.newFrame(h, spinel.CmdPropValueIs, key)
	err := prop.get(n, e)
	if err == nil {
		err = e.Err()
	}
	if err != nil && !errors.Is(err, spinel.ErrEncodingOverflow) {
		n.reject(h, &CommandError{Op: "get", Command: spinel.CmdPropValueGet, Key: key, Status: StatusFromError(err), Err: err})
		return
	}
	n.sendEncoded(e, spinel.CmdPropValueIs, key, nil)
}

// handlePropertySet applies value to key and echoes the result. Setters
// that answer on their own return echo=false.
func (n *NCP) handlePropertySet(h spinel.Header, key spinel.PropKey, value []byte) {
	prop, ok := properties[key]
	if !ok {
		n.reject(h, &CommandError{Op: "set", Command: spinel.CmdPropValueSet, Key: key, Status: spinel.StatusPropertyNotFound})
		return
	}
	if prop.set == nil {
		n.reject(h, &CommandError{Op: "set", Command: spinel.CmdPropValueSet, Key: key, Status: prop.setStatus})
		return
	}

	echo, err := prop.set(n, h, value)
	if err != nil {
		n.reject(h, &CommandError{Op: "set", Command: spinel.CmdPropValueSet, Key: key, Status: StatusFromError(err), Err: err})
		return
	}
	if echo {
		n.handlePropertyGet(h, key)
	}
}

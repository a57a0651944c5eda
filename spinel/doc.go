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

// Package spinel implements the Spinel wire format: the frame header, the
// command, status and property catalogs, and a codec for the self-describing
// typed field encoding used in property payloads.
//
// Fields are written with an Encoder, which owns a bounded buffer and reports
// overflow as ErrEncodingOverflow instead of truncating:
//
//	e := spinel.NewEncoder(spinel.DefaultMaxFrameSize)
//	e.FrameHeader(spinel.NewHeader(0, 1), spinel.CmdPropValueIs, spinel.PropPhyChan)
//	e.UintPacked(15)
//	if err := e.Err(); err != nil {
//	    return err
//	}
//
// Format strings describe the same fields declaratively and are used with the
// tagged Value types:
//
//	buf, err := spinel.Pack("T(6CLL)", spinel.Struct{addr, spinel.Uint8(64), spinel.Uint32(0), spinel.Uint32(0)})
//	values, n, err := spinel.Unpack(buf, "T(6CLL)")
package spinel

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

// Package hdlc implements the HDLC-lite framing that carries Spinel frames
// over a byte stream.
//
// Wire format:
//
//	FLAG (0x7E)
//	[escaped bytes of]
//	  frame : Spinel frame
//	  fcs   : uint16 LE, CRC-16/X.25 over frame
//	FLAG (0x7E)
//
// Reserved bytes inside a frame are sent as ESC (0x7D) followed by the byte
// XOR 0x20.
package hdlc

// Frame markers and control bytes
const (
	FlagSequence = 0x7E // Frame delimiter
	EscapeByte   = 0x7D // Escapes the following byte
	EscapeXor    = 0x20 // Applied to escaped bytes
	XOn          = 0x11 // Software flow control, always escaped
	XOff         = 0x13 // Software flow control, always escaped
	Vendor       = 0xF8 // Reserved, always escaped
)

// Frame size limits
const (
	FCSSize         = 2
	DefaultMaxFrame = 2048 // Largest unescaped frame accepted, excluding FCS
)

func needsEscape(b byte) bool {
	switch b {
	case FlagSequence, EscapeByte, XOn, XOff, Vendor:
		return true
	default:
		return false
	}
}

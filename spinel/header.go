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

package spinel

import "fmt"

// Header is the first byte of every frame.
type Header byte

// NewHeader builds a valid header for the given interface and transaction id.
func NewHeader(iid, tid uint8) Header {
	return Header(HeaderFlag | (iid<<HeaderIIDShift)&HeaderIIDMask | tid&HeaderTIDMask)
}

// Valid reports whether the framing-valid flag is set.
func (h Header) Valid() bool {
	return byte(h)&HeaderFlag == HeaderFlag
}

// IID returns the interface identifier.
func (h Header) IID() uint8 {
	return (byte(h) & HeaderIIDMask) >> HeaderIIDShift
}

// TID returns the transaction identifier. Zero means no reply is expected.
func (h Header) TID() uint8 {
	return byte(h) & HeaderTIDMask
}

func (h Header) String() string {
	return fmt.Sprintf("0x%02X(iid=%d,tid=%d)", byte(h), h.IID(), h.TID())
}

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

package hdlc

// FCS initial value and the residue of a frame whose FCS checks out.
const (
	fcsInit = 0xFFFF
	fcsGood = 0xF0B8
)

var fcsTable = func() [256]uint16 {
	var table [256]uint16
	for i := range table {
		v := uint16(i)
		for range 8 {
			if v&1 != 0 {
				v = v>>1 ^ 0x8408
			} else {
				v >>= 1
			}
		}
		table[i] = v
	}
	return table
}()

func fcsUpdate(fcs uint16, b byte) uint16 {
	return fcs>>8 ^ fcsTable[byte(fcs)^b]
}

// FCS returns the CRC-16/X.25 frame check sequence of data.
func FCS(data []byte) uint16 {
	fcs := uint16(fcsInit)
	for _, b := range data {
		fcs = fcsUpdate(fcs, b)
	}
	return fcs ^ 0xFFFF
}

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

// AppendPackedUint appends v using the packed unsigned integer encoding:
// seven bits per byte, least significant group first, MSB set on every
// byte except the last.
func AppendPackedUint(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// PackedUintSize returns the encoded length of v.
func PackedUintSize(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodePackedUint decodes a packed unsigned integer from the start of buf
// and returns the value and the number of bytes consumed.
func DecodePackedUint(buf []byte) (uint32, int, error) {
	var value uint64
	for i := 0; i < len(buf); i++ {
		if i >= MaxPackedUintSize {
			return 0, 0, errPackedTooLong
		}
		value |= uint64(buf[i]&0x7F) << (7 * uint(i))
		if buf[i]&0x80 == 0 {
			if value > 0xFFFFFFFF {
				return 0, 0, errPackedRange
			}
			return uint32(value), i + 1, nil
		}
	}
	return 0, 0, errShortBuffer
}

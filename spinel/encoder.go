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

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"
)

// DefaultMaxFrameSize is the largest frame the encoder builds unless told otherwise.
const DefaultMaxFrameSize = 1300

// Encoder builds a Spinel payload into an owned, bounded buffer.
//
// Every write checks the limit first. The first failure is recorded and all
// later writes become no-ops, so a caller can chain writes and check Err once.
// A failed encoder never yields a truncated frame: Bytes returns nil.
type Encoder struct {
	err   error
	buf   []byte
	limit int
}

// NewEncoder returns an encoder that refuses to grow beyond limit bytes.
// A limit of zero or less selects DefaultMaxFrameSize.
func NewEncoder(limit int) *Encoder {
	if limit <= 0 {
		limit = DefaultMaxFrameSize
	}
	return &Encoder{limit: limit, buf: make([]byte, 0, min(limit, 64))}
}

// Err returns the first error recorded by the encoder.
func (e *Encoder) Err() error {
	return e.err
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Limit returns the encoder capacity.
func (e *Encoder) Limit() int {
	return e.limit
}

// Bytes returns the encoded bytes, or nil if any write failed.
func (e *Encoder) Bytes() []byte {
	if e.err != nil {
		return nil
	}
	return e.buf
}

// Reset clears the buffer and any recorded error, keeping the limit.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
	e.err = nil
}

func (e *Encoder) reserve(n int) bool {
	if e.err != nil {
		return false
	}
	if len(e.buf)+n > e.limit {
		e.err = fmt.Errorf("%w: need %d bytes, %d of %d used", ErrEncodingOverflow, n, len(e.buf), e.limit)
		return false
	}
	return true
}

// FrameHeader writes the header byte, command and, for property commands, the key.
func (e *Encoder) FrameHeader(h Header, cmd Command, key PropKey) *Encoder {
	e.Uint8(byte(h))
	e.UintPacked(uint32(cmd))
	if cmd.IsPropertyCommand() {
		e.UintPacked(uint32(key))
	}
	return e
}

// Bool writes a single byte 0 or 1.
func (e *Encoder) Bool(v bool) *Encoder {
	if v {
		return e.Uint8(1)
	}
	return e.Uint8(0)
}

// Uint8 writes one byte.
func (e *Encoder) Uint8(v uint8) *Encoder {
	if e.reserve(1) {
		e.buf = append(e.buf, v)
	}
	return e
}

// Int8 writes one signed byte.
func (e *Encoder) Int8(v int8) *Encoder {
	return e.Uint8(uint8(v))
}

// Uint16 writes a little-endian uint16.
func (e *Encoder) Uint16(v uint16) *Encoder {
	if e.reserve(2) {
		e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
	}
	return e
}

// Int16 writes a little-endian int16.
func (e *Encoder) Int16(v int16) *Encoder {
	return e.Uint16(uint16(v))
}

// Uint32 writes a little-endian uint32.
func (e *Encoder) Uint32(v uint32) *Encoder {
	if e.reserve(4) {
		e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
	}
	return e
}

// Int32 writes a little-endian int32.
func (e *Encoder) Int32(v int32) *Encoder {
	return e.Uint32(uint32(v))
}

// UintPacked writes a packed unsigned integer.
func (e *Encoder) UintPacked(v uint32) *Encoder {
	if e.reserve(PackedUintSize(v)) {
		e.buf = AppendPackedUint(e.buf, v)
	}
	return e
}

// IPv6 writes a 16-byte address.
func (e *Encoder) IPv6(addr [16]byte) *Encoder {
	return e.Raw(addr[:])
}

// Addr writes a netip address as 16 bytes. IPv4 addresses are written in
// their IPv4-mapped form.
func (e *Encoder) Addr(addr netip.Addr) *Encoder {
	return e.IPv6(addr.As16())
}

// EUI64 writes an 8-byte extended address.
func (e *Encoder) EUI64(v [8]byte) *Encoder {
	return e.Raw(v[:])
}

// EUI48 writes a 6-byte MAC address.
func (e *Encoder) EUI48(v [6]byte) *Encoder {
	return e.Raw(v[:])
}

// UTF8 writes a NUL-terminated string. A string containing NUL would not
// decode back whole, so it fails the encoder instead.
func (e *Encoder) UTF8(s string) *Encoder {
	if i := strings.IndexByte(s, 0); i >= 0 {
		if e.err == nil {
			e.err = fmt.Errorf("%w: string has NUL at byte %d", ErrInvalidValue, i)
		}
		return e
	}
	if e.reserve(len(s) + 1) {
		e.buf = append(e.buf, s...)
		e.buf = append(e.buf, 0)
	}
	return e
}

// Data writes raw bytes without a length prefix. It is only decodable as the
// last field of its scope.
func (e *Encoder) Data(b []byte) *Encoder {
	return e.Raw(b)
}

// DataWithLen writes a uint16 length prefix followed by the bytes.
func (e *Encoder) DataWithLen(b []byte) *Encoder {
	if len(b) > 0xFFFF {
		if e.err == nil {
			e.err = fmt.Errorf("%w: data length %d exceeds 65535", ErrEncodingOverflow, len(b))
		}
		return e
	}
	e.Uint16(uint16(len(b)))
	return e.Raw(b)
}

// Raw appends bytes verbatim.
func (e *Encoder) Raw(b []byte) *Encoder {
	if e.reserve(len(b)) {
		e.buf = append(e.buf, b...)
	}
	return e
}

// Struct writes a uint16 length prefix followed by whatever fn encodes.
func (e *Encoder) Struct(fn func(*Encoder)) *Encoder {
	if !e.reserve(2) {
		return e
	}
	start := len(e.buf)
	e.buf = append(e.buf, 0, 0)
	fn(e)
	if e.err != nil {
		return e
	}
	n := len(e.buf) - start - 2
	if n > 0xFFFF {
		e.err = fmt.Errorf("%w: struct length %d exceeds 65535", ErrEncodingOverflow, n)
		return e
	}
	binary.LittleEndian.PutUint16(e.buf[start:], uint16(n))
	return e
}

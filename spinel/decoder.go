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
	"bytes"
	"encoding/binary"
	"net/netip"
)

// Decoder reads Spinel fields sequentially from a byte slice.
// Slices it returns alias the input buffer.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// Offset returns the number of bytes consumed.
func (d *Decoder) Offset() int {
	return d.off
}

// Rest returns the unread bytes without consuming them.
func (d *Decoder) Rest() []byte {
	return d.buf[d.off:]
}

func (d *Decoder) take(field string, n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, newParseError(field, d.off, errShortBuffer)
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

// Header reads the header byte.
func (d *Decoder) Header() (Header, error) {
	b, err := d.take("header", 1)
	if err != nil {
		return 0, err
	}
	return Header(b[0]), nil
}

// Bool reads a one-byte boolean. Any non-zero value is true.
func (d *Decoder) Bool() (bool, error) {
	b, err := d.take("bool", 1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// Uint8 reads one byte.
func (d *Decoder) Uint8() (uint8, error) {
	b, err := d.take("uint8", 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads one signed byte.
func (d *Decoder) Int8() (int8, error) {
	v, err := d.Uint8()
	return int8(v), err
}

// Uint16 reads a little-endian uint16.
func (d *Decoder) Uint16() (uint16, error) {
	b, err := d.take("uint16", 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Int16 reads a little-endian int16.
func (d *Decoder) Int16() (int16, error) {
	v, err := d.Uint16()
	return int16(v), err
}

// Uint32 reads a little-endian uint32.
func (d *Decoder) Uint32() (uint32, error) {
	b, err := d.take("uint32", 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Int32 reads a little-endian int32.
func (d *Decoder) Int32() (int32, error) {
	v, err := d.Uint32()
	return int32(v), err
}

// UintPacked reads a packed unsigned integer.
func (d *Decoder) UintPacked() (uint32, error) {
	v, n, err := DecodePackedUint(d.Rest())
	if err != nil {
		return 0, newParseError("packed uint", d.off, err)
	}
	d.off += n
	return v, nil
}

// Command reads a packed command identifier.
func (d *Decoder) Command() (Command, error) {
	v, err := d.UintPacked()
	return Command(v), err
}

// PropKey reads a packed property key.
func (d *Decoder) PropKey() (PropKey, error) {
	v, err := d.UintPacked()
	return PropKey(v), err
}

// IPv6 reads a 16-byte address.
func (d *Decoder) IPv6() ([16]byte, error) {
	var addr [16]byte
	b, err := d.take("ipv6 address", 16)
	if err != nil {
		return addr, err
	}
	copy(addr[:], b)
	return addr, nil
}

// Addr reads a 16-byte address as a netip.Addr.
func (d *Decoder) Addr() (netip.Addr, error) {
	a, err := d.IPv6()
	if err != nil {
		return netip.Addr{}, err
	}
	return netip.AddrFrom16(a), nil
}

// EUI64 reads an 8-byte extended address.
func (d *Decoder) EUI64() ([8]byte, error) {
	var v [8]byte
	b, err := d.take("eui64", 8)
	if err != nil {
		return v, err
	}
	copy(v[:], b)
	return v, nil
}

// EUI48 reads a 6-byte MAC address.
func (d *Decoder) EUI48() ([6]byte, error) {
	var v [6]byte
	b, err := d.take("eui48", 6)
	if err != nil {
		return v, err
	}
	copy(v[:], b)
	return v, nil
}

// UTF8 reads a NUL-terminated string.
func (d *Decoder) UTF8() (string, error) {
	i := bytes.IndexByte(d.Rest(), 0)
	if i < 0 {
		return "", newParseError("utf8", d.off, errMissingNUL)
	}
	s := string(d.buf[d.off : d.off+i])
	d.off += i + 1
	return s, nil
}

// Data consumes and returns all remaining bytes.
func (d *Decoder) Data() []byte {
	b := d.buf[d.off:]
	d.off = len(d.buf)
	return b
}

// DataWithLen reads a uint16 length prefix and that many bytes.
func (d *Decoder) DataWithLen() ([]byte, error) {
	start := d.off
	n, err := d.Uint16()
	if err != nil {
		return nil, err
	}
	if int(n) > d.Remaining() {
		d.off = start
		return nil, newParseError("data", start, errLengthTooLong)
	}
	return d.take("data", int(n))
}

// Struct reads a uint16 length prefix and returns a decoder limited to the
// struct body.
func (d *Decoder) Struct() (*Decoder, error) {
	start := d.off
	n, err := d.Uint16()
	if err != nil {
		return nil, err
	}
	if int(n) > d.Remaining() {
		d.off = start
		return nil, newParseError("struct", start, errLengthTooLong)
	}
	body, _ := d.take("struct", int(n))
	return NewDecoder(body), nil
}

// Done returns an error if unread bytes remain.
func (d *Decoder) Done() error {
	if d.Remaining() != 0 {
		return newParseError("end", d.off, errTrailingBytes)
	}
	return nil
}

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
	"errors"
	"fmt"
)

// Value is one typed field of a packed sequence. The concrete types below
// are the only implementations; each corresponds to one format character.
type Value interface {
	format() byte
}

type (
	// Bool is format 'b'.
	Bool bool
	// Uint8 is format 'C'.
	Uint8 uint8
	// Int8 is format 'c'.
	Int8 int8
	// Uint16 is format 'S'.
	Uint16 uint16
	// Int16 is format 's'.
	Int16 int16
	// Uint32 is format 'L'.
	Uint32 uint32
	// Int32 is format 'l'.
	Int32 int32
	// UintPacked is format 'i'.
	UintPacked uint32
	// IPv6Addr is format '6'.
	IPv6Addr [16]byte
	// EUI64 is format 'E'.
	EUI64 [8]byte
	// EUI48 is format 'e'.
	EUI48 [6]byte
	// UTF8 is format 'U'.
	UTF8 string
	// Data is format 'D'.
	Data []byte
	// LenData is format 'd'.
	LenData []byte
	// Struct is format 'T(...)'.
	Struct []Value
	// Array is format 'A(...)'; each element holds the values of one repetition.
	Array [][]Value
)

func (Bool) format() byte       { return 'b' }
func (Uint8) format() byte      { return 'C' }
func (Int8) format() byte       { return 'c' }
func (Uint16) format() byte     { return 'S' }
func (Int16) format() byte      { return 's' }
func (Uint32) format() byte     { return 'L' }
func (Int32) format() byte      { return 'l' }
func (UintPacked) format() byte { return 'i' }
func (IPv6Addr) format() byte   { return '6' }
func (EUI64) format() byte      { return 'E' }
func (EUI48) format() byte      { return 'e' }
func (UTF8) format() byte       { return 'U' }
func (Data) format() byte       { return 'D' }
func (LenData) format() byte    { return 'd' }
func (Struct) format() byte     { return 'T' }
func (Array) format() byte      { return 'A' }

// Format characters
const (
	FormatVoid       = "."
	FormatBool       = "b"
	FormatUint8      = "C"
	FormatInt8       = "c"
	FormatUint16     = "S"
	FormatInt16      = "s"
	FormatUint32     = "L"
	FormatInt32      = "l"
	FormatUintPacked = "i"
	FormatIPv6       = "6"
	FormatEUI64      = "E"
	FormatEUI48      = "e"
	FormatUTF8       = "U"
	FormatData       = "D"
	FormatLenData    = "d"
)

var errBadFormat = errors.New("malformed format string")

type formatNode struct {
	children []formatNode
	kind     byte
}

// parseFormat turns a format string into a tree of fields.
func parseFormat(format string) ([]formatNode, error) {
	nodes, rest, err := parseFormatSeq(format, false)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("%w: %w %q", ErrInternal, errBadFormat, format)
	}
	return nodes, nil
}

func parseFormatSeq(format string, nested bool) ([]formatNode, string, error) {
	var nodes []formatNode
	for len(format) > 0 {
		c := format[0]
		format = format[1:]
		switch c {
		case ')':
			if !nested {
				return nil, "", fmt.Errorf("%w: %w: unbalanced ')'", ErrInternal, errBadFormat)
			}
			return nodes, format, nil
		case '.':
			// void: no value
		case 'b', 'C', 'c', 'S', 's', 'L', 'l', 'i', '6', 'E', 'e', 'U', 'D', 'd':
			nodes = append(nodes, formatNode{kind: c})
		case 'T', 'A':
			if len(format) == 0 || format[0] != '(' {
				return nil, "", fmt.Errorf("%w: %w: %q needs '('", ErrInternal, errBadFormat, c)
			}
			children, rest, err := parseFormatSeq(format[1:], true)
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, formatNode{kind: c, children: children})
			format = rest
		default:
			return nil, "", fmt.Errorf("%w: %w: unknown type %q", ErrInternal, errBadFormat, c)
		}
	}
	if nested {
		return nil, "", fmt.Errorf("%w: %w: missing ')'", ErrInternal, errBadFormat)
	}
	return nodes, "", nil
}

// Pack encodes values according to format using an encoder limited to
// DefaultMaxFrameSize.
func Pack(format string, values ...Value) ([]byte, error) {
	e := NewEncoder(DefaultMaxFrameSize)
	if err := e.Pack(format, values...); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Pack appends values according to format.
func (e *Encoder) Pack(format string, values ...Value) error {
	nodes, err := parseFormat(format)
	if err != nil {
		return err
	}
	if err := e.packNodes(nodes, values); err != nil {
		return err
	}
	return e.err
}

func (e *Encoder) packNodes(nodes []formatNode, values []Value) error {
	if len(nodes) != len(values) {
		return fmt.Errorf("%w: format has %d fields, got %d values", ErrInternal, len(nodes), len(values))
	}
	for i, node := range nodes {
		if err := e.packNode(node, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) packNode(node formatNode, value Value) error {
	if value == nil || value.format() != node.kind {
		return fmt.Errorf("%w: value %T does not match format %q", ErrInternal, value, node.kind)
	}
	switch v := value.(type) {
	case Bool:
		e.Bool(bool(v))
	case Uint8:
		e.Uint8(uint8(v))
	case Int8:
		e.Int8(int8(v))
	case Uint16:
		e.Uint16(uint16(v))
	case Int16:
		e.Int16(int16(v))
	case Uint32:
		e.Uint32(uint32(v))
	case Int32:
		e.Int32(int32(v))
	case UintPacked:
		e.UintPacked(uint32(v))
	case IPv6Addr:
		e.IPv6(v)
	case EUI64:
		e.EUI64(v)
	case EUI48:
		e.EUI48(v)
	case UTF8:
		e.UTF8(string(v))
	case Data:
		e.Data(v)
	case LenData:
		e.DataWithLen(v)
	case Struct:
		var inner error
		e.Struct(func(se *Encoder) {
			inner = se.packNodes(node.children, v)
		})
		if inner != nil {
			return inner
		}
	case Array:
		for _, elem := range v {
			if err := e.packNodes(node.children, elem); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unpack decodes buf according to format. It returns the decoded values and
// the number of bytes consumed. Trailing bytes beyond the format are left
// unconsumed and are not an error.
func Unpack(buf []byte, format string) ([]Value, int, error) {
	nodes, err := parseFormat(format)
	if err != nil {
		return nil, 0, err
	}
	d := NewDecoder(buf)
	values, err := d.unpackNodes(nodes)
	if err != nil {
		return nil, 0, err
	}
	return values, d.Offset(), nil
}

func (d *Decoder) unpackNodes(nodes []formatNode) ([]Value, error) {
	values := make([]Value, 0, len(nodes))
	for _, node := range nodes {
		v, err := d.unpackNode(node)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

//nolint:gocyclo // one arm per format character
func (d *Decoder) unpackNode(node formatNode) (Value, error) {
	switch node.kind {
	case 'b':
		v, err := d.Bool()
		return Bool(v), err
	case 'C':
		v, err := d.Uint8()
		return Uint8(v), err
	case 'c':
		v, err := d.Int8()
		return Int8(v), err
	case 'S':
		v, err := d.Uint16()
		return Uint16(v), err
	case 's':
		v, err := d.Int16()
		return Int16(v), err
	case 'L':
		v, err := d.Uint32()
		return Uint32(v), err
	case 'l':
		v, err := d.Int32()
		return Int32(v), err
	case 'i':
		v, err := d.UintPacked()
		return UintPacked(v), err
	case '6':
		v, err := d.IPv6()
		return IPv6Addr(v), err
	case 'E':
		v, err := d.EUI64()
		return EUI64(v), err
	case 'e':
		v, err := d.EUI48()
		return EUI48(v), err
	case 'U':
		v, err := d.UTF8()
		return UTF8(v), err
	case 'D':
		return Data(d.Data()), nil
	case 'd':
		v, err := d.DataWithLen()
		return LenData(v), err
	case 'T':
		sub, err := d.Struct()
		if err != nil {
			return nil, err
		}
		values, err := sub.unpackNodes(node.children)
		if err != nil {
			return nil, err
		}
		return Struct(values), nil
	case 'A':
		var elems [][]Value
		for d.Remaining() > 0 {
			start := d.Offset()
			values, err := d.unpackNodes(node.children)
			if err != nil {
				return nil, err
			}
			if d.Offset() == start {
				return nil, newParseError("array", start, errBadFormat)
			}
			elems = append(elems, values)
		}
		return Array(elems), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", ErrInternal, node.kind)
}

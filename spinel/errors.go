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

// Codec errors
var (
	ErrParse            = errors.New("spinel: parse error")
	ErrEncodingOverflow = errors.New("spinel: encoding overflow")
	ErrInternal         = errors.New("spinel: internal error")
	ErrInvalidValue     = errors.New("spinel: value cannot be encoded")
)

// ParseError describes where decoding failed.
type ParseError struct {
	Err    error
	Field  string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("spinel: cannot decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

// Unwrap returns ErrParse so callers can use errors.Is.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

func newParseError(field string, offset int, err error) *ParseError {
	return &ParseError{Field: field, Offset: offset, Err: err}
}

var (
	errShortBuffer   = errors.New("buffer too short")
	errLengthTooLong = errors.New("declared length exceeds buffer")
	errPackedTooLong = errors.New("packed integer too long")
	errPackedRange   = errors.New("packed integer overflows 32 bits")
	errMissingNUL    = errors.New("missing NUL terminator")
	errTrailingBytes = errors.New("unexpected trailing bytes")
)

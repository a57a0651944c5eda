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

//go:build !linux

package pty

import (
	"github.com/ZaparooProject/go-ncp/transport/stream"
)

// Transport is unavailable on this platform
type Transport struct {
	*stream.Transport
}

// Open always fails with ErrUnsupported on this platform
func Open(_ ...Option) (*Transport, error) {
	return nil, ErrUnsupported
}

// SlavePath returns an empty string on this platform
func (*Transport) SlavePath() string {
	return ""
}

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

// Package pty exposes the NCP on a pseudo-terminal so host software that
// expects a serial device can connect to a simulated radio.
package pty

import (
	"errors"

	"github.com/rs/zerolog"
)

// ErrUnsupported is returned on platforms without pseudo-terminal support
var ErrUnsupported = errors.New("pty: not supported on this platform")

// Option configures a Transport
type Option func(*options)

type options struct {
	log      zerolog.Logger
	link     string
	maxFrame int
}

// WithLogger sets the transport logger
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithSymlink creates a symlink at path pointing to the slave device.
// The link is removed on Close.
func WithSymlink(path string) Option {
	return func(o *options) {
		o.link = path
	}
}

// WithMaxFrameSize sets the largest inbound frame accepted
func WithMaxFrameSize(size int) Option {
	return func(o *options) {
		o.maxFrame = size
	}
}

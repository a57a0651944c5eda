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

import (
	"errors"
)

// Decoder errors reported through Stats and the error callback
var (
	ErrBadFCS   = errors.New("hdlc: bad frame check sequence")
	ErrTooLong  = errors.New("hdlc: frame exceeds maximum size")
	ErrTooShort = errors.New("hdlc: frame shorter than FCS")
	ErrAborted  = errors.New("hdlc: frame aborted by escape before flag")
)

// Encode appends the framed, escaped form of frame to dst.
func Encode(dst, frame []byte) []byte {
	fcs := FCS(frame)
	dst = append(dst, FlagSequence)
	for _, b := range frame {
		dst = appendEscaped(dst, b)
	}
	dst = appendEscaped(dst, byte(fcs))
	dst = appendEscaped(dst, byte(fcs>>8))
	return append(dst, FlagSequence)
}

func appendEscaped(dst []byte, b byte) []byte {
	if needsEscape(b) {
		return append(dst, EscapeByte, b^EscapeXor)
	}
	return append(dst, b)
}

// Stats counts decoder outcomes.
type Stats struct {
	Frames   int
	BadFCS   int
	TooLong  int
	TooShort int
	Aborted  int
}

// Decoder reassembles frames from a byte stream. Feed it with Write; every
// complete frame with a valid FCS is passed to the frame callback, without
// the FCS. Corrupt frames are dropped and counted. A Decoder is not safe
// for concurrent use.
type Decoder struct {
	onFrame func(frame []byte)
	onError func(err error)
	buf     []byte
	stats   Stats
	maxSize int
	escaped bool
	discard bool
}

// NewDecoder creates a decoder accepting frames of up to maxSize bytes
// (excluding FCS). The slice passed to onFrame is reused after it returns.
func NewDecoder(maxSize int, onFrame func(frame []byte)) *Decoder {
	if maxSize <= 0 {
		maxSize = DefaultMaxFrame
	}
	return &Decoder{
		onFrame: onFrame,
		maxSize: maxSize,
		buf:     make([]byte, 0, maxSize+FCSSize),
	}
}

// OnError registers a callback for dropped frames.
func (d *Decoder) OnError(fn func(err error)) {
	d.onError = fn
}

// Write consumes stream bytes. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	for _, b := range p {
		d.decodeByte(b)
	}
	return len(p), nil
}

// Stats returns the decoder counters
func (d *Decoder) Stats() Stats {
	return d.stats
}

func (d *Decoder) decodeByte(b byte) {
	switch {
	case b == FlagSequence:
		d.endFrame()

	case b == EscapeByte:
		d.escaped = true

	default:
		if d.escaped {
			b ^= EscapeXor
			d.escaped = false
		}
		if d.discard {
			return
		}
		if len(d.buf) >= d.maxSize+FCSSize {
			d.discard = true
			d.fail(ErrTooLong, &d.stats.TooLong)
			return
		}
		d.buf = append(d.buf, b)
	}
}

func (d *Decoder) endFrame() {
	defer d.reset()

	switch {
	case d.discard:
		return
	case d.escaped:
		d.fail(ErrAborted, &d.stats.Aborted)
		return
	case len(d.buf) == 0:
		// Back-to-back flags
		return
	case len(d.buf) < FCSSize:
		d.fail(ErrTooShort, &d.stats.TooShort)
		return
	}

	fcs := uint16(fcsInit)
	for _, c := range d.buf {
		fcs = fcsUpdate(fcs, c)
	}
	if fcs != fcsGood {
		d.fail(ErrBadFCS, &d.stats.BadFCS)
		return
	}

	d.stats.Frames++
	if d.onFrame != nil {
		d.onFrame(d.buf[:len(d.buf)-FCSSize])
	}
}

func (d *Decoder) fail(err error, counter *int) {
	*counter++
	if d.onError != nil {
		d.onError(err)
	}
}

func (d *Decoder) reset() {
	d.buf = d.buf[:0]
	d.escaped = false
	d.discard = false
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	frames [][]byte
	errs   []error
}

func (c *collector) decoder(maxSize int) *Decoder {
	d := NewDecoder(maxSize, func(frame []byte) {
		c.frames = append(c.frames, append([]byte(nil), frame...))
	})
	d.OnError(func(err error) {
		c.errs = append(c.errs, err)
	})
	return d
}

func TestFCS(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		{name: "check string", data: []byte("123456789"), want: 0x906E},
		{name: "spinel get", data: []byte{0x81, 0x02, 0x00}, want: 0xA34C},
		{name: "reserved bytes", data: []byte{0x7E, 0x7D, 0x11}, want: 0x17BB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FCS(tt.data))
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		frame []byte
		want  []byte
	}{
		{
			name:  "plain frame",
			frame: []byte{0x81, 0x02, 0x00},
			want:  []byte{0x7E, 0x81, 0x02, 0x00, 0x4C, 0xA3, 0x7E},
		},
		{
			name:  "escaped payload",
			frame: []byte{0x7E, 0x7D, 0x11},
			want:  []byte{0x7E, 0x7D, 0x5E, 0x7D, 0x5D, 0x7D, 0x31, 0xBB, 0x17, 0x7E},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Encode(nil, tt.frame))
		})
	}
}

func TestDecoder_RoundTrip(t *testing.T) {
	t.Parallel()
	frames := [][]byte{
		{0x81, 0x02, 0x00},
		{0x80, 0x06, 0x00, 0x00},
		{0x7E, 0x7D, 0x11, 0x13, 0xF8, 0x20},
		make([]byte, 300),
	}

	var stream []byte
	for _, f := range frames {
		stream = Encode(stream, f)
	}

	var c collector
	d := c.decoder(0)
	n, err := d.Write(stream)
	require.NoError(t, err)
	assert.Equal(t, len(stream), n)
	assert.Equal(t, frames, c.frames)
	assert.Empty(t, c.errs)
	assert.Equal(t, len(frames), d.Stats().Frames)
}

func TestDecoder_SplitWrites(t *testing.T) {
	t.Parallel()
	frame := []byte{0x81, 0x7E, 0x03, 0x7D}
	stream := Encode(nil, frame)

	var c collector
	d := c.decoder(0)
	for _, b := range stream {
		_, err := d.Write([]byte{b})
		require.NoError(t, err)
	}
	require.Len(t, c.frames, 1)
	assert.Equal(t, frame, c.frames[0])
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()
	good := Encode(nil, []byte{0x81, 0x02, 0x00})

	badFCS := append([]byte(nil), good...)
	badFCS[4] ^= 0x01

	tests := []struct {
		name    string
		stream  []byte
		maxSize int
		wantErr error
		check   func(t *testing.T, s Stats)
	}{
		{
			name:    "bad fcs",
			stream:  badFCS,
			wantErr: ErrBadFCS,
			check:   func(t *testing.T, s Stats) { assert.Equal(t, 1, s.BadFCS) },
		},
		{
			name:    "runt frame",
			stream:  []byte{0x7E, 0x81, 0x7E},
			wantErr: ErrTooShort,
			check:   func(t *testing.T, s Stats) { assert.Equal(t, 1, s.TooShort) },
		},
		{
			name:    "aborted frame",
			stream:  []byte{0x7E, 0x81, 0x02, 0x7D, 0x7E},
			wantErr: ErrAborted,
			check:   func(t *testing.T, s Stats) { assert.Equal(t, 1, s.Aborted) },
		},
		{
			name:    "oversized frame",
			stream:  Encode(nil, make([]byte, 16)),
			maxSize: 8,
			wantErr: ErrTooLong,
			check:   func(t *testing.T, s Stats) { assert.Equal(t, 1, s.TooLong) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var c collector
			d := c.decoder(tt.maxSize)

			_, err := d.Write(tt.stream)
			require.NoError(t, err)
			assert.Empty(t, c.frames)
			require.Len(t, c.errs, 1)
			require.ErrorIs(t, c.errs[0], tt.wantErr)
			tt.check(t, d.Stats())

			// The decoder recovers on the next frame
			_, err = d.Write(good)
			require.NoError(t, err)
			assert.Len(t, c.frames, 1)
		})
	}
}

func TestDecoder_IgnoresIdleFlags(t *testing.T) {
	t.Parallel()
	var c collector
	d := c.decoder(0)

	_, err := d.Write([]byte{0x7E, 0x7E, 0x7E})
	require.NoError(t, err)
	assert.Empty(t, c.frames)
	assert.Empty(t, c.errs)
	assert.Equal(t, Stats{}, d.Stats())
}

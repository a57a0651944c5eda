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

package stream

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/internal/hdlc"
)

const testTimeout = 2 * time.Second

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingHandler struct {
	frames chan []byte
	done   chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		frames: make(chan []byte, 8),
		done:   make(chan struct{}, 8),
	}
}

func (h *recordingHandler) HandleFrame(frame []byte) {
	h.frames <- append([]byte(nil), frame...)
}

func (h *recordingHandler) HandleSendDone() {
	h.done <- struct{}{}
}

func (h *recordingHandler) nextFrame(t *testing.T) []byte {
	t.Helper()
	select {
	case f := <-h.frames:
		return f
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func (h *recordingHandler) waitDone(t *testing.T) {
	t.Helper()
	select {
	case <-h.done:
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for send completion")
	}
}

func openPair(t *testing.T) (*Transport, net.Conn, *recordingHandler) {
	t.Helper()
	local, remote := net.Pipe()
	tr := New(local)
	h := newRecordingHandler()
	require.NoError(t, tr.Open(h))
	t.Cleanup(func() {
		_ = tr.Close()
		_ = remote.Close()
	})
	return tr, remote, h
}

func TestTransport_Receive(t *testing.T) {
	t.Parallel()
	_, remote, h := openPair(t)

	frames := [][]byte{
		{0x81, 0x02, 0x00},
		{0x82, 0x03, 0x21, 0x7E},
	}
	go func() {
		var stream []byte
		for _, f := range frames {
			stream = hdlc.Encode(stream, f)
		}
		_, _ = remote.Write(stream)
	}()

	for _, want := range frames {
		assert.Equal(t, want, h.nextFrame(t))
	}
}

func TestTransport_Send(t *testing.T) {
	t.Parallel()
	tr, remote, h := openPair(t)

	frame := []byte{0x81, 0x06, 0x00, 0x00}
	require.NoError(t, tr.SendFrame(frame))

	var got [][]byte
	dec := hdlc.NewDecoder(0, func(f []byte) {
		got = append(got, append([]byte(nil), f...))
	})
	buf := make([]byte, 64)
	for len(got) == 0 {
		require.NoError(t, remote.SetReadDeadline(time.Now().Add(testTimeout)))
		n, err := remote.Read(buf)
		require.NoError(t, err)
		_, _ = dec.Write(buf[:n])
	}

	assert.Equal(t, [][]byte{frame}, got)
	h.waitDone(t)
	assert.Equal(t, 1, tr.Stats().FramesSent)
}

func TestTransport_SendBusy(t *testing.T) {
	t.Parallel()
	tr, remote, h := openPair(t)

	// Nothing reads the pipe, so the first frame stays in the writer
	require.NoError(t, tr.SendFrame([]byte{0x81, 0x01}))
	require.Eventually(t, func() bool {
		return tr.SendFrame([]byte{0x81, 0x01}) == nil
	}, testTimeout, time.Millisecond)

	err := tr.SendFrame([]byte{0x81, 0x01})
	require.ErrorIs(t, err, ncp.ErrBusy)

	go func() { _, _ = io.Copy(io.Discard, remote) }()
	h.waitDone(t)
	h.waitDone(t)
}

func TestTransport_Lifecycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		run     func(tr *Transport) error
		wantErr error
		name    string
	}{
		{
			name:    "send before open",
			run:     func(tr *Transport) error { return tr.SendFrame([]byte{0x80}) },
			wantErr: ErrNotOpen,
		},
		{
			name: "open twice",
			run: func(tr *Transport) error {
				if err := tr.Open(newRecordingHandler()); err != nil {
					return err
				}
				return tr.Open(newRecordingHandler())
			},
			wantErr: ErrAlreadyOpen,
		},
		{
			name: "send after close",
			run: func(tr *Transport) error {
				if err := tr.Open(newRecordingHandler()); err != nil {
					return err
				}
				if err := tr.Close(); err != nil {
					return err
				}
				return tr.SendFrame([]byte{0x80})
			},
			wantErr: ErrClosed,
		},
		{
			name: "open after close",
			run: func(tr *Transport) error {
				if err := tr.Close(); err != nil {
					return err
				}
				return tr.Open(newRecordingHandler())
			},
			wantErr: ErrClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			local, remote := net.Pipe()
			defer func() { _ = remote.Close() }()

			tr := New(local)
			defer func() { _ = tr.Close() }()

			err := tt.run(tr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestTransport_CloseIdempotent(t *testing.T) {
	t.Parallel()
	tr, _, _ := openPair(t)

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
}

func TestTransport_Type(t *testing.T) {
	t.Parallel()
	local, remote := net.Pipe()
	defer func() { _ = remote.Close() }()

	assert.Equal(t, ncp.TransportStream, New(local).Type())

	tr := New(local, WithType(ncp.TransportPTY))
	assert.Equal(t, ncp.TransportPTY, tr.Type())
	require.NoError(t, tr.Close())
}

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

//go:build linux

package pty

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/internal/hdlc"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type frameHandler struct {
	frames chan []byte
	done   chan struct{}
}

func (h *frameHandler) HandleFrame(frame []byte) {
	h.frames <- append([]byte(nil), frame...)
}

func (h *frameHandler) HandleSendDone() {
	h.done <- struct{}{}
}

func openPTY(t *testing.T, opts ...Option) *Transport {
	t.Helper()
	tr, err := Open(opts...)
	if err != nil {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestPTY_RoundTrip(t *testing.T) {
	t.Parallel()
	link := filepath.Join(t.TempDir(), "ttyNCP")
	tr := openPTY(t, WithSymlink(link))

	assert.Equal(t, ncp.TransportPTY, tr.Type())
	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, tr.SlavePath(), target)

	h := &frameHandler{frames: make(chan []byte, 1), done: make(chan struct{}, 1)}
	require.NoError(t, tr.Open(h))

	host, err := os.OpenFile(link, os.O_RDWR, 0)
	require.NoError(t, err)
	defer func() { _ = host.Close() }()

	request := []byte{0x81, 0x02, 0x00}
	_, err = host.Write(hdlc.Encode(nil, request))
	require.NoError(t, err)

	select {
	case f := <-h.frames:
		assert.Equal(t, request, f)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for host frame")
	}

	reply := []byte{0x81, 0x06, 0x00, 0x00}
	require.NoError(t, tr.SendFrame(reply))
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for send completion")
	}

	var got []byte
	dec := hdlc.NewDecoder(0, func(f []byte) { got = append([]byte(nil), f...) })
	buf := make([]byte, 64)
	for got == nil {
		require.NoError(t, host.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, err := host.Read(buf)
		require.NoError(t, err)
		_, _ = dec.Write(buf[:n])
	}
	assert.Equal(t, reply, got)

	require.NoError(t, tr.Close())
	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
}

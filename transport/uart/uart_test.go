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

package uart

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.uber.org/goleak"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/internal/hdlc"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePort backs a serial.Port with one end of a pipe. Methods the
// transport never calls are left to the embedded nil interface.
type fakePort struct {
	serial.Port
	conn net.Conn
	dtr  bool
	rts  bool
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.conn.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.conn.Write(b) }
func (p *fakePort) Close() error                { return p.conn.Close() }
func (p *fakePort) SetDTR(dtr bool) error       { p.dtr = dtr; return nil }
func (p *fakePort) SetRTS(rts bool) error       { p.rts = rts; return nil }

type frameHandler struct {
	frames chan []byte
}

func (h *frameHandler) HandleFrame(frame []byte) {
	h.frames <- append([]byte(nil), frame...)
}

func (*frameHandler) HandleSendDone() {}

var errNoDevice = errors.New("no such device")

func TestOpen_Retries(t *testing.T) {
	t.Parallel()
	local, remote := net.Pipe()
	defer func() { _ = remote.Close() }()

	port := &fakePort{conn: local}
	attempts := 0
	var gotMode *serial.Mode

	tr, err := Open(context.Background(), Config{
		Logger:      zerolog.Nop(),
		Port:        "/dev/ttyACM0",
		OpenRetries: 3,
		Open: func(name string, mode *serial.Mode) (serial.Port, error) {
			attempts++
			gotMode = mode
			if attempts < 3 {
				return nil, errNoDevice
			}
			return port, nil
		},
	})
	require.NoError(t, err)
	defer func() { _ = tr.Close() }()

	assert.Equal(t, 3, attempts)
	assert.Equal(t, DefaultBaudRate, gotMode.BaudRate)
	assert.Equal(t, serial.NoParity, gotMode.Parity)
	assert.True(t, port.dtr)
	assert.True(t, port.rts)
	assert.Equal(t, ncp.TransportUART, tr.Type())
	assert.Equal(t, "/dev/ttyACM0", tr.PortName())

	h := &frameHandler{frames: make(chan []byte, 1)}
	require.NoError(t, tr.Open(h))

	go func() { _, _ = remote.Write(hdlc.Encode(nil, []byte{0x81, 0x02, 0x00})) }()
	select {
	case f := <-h.frames:
		assert.Equal(t, []byte{0x81, 0x02, 0x00}, f)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		cfg     Config
	}{
		{
			name:    "empty port",
			cfg:     Config{},
			wantErr: ncp.ErrInvalidParameter,
		},
		{
			name: "device never appears",
			cfg: Config{
				Port:        "/dev/ttyUSB9",
				OpenRetries: 2,
				Open: func(string, *serial.Mode) (serial.Port, error) {
					return nil, errNoDevice
				},
			},
			wantErr: errNoDevice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr, err := Open(context.Background(), tt.cfg)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, tr)
		})
	}
}

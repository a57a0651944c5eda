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

package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/spinel"
	"github.com/ZaparooProject/go-ncp/transport/stream"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []spinel.PropKey
		wantErr bool
	}{
		{name: "names", input: "PHY_CHAN, net_state", want: []spinel.PropKey{spinel.PropPhyChan, spinel.PropNetState}},
		{name: "numbers", input: "0x21,66", want: []spinel.PropKey{spinel.PropPhyChan, spinel.PropNetRole}},
		{name: "empty fields", input: ",,HWADDR,", want: []spinel.PropKey{spinel.PropHWAddr}},
		{name: "unknown", input: "PHY_CHAN,BOGUS", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseKeys(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	addr := [16]byte{0xfe, 0x80, 15: 0x01}
	tests := []struct {
		value spinel.Value
		want  string
	}{
		{value: spinel.Bool(true), want: "true"},
		{value: spinel.Int8(-100), want: "-100"},
		{value: spinel.Uint16(0xFACE), want: "0xFACE"},
		{value: spinel.UintPacked(300), want: "300"},
		{value: spinel.IPv6Addr(addr), want: "fe80::1"},
		{value: spinel.EUI64{0x18, 0xb4, 0x30, 0, 0, 0, 0, 1}, want: "18:b4:30:00:00:00:00:01"},
		{value: spinel.UTF8("GoThread"), want: `"GoThread"`},
		{value: spinel.Data{0xde, 0xad}, want: "dead"},
		{value: spinel.Struct{spinel.Uint8(1), spinel.Uint8(2)}, want: "(1 2)"},
		{value: spinel.Array{{spinel.Uint8(1)}, {spinel.Uint8(2)}}, want: "[(1) (2)]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}

// startNCP serves a mock stack over one end of a pipe and returns a client
// connected to the other.
func startNCP(t *testing.T) *client {
	t.Helper()
	ncpSide, hostSide := net.Pipe()

	engine, err := ncp.New(stream.New(ncpSide), ncp.NewMockStack(), ncp.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.NoError(t, engine.Start())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	c := newClient(hostSide)
	t.Cleanup(func() {
		cancel()
		<-done
		assert.NoError(t, engine.Stop())
		assert.NoError(t, c.close())
	})
	return c
}

func TestProbe(t *testing.T) {
	t.Parallel()
	c := startNCP(t)

	keys := []spinel.PropKey{
		spinel.PropPhyChan, spinel.PropMac154PANID, spinel.PropNetNetworkName,
		spinel.PropHWAddr, spinel.PropThreadLeader,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, probe(ctx, c, keys, &out))

	got := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		fields := strings.Fields(line)
		require.Len(t, fields, 2, line)
		got[fields[0]] = fields[1]
	}
	assert.Equal(t, map[string]string{
		"PHY_CHAN":         "11",
		"MAC_15_4_PANID":   "0xFACE",
		"NET_NETWORK_NAME": `"OpenThread"`,
		"HWADDR":           "18:b4:30:00:00:00:00:01",
		"THREAD_LEADER":    "<INVALID_STATE>",
	}, got)
}

func TestReset(t *testing.T) {
	t.Parallel()
	c := startNCP(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status, err := c.reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, spinel.StatusResetSoftware, status)

	// The link keeps working after the reset notice
	payload, err := c.get(ctx, spinel.PropPhyChan)
	require.NoError(t, err)
	assert.Equal(t, []byte{11}, payload)
}

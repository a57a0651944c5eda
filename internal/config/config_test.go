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

package config

import (
	"bytes"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ncp "github.com/ZaparooProject/go-ncp"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ncpd.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, Default().Validate())
	assert.Equal(t, ncp.DefaultChannelMask, Default().NCP.ChannelMask())
}

func TestLoad_PartialFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `
[transport]
type = "uart"
port = "/dev/ttyACM0"
retry_delay = "1s"

[ncp]
scan_channels = [15, 20]
scan_duration = "50ms"

[stack]
network_name = "Home"
panid = 0x1234
extended_panid = "11:22:33:44:55:66:77:88"
mesh_local_prefix = "fd00:db8::/64"

[[stack.neighbors]]
name = "Neighbor"
channel = 15
panid = 0xBEEF
rssi = -60
joinable = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, TransportUART, cfg.Transport.Kind)
	assert.Equal(t, "/dev/ttyACM0", cfg.Transport.Port)
	assert.Equal(t, time.Second, cfg.Transport.RetryDelay)
	assert.Equal(t, Default().Transport.BaudRate, cfg.Transport.BaudRate)

	assert.Equal(t, uint32(1<<15|1<<20), cfg.NCP.ChannelMask())
	assert.Equal(t, 50*time.Millisecond, cfg.NCP.ScanDuration)
	assert.Equal(t, Default().NCP.QueueCapacity, cfg.NCP.QueueCapacity)

	assert.Equal(t, "Home", cfg.Stack.NetworkName)
	assert.Equal(t, uint16(0x1234), cfg.Stack.PANID)
	assert.Equal(t, [8]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}, cfg.Stack.ExtendedPANID)
	assert.Equal(t, netip.MustParsePrefix("fd00:db8::/64"), cfg.Stack.MeshLocalPrefix)
	assert.Equal(t, Default().Stack.MasterKey, cfg.Stack.MasterKey)

	require.Len(t, cfg.Stack.Neighbors, 1)
	assert.Equal(t, ncp.ActiveScanResult{
		NetworkName: "Neighbor",
		Channel:     15,
		PANID:       0xBEEF,
		RSSI:        -60,
		IsJoinable:  true,
		IsNative:    true,
		Version:     2,
	}, cfg.Stack.Neighbors[0])

	sim := cfg.Stack.SimConfig()
	assert.Equal(t, "Home", sim.NetworkName)
	assert.Equal(t, cfg.Stack.Neighbors, sim.Neighbors)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown key", content: "[transport]\nspeed = 9600\n"},
		{name: "uart without port", content: "[transport]\ntype = \"uart\"\n"},
		{name: "bad transport", content: "[transport]\ntype = \"spi\"\n"},
		{name: "bad duration", content: "[ncp]\nscan_duration = \"soon\"\n"},
		{name: "bad hex", content: "[stack]\nmaster_key = \"zz\"\n"},
		{name: "short key", content: "[stack]\nmaster_key = \"0011\"\n"},
		{name: "short xpanid", content: "[stack]\nextended_panid = \"0011\"\n"},
		{name: "channel out of range", content: "[stack]\nchannel = 30\n"},
		{name: "panid out of range", content: "[stack]\npanid = 70000\n"},
		{name: "prefix length", content: "[stack]\nmesh_local_prefix = \"fd00::/48\"\n"},
		{name: "neighbor channel", content: "[[stack.neighbors]]\nname = \"x\"\nchannel = 5\n"},
		{name: "log format", content: "[log]\nformat = \"xml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeFile(t, tt.content))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite_LoadsBack(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Admin.Addr = "127.0.0.1:8080"
	cfg.Admin.CORSOrigins = []string{"http://localhost:3000"}
	cfg.Transport.Link = "/tmp/ttyNCP"
	cfg.NCP.ScanChannels = []uint8{11, 26}
	cfg.Stack.Loopback = true
	cfg.Stack.Neighbors = []ncp.ActiveScanResult{{
		NetworkName: "Other",
		ExtAddress:  [8]byte{1, 2, 3, 4, 5, 6, 7, 8},
		ExtPANID:    [8]byte{8, 7, 6, 5, 4, 3, 2, 1},
		PANID:       0xABCD,
		Channel:     20,
		RSSI:        -75,
		IsNative:    true,
		Version:     2,
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))
	assert.Contains(t, buf.String(), "[[stack.neighbors]]")

	loaded, err := Load(writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

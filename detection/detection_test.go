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

package detection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		devicePath  string
		ignorePaths []string
		expected    bool
	}{
		{name: "empty ignore list", devicePath: "/dev/ttyACM0", expected: false},
		{name: "empty device path", devicePath: "", ignorePaths: []string{"/dev/ttyACM0"}, expected: false},
		{name: "exact match", devicePath: "/dev/ttyACM0", ignorePaths: []string{"/dev/ttyACM0"}, expected: true},
		{name: "windows case insensitive", devicePath: "com3", ignorePaths: []string{"COM3"}, expected: true},
		{name: "relative components", devicePath: "/dev/../dev/ttyACM0", ignorePaths: []string{"/dev/ttyACM0"}, expected: true},
		{name: "no match", devicePath: "/dev/ttyACM1", ignorePaths: []string{"/dev/ttyACM0", ""}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsPathIgnored(tt.devicePath, tt.ignorePaths))
		})
	}
}

func TestParseVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		descriptor string
		want       string
	}{
		{descriptor: "VID:10C4 PID:EA60", want: "10C4:EA60"},
		{descriptor: "vid=1915 pid=521f", want: "1915:521F"},
		{descriptor: `USB\VID_0451&PID_BEF3&MI_00`, want: "0451:BEF3"},
		{descriptor: "vendor=303a product=1001", want: "303A:1001"},
		{descriptor: "1366:1015", want: "1366:1015"},
		{descriptor: "not a descriptor", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseVIDPID(tt.descriptor))
		})
	}
}

func TestBlocklistAndKnownRadios(t *testing.T) {
	t.Parallel()
	assert.True(t, IsBlocked(" 05ac:8290 ", DefaultBlocklist()))
	assert.False(t, IsBlocked("1915:521F", DefaultBlocklist()))
	assert.Equal(t, "Nordic nRF52840 Dongle", KnownRadio("1915:521f"))
	assert.Empty(t, KnownRadio("FFFF:0000"))
}

func fakeLister(ports ...*enumerator.PortDetails) Lister {
	return func() ([]*enumerator.PortDetails, error) {
		return ports, nil
	}
}

func TestDetectWith(t *testing.T) {
	t.Parallel()
	list := fakeLister(
		&enumerator.PortDetails{Name: "/dev/ttyS0"},
		&enumerator.PortDetails{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001"},
		&enumerator.PortDetails{Name: "/dev/ttyACM0", IsUSB: true, VID: "1915", PID: "521f", SerialNumber: "E1A2"},
		&enumerator.PortDetails{Name: "/dev/ttyACM1", IsUSB: true, VID: "05ac", PID: "8290"},
		nil,
	)

	t.Run("default options", func(t *testing.T) {
		t.Parallel()
		devices, err := DetectWith(list, DefaultOptions())
		require.NoError(t, err)
		require.Len(t, devices, 3)

		assert.Equal(t, "/dev/ttyACM0", devices[0].Path)
		assert.Equal(t, "1915:521F", devices[0].VIDPID)
		assert.Equal(t, "Nordic nRF52840 Dongle", devices[0].Radio)
		assert.Equal(t, "E1A2", devices[0].SerialNumber)
		assert.Equal(t, "/dev/ttyS0", devices[1].Path)
		assert.Equal(t, "/dev/ttyUSB0", devices[2].Path)
	})

	t.Run("known only", func(t *testing.T) {
		t.Parallel()
		devices, err := DetectWith(list, Options{KnownOnly: true})
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, "/dev/ttyACM0", devices[0].Path)
	})

	t.Run("ignored path", func(t *testing.T) {
		t.Parallel()
		devices, err := DetectWith(list, Options{IgnorePaths: []string{"/dev/ttyACM0", "/dev/ttyS0"}})
		require.NoError(t, err)
		require.Len(t, devices, 2)
		assert.Equal(t, "/dev/ttyACM1", devices[0].Path)
	})
}

func TestDetectWith_Error(t *testing.T) {
	t.Parallel()
	errEnum := errors.New("enumeration failed")
	_, err := DetectWith(func() ([]*enumerator.PortDetails, error) {
		return nil, errEnum
	}, DefaultOptions())
	require.ErrorIs(t, err, errEnum)
}

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
	"path/filepath"
	"strings"
)

// knownRadios maps VID:PID to USB adapters commonly flashed with
// Thread NCP or RCP firmware.
var knownRadios = map[string]string{
	"1915:521F": "Nordic nRF52840 Dongle",
	"1366:1015": "SEGGER J-Link (nRF52840 DK)",
	"10C4:EA60": "Silicon Labs CP210x",
	"0451:BEF3": "TI XDS110 (CC26x2 LaunchPad)",
	"303A:1001": "Espressif USB serial (ESP32-H2)",
}

// DefaultBlocklist returns VID:PID pairs that should not be reported.
// Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		"05AC:8290", // Apple internal Bluetooth UART
	}
}

// KnownRadio returns the adapter name for vidpid, or "" if unknown
func KnownRadio(vidpid string) string {
	return knownRadios[normalizeVIDPID(vidpid)]
}

// IsBlocked checks if a USB device is in the blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = normalizeVIDPID(vidpid)
	for _, blocked := range blocklist {
		if vidpid == normalizeVIDPID(blocked) {
			return true
		}
	}
	return false
}

// ParseVIDPID extracts VID:PID from descriptors such as "VID:10C4 PID:EA60",
// "vid=10c4 pid=ea60", "USB\VID_10C4&PID_EA60" or "10C4:EA60".
func ParseVIDPID(descriptor string) string {
	upper := strings.ToUpper(descriptor)

	vid := hexAfter(upper, "VID:", "VID=", "VID_", "VENDOR=")
	pid := hexAfter(upper, "PID:", "PID=", "PID_", "PRODUCT=")
	if vid != "" && pid != "" {
		return vid + ":" + pid
	}

	if parts := strings.Split(upper, ":"); len(parts) == 2 && isHex(parts[0]) && isHex(parts[1]) {
		return upper
	}
	return ""
}

// IsPathIgnored reports whether devicePath matches an entry of
// ignorePaths after cleaning, ignoring case.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	device := normalizedPath(devicePath)
	for _, p := range ignorePaths {
		if p != "" && normalizedPath(p) == device {
			return true
		}
	}
	return false
}

func normalizeVIDPID(vidpid string) string {
	return strings.ToUpper(strings.TrimSpace(vidpid))
}

// hexAfter returns the hex digits following the first prefix found in s
func hexAfter(s string, prefixes ...string) string {
	for _, prefix := range prefixes {
		if idx := strings.Index(s, prefix); idx >= 0 {
			rest := s[idx+len(prefix):]
			end := strings.IndexFunc(rest, func(r rune) bool { return !isHexRune(r) })
			if end < 0 {
				end = len(rest)
			}
			if end > 0 {
				return rest[:end]
			}
		}
	}
	return ""
}

func isHexRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

func isHex(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !isHexRune(r) }) < 0
}

// Windows paths are case-insensitive
func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}

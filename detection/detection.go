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

// Package detection finds serial ports that may carry a Spinel radio.
package detection

import (
	"fmt"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Device is a candidate serial port
type Device struct {
	Path         string
	VIDPID       string
	SerialNumber string
	Product      string
	// Radio names the adapter when its VID:PID is a known Thread radio
	Radio string
	IsUSB bool
}

// Options controls which ports Detect reports
type Options struct {
	// Blocklist holds VID:PID pairs never reported
	Blocklist []string
	// IgnorePaths holds device paths never reported
	IgnorePaths []string
	// KnownOnly restricts results to recognised radio adapters
	KnownOnly bool
}

// DefaultOptions returns options reporting every USB serial port
func DefaultOptions() Options {
	return Options{
		Blocklist: DefaultBlocklist(),
	}
}

// Lister enumerates ports; it matches enumerator.GetDetailedPortsList
type Lister func() ([]*enumerator.PortDetails, error)

// Detect lists serial ports on this machine
func Detect(opts Options) ([]Device, error) {
	return DetectWith(enumerator.GetDetailedPortsList, opts)
}

// DetectWith lists ports using list, applying opts. Known radios sort first.
func DetectWith(list Lister, opts Options) ([]Device, error) {
	ports, err := list()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}

	devices := make([]Device, 0, len(ports))
	for _, p := range ports {
		if p == nil || IsPathIgnored(p.Name, opts.IgnorePaths) {
			continue
		}

		dev := Device{
			Path:         p.Name,
			IsUSB:        p.IsUSB,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		}
		if p.IsUSB && p.VID != "" && p.PID != "" {
			dev.VIDPID = strings.ToUpper(p.VID + ":" + p.PID)
		}
		if dev.VIDPID != "" && IsBlocked(dev.VIDPID, opts.Blocklist) {
			continue
		}
		dev.Radio = KnownRadio(dev.VIDPID)
		if opts.KnownOnly && dev.Radio == "" {
			continue
		}
		devices = append(devices, dev)
	}

	sort.SliceStable(devices, func(i, j int) bool {
		ki, kj := devices[i].Radio != "", devices[j].Radio != ""
		if ki != kj {
			return ki
		}
		return devices[i].Path < devices[j].Path
	})
	return devices, nil
}

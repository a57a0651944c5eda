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

// Package config loads the ncpd daemon configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/internal/simstack"
	"github.com/ZaparooProject/go-ncp/spinel"
	"github.com/ZaparooProject/go-ncp/transport/uart"
)

// Transport kinds accepted in [transport].type
const (
	TransportUART  = "uart"
	TransportPTY   = "pty"
	TransportStdio = "stdio"
)

// Log formats accepted in [log].format
const (
	LogConsole = "console"
	LogJSON    = "json"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is the complete daemon configuration
type Config struct {
	Log       LogConfig
	Admin     AdminConfig
	Transport TransportConfig
	Stack     StackConfig
	NCP       NCPConfig
}

// LogConfig selects log verbosity and encoding
type LogConfig struct {
	Level  string
	Format string
}

// AdminConfig controls the HTTP admin server. An empty Addr disables it.
type AdminConfig struct {
	Addr        string
	CORSOrigins []string
}

// TransportConfig selects how the NCP talks to its host
type TransportConfig struct {
	Kind        string
	Port        string
	Link        string
	BaudRate    int
	OpenRetries int
	RetryDelay  time.Duration
	MaxFrame    int
}

// NCPConfig tunes the protocol engine
type NCPConfig struct {
	Version       string
	ScanChannels  []uint8
	MaxFrameSize  int
	QueueCapacity int
	ScanDuration  time.Duration
}

// StackConfig seeds the simulated stack
type StackConfig struct {
	MeshLocalPrefix netip.Prefix
	NetworkName     string
	MasterKey       []byte
	Neighbors       []ncp.ActiveScanResult
	AttachDelay     time.Duration
	ExtAddress      [8]byte
	ExtendedPANID   [8]byte
	PANID           uint16
	Channel         uint8
	Loopback        bool
}

// Default returns the built-in configuration
func Default() Config {
	sim := simstack.DefaultConfig()
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: LogConsole,
		},
		Transport: TransportConfig{
			Kind:        TransportPTY,
			BaudRate:    uart.DefaultBaudRate,
			OpenRetries: uart.DefaultOpenRetries,
			RetryDelay:  uart.DefaultRetryDelay,
		},
		NCP: NCPConfig{
			Version:       ncp.DefaultNCPVersion,
			MaxFrameSize:  spinel.DefaultMaxFrameSize,
			QueueCapacity: ncp.DefaultQueueCapacity,
			ScanDuration:  ncp.DefaultScanDuration,
		},
		Stack: StackConfig{
			MeshLocalPrefix: sim.MeshLocalPrefix,
			NetworkName:     sim.NetworkName,
			MasterKey:       sim.MasterKey,
			AttachDelay:     sim.AttachDelay,
			ExtAddress:      sim.ExtAddress,
			ExtendedPANID:   sim.ExtendedPANID,
			PANID:           sim.PANID,
			Channel:         sim.Channel,
		},
	}
}

// ChannelMask converts ScanChannels to a Spinel channel mask. An empty
// list selects every 2.4 GHz channel.
func (c NCPConfig) ChannelMask() uint32 {
	if len(c.ScanChannels) == 0 {
		return ncp.DefaultChannelMask
	}
	var mask uint32
	for _, ch := range c.ScanChannels {
		mask |= 1 << ch
	}
	return mask
}

// SimConfig converts the stack section to a simstack configuration
func (c StackConfig) SimConfig() simstack.Config {
	cfg := simstack.DefaultConfig()
	cfg.MeshLocalPrefix = c.MeshLocalPrefix
	cfg.NetworkName = c.NetworkName
	cfg.MasterKey = c.MasterKey
	cfg.Neighbors = c.Neighbors
	cfg.AttachDelay = c.AttachDelay
	cfg.ExtAddress = c.ExtAddress
	cfg.ExtendedPANID = c.ExtendedPANID
	cfg.PANID = c.PANID
	cfg.Channel = c.Channel
	cfg.Loopback = c.Loopback
	return cfg
}

// Validate checks cross-field constraints
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	switch c.Transport.Kind {
	case TransportUART:
		if strings.TrimSpace(c.Transport.Port) == "" {
			invalid("transport.port is required for uart")
		}
		if c.Transport.BaudRate <= 0 {
			invalid("transport.baud must be positive")
		}
	case TransportPTY, TransportStdio:
	default:
		invalid("transport.type %q (want uart, pty or stdio)", c.Transport.Kind)
	}
	if c.Transport.OpenRetries < 0 {
		invalid("transport.open_retries must not be negative")
	}

	switch c.Log.Format {
	case LogConsole, LogJSON:
	default:
		invalid("log.format %q (want console or json)", c.Log.Format)
	}

	if c.NCP.MaxFrameSize < 64 {
		invalid("ncp.max_frame_size must be at least 64")
	}
	if c.NCP.QueueCapacity < 1 {
		invalid("ncp.queue_capacity must be at least 1")
	}
	if c.NCP.ScanDuration <= 0 {
		invalid("ncp.scan_duration must be positive")
	}
	for _, ch := range c.NCP.ScanChannels {
		if ch < 11 || ch > 26 {
			invalid("ncp.scan_channels: channel %d outside 11-26", ch)
		}
	}

	if c.Stack.Channel < 11 || c.Stack.Channel > 26 {
		invalid("stack.channel %d outside 11-26", c.Stack.Channel)
	}
	if len(c.Stack.NetworkName) > 16 {
		invalid("stack.network_name longer than 16 bytes")
	}
	if len(c.Stack.MasterKey) != 16 {
		invalid("stack.master_key must be 16 bytes")
	}
	if c.Stack.MeshLocalPrefix.Bits() != 64 || !c.Stack.MeshLocalPrefix.Addr().Is6() {
		invalid("stack.mesh_local_prefix must be an IPv6 /64")
	}

	return errors.Join(errs...)
}

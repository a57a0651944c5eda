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

package ncp

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-ncp/spinel"
)

// Engine defaults
const (
	DefaultQueueCapacity = 16
	DefaultChannelMask   = uint32(0xFFFF) << 11 // Channels 11 to 26
	DefaultScanDuration  = 200 * time.Millisecond
	DefaultNCPVersion    = "go-ncp/0.1.0"

	minFrameSize = 64
)

// Config contains configuration options for the NCP
type Config struct {
	// Logger receives engine logs. The zero value is replaced by a no-op logger.
	Logger zerolog.Logger
	// Metrics records engine counters; nil disables metrics.
	Metrics *Metrics
	// Loop runs all engine work. Share it with the stack to keep both single-threaded.
	Loop *EventLoop
	// Pool allocates datagram buffers for STREAM_NET writes.
	Pool *MessagePool
	// NCPVersion is reported by PROP_NCP_VERSION.
	NCPVersion string
	// MaxFrameSize bounds every outbound frame.
	MaxFrameSize int
	// QueueCapacity bounds the number of inbound datagrams waiting to be sent.
	QueueCapacity int
	// ChannelMask selects the channels swept by an active scan, bit n for channel n.
	ChannelMask uint32
	// ScanDuration is the per-channel active scan dwell time.
	ScanDuration time.Duration
}

// DefaultConfig returns default engine configuration
func DefaultConfig() *Config {
	return &Config{
		Logger:        zerolog.Nop(),
		NCPVersion:    DefaultNCPVersion,
		MaxFrameSize:  spinel.DefaultMaxFrameSize,
		QueueCapacity: DefaultQueueCapacity,
		ChannelMask:   DefaultChannelMask,
		ScanDuration:  DefaultScanDuration,
	}
}

// Option is a functional option for configuring an NCP
type Option func(*Config) error

// WithLogger sets the engine logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithMetrics enables Prometheus metrics
func WithMetrics(metrics *Metrics) Option {
	return func(c *Config) error {
		c.Metrics = metrics
		return nil
	}
}

// WithEventLoop runs the engine on an existing loop
func WithEventLoop(loop *EventLoop) Option {
	return func(c *Config) error {
		if loop == nil {
			return fmt.Errorf("%w: nil event loop", ErrInvalidParameter)
		}
		c.Loop = loop
		return nil
	}
}

// WithMessagePool sets the datagram allocator, normally the one the stack uses
func WithMessagePool(pool *MessagePool) Option {
	return func(c *Config) error {
		if pool == nil {
			return fmt.Errorf("%w: nil message pool", ErrInvalidParameter)
		}
		c.Pool = pool
		return nil
	}
}

// WithNCPVersion sets the string reported by PROP_NCP_VERSION
func WithNCPVersion(version string) Option {
	return func(c *Config) error {
		c.NCPVersion = version
		return nil
	}
}

// WithMaxFrameSize sets the outbound frame size limit
func WithMaxFrameSize(size int) Option {
	return func(c *Config) error {
		if size < minFrameSize {
			return fmt.Errorf("%w: max frame size %d below %d", ErrInvalidParameter, size, minFrameSize)
		}
		c.MaxFrameSize = size
		return nil
	}
}

// WithQueueCapacity sets how many inbound datagrams may wait for the transport
func WithQueueCapacity(capacity int) Option {
	return func(c *Config) error {
		if capacity < 1 {
			return fmt.Errorf("%w: queue capacity %d", ErrInvalidParameter, capacity)
		}
		c.QueueCapacity = capacity
		return nil
	}
}

// WithChannelMask sets the active scan channel mask
func WithChannelMask(mask uint32) Option {
	return func(c *Config) error {
		if mask == 0 {
			return fmt.Errorf("%w: empty channel mask", ErrInvalidParameter)
		}
		c.ChannelMask = mask
		return nil
	}
}

// WithScanDuration sets the active scan dwell time per channel
func WithScanDuration(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("%w: scan duration %v", ErrInvalidParameter, d)
		}
		c.ScanDuration = d
		return nil
	}
}

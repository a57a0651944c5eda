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

// Package uart provides a Spinel transport over a serial port.
package uart

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/internal/transport"
	"github.com/ZaparooProject/go-ncp/transport/stream"
)

// Serial defaults
const (
	DefaultBaudRate    = 115200
	DefaultOpenRetries = 5
	DefaultRetryDelay  = 500 * time.Millisecond
)

// OpenFunc opens a serial port. It matches serial.Open.
type OpenFunc func(portName string, mode *serial.Mode) (serial.Port, error)

// Config holds the UART settings
type Config struct {
	Logger      zerolog.Logger
	Open        OpenFunc
	Port        string
	BaudRate    int
	OpenRetries int
	RetryDelay  time.Duration
	MaxFrame    int
}

// Transport is an HDLC-framed Spinel transport on a serial port.
type Transport struct {
	*stream.Transport
	portName string
}

// Open opens the serial port described by cfg, retrying while the device
// is absent (for example during USB re-enumeration after a reset).
func Open(ctx context.Context, cfg Config) (*Transport, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("uart: %w: empty port name", ncp.ErrInvalidParameter)
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.Open == nil {
		cfg.Open = serial.Open
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	retry := transport.RetryConfig{
		Description: "open " + cfg.Port,
		MaxRetries:  cfg.OpenRetries,
		RetryDelay:  cfg.RetryDelay,
		OnRetry: func(attempt int) {
			cfg.Logger.Debug().Str("port", cfg.Port).Int("attempt", attempt).Msg("waiting for serial port")
		},
	}
	var lastErr error
	port, err := transport.WithRetry(ctx, retry, func() (serial.Port, bool, error) {
		p, openErr := cfg.Open(cfg.Port, mode)
		if openErr != nil {
			lastErr = openErr
			return nil, true, nil
		}
		return p, false, nil
	})
	if err != nil {
		if lastErr != nil {
			return nil, fmt.Errorf("uart: %w: %w", err, lastErr)
		}
		return nil, fmt.Errorf("uart: %w", err)
	}

	// USB CDC ACM radios expect DTR/RTS asserted
	_ = port.SetDTR(true)
	_ = port.SetRTS(true)

	opts := []stream.Option{
		stream.WithLogger(cfg.Logger.With().Str("port", cfg.Port).Logger()),
		stream.WithType(ncp.TransportUART),
	}
	if cfg.MaxFrame > 0 {
		opts = append(opts, stream.WithMaxFrameSize(cfg.MaxFrame))
	}

	cfg.Logger.Info().Str("port", cfg.Port).Int("baud", cfg.BaudRate).Msg("serial port opened")
	return &Transport{
		Transport: stream.New(port, opts...),
		portName:  cfg.Port,
	}, nil
}

// PortName returns the serial device path
func (t *Transport) PortName() string {
	return t.portName
}

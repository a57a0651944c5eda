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

// Command spinelprobe connects to a Spinel NCP and prints a set of
// properties. It is handy for checking that ncpd, or real radio firmware,
// answers on a given port.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"go.bug.st/serial"

	"github.com/ZaparooProject/go-ncp/detection"
	"github.com/ZaparooProject/go-ncp/spinel"
)

const defaultProps = "PROTOCOL_VERSION,NCP_VERSION,INTERFACE_TYPE,HWADDR,NET_STATE,NET_ROLE," +
	"PHY_CHAN,MAC_15_4_PANID,NET_NETWORK_NAME,IPV6_ADDRESS_TABLE"

type config struct {
	port    *string
	props   *string
	baud    *int
	timeout *time.Duration
	reset   *bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*config, error) {
	cfg := &config{
		port: fs.String("port", "",
			"Serial device or pty link (e.g., /dev/ttyACM0). Leave empty for auto-detection."),
		props:   fs.String("props", defaultProps, "Comma separated property names or numbers to read"),
		baud:    fs.Int("baud", 115200, "Baud rate"),
		timeout: fs.Duration("timeout", 5*time.Second, "Overall timeout"),
		reset:   fs.Bool("reset", false, "Send RESET before reading properties"),
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findPort returns the first detected port that looks like a radio
func findPort() (string, error) {
	opts := detection.DefaultOptions()
	opts.KnownOnly = true
	devices, err := detection.Detect(opts)
	if err != nil {
		return "", fmt.Errorf("port detection failed: %w", err)
	}
	if len(devices) == 0 {
		return "", errors.New("no radio found, use -port")
	}
	_, _ = fmt.Printf("Using %s (%s)\n", devices[0].Path, devices[0].Radio)
	return devices[0].Path, nil
}

func connect(cfg *config) (*client, error) {
	path := *cfg.port
	if path == "" {
		var err error
		if path, err = findPort(); err != nil {
			return nil, err
		}
	}
	port, err := serial.Open(path, &serial.Mode{BaudRate: *cfg.baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return newClient(port), nil
}

func reset(ctx context.Context, c *client) error {
	_, _ = fmt.Println("Resetting NCP...")
	status, err := c.reset(ctx)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	_, _ = fmt.Printf("NCP reported %s\n", status)
	return nil
}

// probe reads keys and writes one line per property to w
func probe(ctx context.Context, c *client, keys []spinel.PropKey, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, key := range keys {
		payload, err := c.get(ctx, key)
		var statusErr *StatusError
		switch {
		case errors.As(err, &statusErr):
			_, _ = fmt.Fprintf(tw, "%s\t<%s>\n", key, statusErr.Status)
			continue
		case err != nil:
			_ = tw.Flush()
			return err
		}

		value, err := decodeProperty(key, payload)
		if err != nil {
			_, _ = fmt.Fprintf(tw, "%s\t<%v>\n", key, err)
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", key, value)
	}
	return tw.Flush()
}

func run(cfg *config) error {
	keys, err := parseKeys(*cfg.props)
	if err != nil {
		return err
	}

	c, err := connect(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.close() }()

	ctx, cancel := context.WithTimeout(context.Background(), *cfg.timeout)
	defer cancel()

	if *cfg.reset {
		resetCtx, resetCancel := context.WithTimeout(ctx, time.Second)
		err := reset(resetCtx, c)
		resetCancel()
		if err != nil {
			return err
		}
	}
	return probe(ctx, c, keys, os.Stdout)
}

func main() {
	fs := flag.NewFlagSet("spinelprobe", flag.ExitOnError)
	cfg, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

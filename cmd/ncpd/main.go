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

// Command ncpd runs a Spinel network co-processor backed by a simulated
// Thread stack. Hosts reach it over a serial port, a pseudo-terminal or
// the process's own stdin/stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/gin-gonic/gin"

	"github.com/ZaparooProject/go-ncp/detection"
	"github.com/ZaparooProject/go-ncp/internal/config"
)

type flags struct {
	configPath  *string
	transport   *string
	port        *string
	link        *string
	adminAddr   *string
	logLevel    *string
	printConfig *bool
	listPorts   *bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*flags, error) {
	f := &flags{
		configPath: fs.String("config", "", "Path to a TOML configuration file"),
		transport:  fs.String("transport", "", "Host transport: uart, pty or stdio"),
		port:       fs.String("port", "", "Serial device for the uart transport (e.g., /dev/ttyACM0)"),
		link:       fs.String("link", "", "Symlink to create for the pty transport"),
		adminAddr:  fs.String("admin", "", "Admin HTTP listen address (e.g., 127.0.0.1:8080)"),
		logLevel:   fs.String("log-level", "", "Log level: debug, info, warn or error"),
		printConfig: fs.Bool("print-config", false,
			"Print the effective configuration as TOML and exit"),
		listPorts: fs.Bool("list-ports", false, "List serial ports that may carry a radio and exit"),
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// loadConfig reads the config file, if any, then applies flags that were
// set explicitly on the command line.
func loadConfig(fs *flag.FlagSet, f *flags) (config.Config, error) {
	cfg := config.Default()
	if *f.configPath != "" {
		loaded, err := config.Load(*f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "transport":
			cfg.Transport.Kind = *f.transport
		case "port":
			cfg.Transport.Port = *f.port
			if *f.transport == "" {
				cfg.Transport.Kind = config.TransportUART
			}
		case "link":
			cfg.Transport.Link = *f.link
		case "admin":
			cfg.Admin.Addr = *f.adminAddr
		case "log-level":
			cfg.Log.Level = *f.logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func listPorts(w io.Writer) error {
	devices, err := detection.Detect(detection.DefaultOptions())
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		_, _ = fmt.Fprintln(w, "No serial ports found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATH\tVID:PID\tSERIAL\tRADIO")
	for _, d := range devices {
		radio := d.Radio
		if radio == "" {
			radio = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Path, d.VIDPID, d.SerialNumber, radio)
	}
	return tw.Flush()
}

func main() {
	fs := flag.NewFlagSet("ncpd", flag.ExitOnError)
	f, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *f.listPorts {
		if err := listPorts(os.Stdout); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig(fs, f)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if *f.printConfig {
		if err := config.Write(os.Stdout, cfg); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	gin.SetMode(gin.ReleaseMode)
	logger := newLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("ncpd failed")
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
	logger.Info().Msg("ncpd stopped")
}

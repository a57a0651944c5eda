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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/internal/admin"
	"github.com/ZaparooProject/go-ncp/internal/config"
	"github.com/ZaparooProject/go-ncp/internal/simstack"
	"github.com/ZaparooProject/go-ncp/transport/pty"
	"github.com/ZaparooProject/go-ncp/transport/stream"
	"github.com/ZaparooProject/go-ncp/transport/uart"
)

func openTransport(ctx context.Context, cfg config.TransportConfig, logger zerolog.Logger) (ncp.Transport, error) {
	switch cfg.Kind {
	case config.TransportUART:
		t, err := uart.Open(ctx, uart.Config{
			Logger:      logger,
			Port:        cfg.Port,
			BaudRate:    cfg.BaudRate,
			OpenRetries: cfg.OpenRetries,
			RetryDelay:  cfg.RetryDelay,
			MaxFrame:    cfg.MaxFrame,
		})
		if err != nil {
			return nil, err
		}
		return t, nil

	case config.TransportPTY:
		opts := []pty.Option{pty.WithLogger(logger)}
		if cfg.Link != "" {
			opts = append(opts, pty.WithSymlink(cfg.Link))
		}
		if cfg.MaxFrame > 0 {
			opts = append(opts, pty.WithMaxFrameSize(cfg.MaxFrame))
		}
		t, err := pty.Open(opts...)
		if err != nil {
			return nil, err
		}
		return t, nil

	case config.TransportStdio:
		rw, err := newStdio()
		if err != nil {
			return nil, err
		}
		opts := []stream.Option{stream.WithLogger(logger)}
		if cfg.MaxFrame > 0 {
			opts = append(opts, stream.WithMaxFrameSize(cfg.MaxFrame))
		}
		return stream.New(rw, opts...), nil

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", cfg.Kind)
	}
}

// run wires the simulated stack, transport, engine and admin server, and
// blocks until ctx is cancelled or a component fails.
func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := ncp.NewEventLoop()
	pool := ncp.NewMessagePool(ncp.DefaultMessagePoolSize, ncp.DefaultMaxMessageSize)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := ncp.NewMetrics(registry)
	if err != nil {
		return err
	}

	simCfg := cfg.Stack.SimConfig()
	simCfg.Pool = pool
	simCfg.Logger = logger
	stack := simstack.New(simCfg)
	defer func() { _ = stack.Close() }()

	transport, err := openTransport(ctx, cfg.Transport, logger)
	if err != nil {
		return err
	}

	engine, err := ncp.New(transport, stack,
		ncp.WithLogger(logger),
		ncp.WithMetrics(metrics),
		ncp.WithEventLoop(loop),
		ncp.WithMessagePool(pool),
		ncp.WithNCPVersion(cfg.NCP.Version),
		ncp.WithMaxFrameSize(cfg.NCP.MaxFrameSize),
		ncp.WithQueueCapacity(cfg.NCP.QueueCapacity),
		ncp.WithChannelMask(cfg.NCP.ChannelMask()),
		ncp.WithScanDuration(cfg.NCP.ScanDuration),
	)
	if err != nil {
		_ = transport.Close()
		return err
	}
	if err := engine.Start(); err != nil {
		_ = transport.Close()
		return err
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)
	if cfg.Admin.Addr != "" {
		srv, err := admin.New(cfg.Admin.Addr, admin.Options{
			Logger:      logger.With().Str("component", "admin").Logger(),
			Registry:    registry,
			Status:      statusCollector(engine, stack, transport.Type()),
			Version:     cfg.NCP.Version,
			CORSOrigins: cfg.Admin.CORSOrigins,
		})
		if err != nil {
			_ = engine.Stop()
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(ctx); err != nil {
				errCh <- err
				cancel()
			}
		}()
	}

	logger.Info().
		Str("transport", string(transport.Type())).
		Str("network", cfg.Stack.NetworkName).
		Msg("ncpd running")

	runErr := engine.Run(ctx)
	cancel()
	wg.Wait()

	// The loop has stopped, so the engine can be torn down from here
	_ = stack.Close()
	stopErr := engine.Stop()

	select {
	case err := <-errCh:
		return err
	default:
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return stopErr
}

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

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/internal/simstack"
)

var errLoopUnresponsive = errors.New("event loop not responding")

type pendingStatus struct {
	Key string `json:"key"`
	TID uint8  `json:"tid"`
}

type daemonStatus struct {
	Pending     *pendingStatus    `json:"pending,omitempty"`
	Transport   string            `json:"transport"`
	Role        string            `json:"role"`
	NetworkName string            `json:"network_name"`
	PANID       string            `json:"panid"`
	LastStatus  string            `json:"last_status"`
	Addresses   []string          `json:"addresses"`
	Datagrams   simstack.Counters `json:"datagrams"`
	QueueDepth  int               `json:"queue_depth"`
	Channel     uint8             `json:"channel"`
	Sending     bool              `json:"sending"`
	Scanning    bool              `json:"scanning"`
}

// statusCollector snapshots the engine on its event loop
func statusCollector(n *ncp.NCP, stack *simstack.Stack, transport ncp.TransportType) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		ch := make(chan daemonStatus, 1)
		n.Loop().Post(func() {
			snap := n.Snapshot()
			st := daemonStatus{
				Transport:   string(transport),
				Role:        stack.DeviceRole().String(),
				NetworkName: stack.NetworkName(),
				PANID:       fmt.Sprintf("0x%04X", stack.PANID()),
				LastStatus:  snap.LastStatus.String(),
				Datagrams:   stack.Counters(),
				QueueDepth:  snap.QueueDepth,
				Channel:     stack.Channel(),
				Sending:     snap.Sending,
				Scanning:    stack.ActiveScanInProgress(),
			}
			for _, a := range stack.UnicastAddresses() {
				st.Addresses = append(st.Addresses, a.Address.String())
			}
			if snap.HasPending {
				st.Pending = &pendingStatus{Key: snap.PendingKey.String(), TID: snap.PendingHeader.TID()}
			}
			ch <- st
		})

		select {
		case st := <-ch:
			return st, nil
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", errLoopUnresponsive, ctx.Err())
		}
	}
}

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

package simstack

import (
	"fmt"

	ncp "github.com/ZaparooProject/go-ncp"
)

// HandleDatagram implements ncp.Stack. Datagrams are only accepted while
// attached; with loopback enabled they come straight back as inbound
// traffic.
func (s *Stack) HandleDatagram(msg *ncp.Message) error {
	defer msg.Free()

	s.mu.Lock()
	if !s.role.Attached() {
		s.counters.TxDropped++
		s.mu.Unlock()
		return fmt.Errorf("send datagram: %w", ncp.ErrInvalidState)
	}
	s.counters.TxDatagrams++
	loopback := s.loopback
	s.mu.Unlock()

	if loopback {
		return s.Inject(msg.Bytes())
	}
	return nil
}

// Inject delivers data to the event handler as a datagram received from
// the mesh.
func (s *Stack) Inject(data []byte) error {
	s.mu.Lock()
	handler := s.handler
	pool := s.pool
	s.mu.Unlock()

	if handler == nil || pool == nil {
		return fmt.Errorf("inject datagram: %w", ncp.ErrInvalidState)
	}
	msg, err := pool.NewWithData(data)
	if err != nil {
		return fmt.Errorf("inject datagram: %w", err)
	}

	s.mu.Lock()
	s.counters.RxDatagrams++
	s.mu.Unlock()

	handler.HandleReceivedDatagram(msg)
	return nil
}

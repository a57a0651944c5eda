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
	ncp "github.com/ZaparooProject/go-ncp"
)

// DeviceRole implements ncp.RoleController
func (s *Stack) DeviceRole() ncp.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// Enable brings the interface up in the detached role
func (s *Stack) Enable() error {
	s.mu.Lock()
	if s.role != ncp.RoleDisabled {
		s.mu.Unlock()
		return nil
	}
	s.setRole(ncp.RoleDetached, ShortAddressInvalid)
	handler := s.handler
	s.mu.Unlock()

	s.log.Debug().Msg("stack enabled")
	s.notifyAddresses(handler)
	return nil
}

// Disable takes the interface down, abandoning any attach or scan
func (s *Stack) Disable() error {
	s.mu.Lock()
	if s.role == ncp.RoleDisabled {
		s.mu.Unlock()
		return nil
	}
	s.stopAttach()
	scanHandler := s.stopScan()
	s.setRole(ncp.RoleDisabled, ShortAddressInvalid)
	handler := s.handler
	s.mu.Unlock()

	s.log.Debug().Msg("stack disabled")
	if scanHandler != nil {
		scanHandler.HandleActiveScanResult(nil)
	}
	s.notifyAddresses(handler)
	return nil
}

// BecomeDetached leaves the partition
func (s *Stack) BecomeDetached() error {
	s.mu.Lock()
	if s.role == ncp.RoleDisabled {
		s.mu.Unlock()
		return ncp.ErrInvalidState
	}
	s.stopAttach()
	changed := s.setRole(ncp.RoleDetached, ShortAddressInvalid)
	handler := s.handler
	s.mu.Unlock()

	if changed {
		s.notifyAddresses(handler)
	}
	return nil
}

// BecomeChild attaches as a child after the attach delay
func (s *Stack) BecomeChild() error {
	return s.attach(ncp.RoleChild)
}

// BecomeRouter attaches as a router after the attach delay
func (s *Stack) BecomeRouter() error {
	return s.attach(ncp.RoleRouter)
}

// BecomeLeader forms a new partition immediately
func (s *Stack) BecomeLeader() error {
	s.mu.Lock()
	if s.role == ncp.RoleDisabled {
		s.mu.Unlock()
		return ncp.ErrInvalidState
	}
	s.stopAttach()
	s.partition++
	changed := s.setRole(ncp.RoleLeader, routerRLOC16)
	handler := s.handler
	s.mu.Unlock()

	s.log.Info().Uint32("partition", s.PartitionID()).Msg("formed partition as leader")
	if changed {
		s.notifyAddresses(handler)
	}
	return nil
}

// attach switches directly between attached roles and otherwise starts
// the attach timer. A pending attach is retargeted to role.
func (s *Stack) attach(role ncp.Role) error {
	s.mu.Lock()
	switch {
	case s.role == ncp.RoleDisabled:
		s.mu.Unlock()
		return ncp.ErrInvalidState

	case s.role.Attached():
		changed := s.setRole(role, rloc16For(role))
		handler := s.handler
		s.mu.Unlock()
		if changed {
			s.notifyAddresses(handler)
		}
		return nil
	}

	s.attachRole = role
	if s.attachTimer == nil {
		s.attachTimer = s.schedule(s.attachDelay, s.completeAttach)
	}
	s.mu.Unlock()

	s.log.Debug().Stringer("role", role).Dur("delay", s.attachDelay).Msg("attaching")
	return nil
}

func (s *Stack) completeAttach() {
	s.mu.Lock()
	if s.closed || s.attachTimer == nil || s.role != ncp.RoleDetached {
		s.mu.Unlock()
		return
	}
	s.attachTimer = nil
	role := s.attachRole
	changed := s.setRole(role, rloc16For(role))
	handler := s.handler
	s.mu.Unlock()

	s.log.Info().Stringer("role", role).Msg("attached")
	if changed {
		s.notifyAddresses(handler)
	}
}

// stopAttach cancels a pending attach; the caller holds mu
func (s *Stack) stopAttach() {
	s.cancelTimer(s.attachTimer)
	s.attachTimer = nil
	s.attachRole = ncp.RoleDisabled
}

// setRole updates the role and derived addresses; the caller holds mu.
// It reports whether the address set changed.
func (s *Stack) setRole(role ncp.Role, rloc16 uint16) bool {
	s.role = role
	s.rloc16 = rloc16
	return s.refreshAddresses()
}

func rloc16For(role ncp.Role) uint16 {
	if role == ncp.RoleChild {
		return childRLOC16
	}
	return routerRLOC16
}

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
	"time"

	ncp "github.com/ZaparooProject/go-ncp"
)

// scanState tracks an active scan, which visits one channel per duration
type scanState struct {
	handler  ncp.ScanHandler
	timer    *time.Timer
	channels []uint8
	duration time.Duration
	next     int
}

// ActiveScan implements ncp.Scanner. Channels outside 11-26 are ignored.
func (s *Stack) ActiveScan(channelMask uint32, duration time.Duration, handler ncp.ScanHandler) error {
	var channels []uint8
	for ch := uint8(minChannel); ch <= maxChannel; ch++ {
		if channelMask&(1<<ch) != 0 {
			channels = append(channels, ch)
		}
	}
	if len(channels) == 0 {
		return fmt.Errorf("%w: empty channel mask %#x", ncp.ErrInvalidArgs, channelMask)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.role == ncp.RoleDisabled:
		return ncp.ErrInvalidState
	case s.scan != nil:
		return ncp.ErrBusy
	}

	s.scan = &scanState{
		handler:  handler,
		channels: channels,
		duration: duration,
	}
	s.scan.timer = s.schedule(duration, s.scanStep)

	s.log.Debug().Int("channels", len(channels)).Dur("duration", duration).Msg("active scan started")
	return nil
}

// ActiveScanInProgress implements ncp.Scanner
func (s *Stack) ActiveScanInProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scan != nil
}

func (s *Stack) scanStep() {
	s.mu.Lock()
	scan := s.scan
	if s.closed || scan == nil {
		s.mu.Unlock()
		return
	}

	channel := scan.channels[scan.next]
	scan.next++
	var results []ncp.ActiveScanResult
	for _, n := range s.neighbors {
		if n.Channel == channel {
			results = append(results, n)
		}
	}

	done := scan.next >= len(scan.channels)
	if done {
		s.scan = nil
	} else {
		scan.timer = s.schedule(scan.duration, s.scanStep)
	}
	s.mu.Unlock()

	for i := range results {
		scan.handler.HandleActiveScanResult(&results[i])
	}
	if done {
		s.log.Debug().Msg("active scan finished")
		scan.handler.HandleActiveScanResult(nil)
	}
}

// stopScan cancels a running scan; the caller holds mu. The returned
// handler, if any, must be told the scan ended once mu is released.
func (s *Stack) stopScan() ncp.ScanHandler {
	if s.scan == nil {
		return nil
	}
	s.cancelTimer(s.scan.timer)
	handler := s.scan.handler
	s.scan = nil
	return handler
}

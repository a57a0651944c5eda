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
	"bytes"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/rs/zerolog"

	ncp "github.com/ZaparooProject/go-ncp"
)

// Counters reports datagram traffic through the stack
type Counters struct {
	TxDatagrams uint64
	RxDatagrams uint64
	TxDropped   uint64
}

// Stack is a simulated Thread stack implementing ncp.Stack.
//
// Thread Safety: all methods are safe for concurrent use. Event handler
// callbacks are made without internal locks held.
type Stack struct {
	handler     ncp.StackEventHandler
	pool        *ncp.MessagePool
	attachTimer *time.Timer
	scan        *scanState
	log         zerolog.Logger
	prefix      netip.Prefix
	name        string
	key         []byte
	neighbors   []ncp.ActiveScanResult
	addresses   []ncp.NetifAddress
	counters    Counters
	wg          sync.WaitGroup
	attachDelay time.Duration
	role        ncp.Role
	attachRole  ncp.Role
	partition   uint32
	keySequence uint32
	mu          sync.Mutex
	ext         [8]byte
	xpanid      [8]byte
	panid       uint16
	rloc16      uint16
	channel     uint8
	noise       int8
	loopback    bool
	closed      bool
}

var _ ncp.Stack = (*Stack)(nil)

// New creates a disabled stack from cfg
func New(cfg Config) *Stack {
	cfg.normalize()
	return &Stack{
		pool:        cfg.Pool,
		log:         cfg.Logger.With().Str("component", "simstack").Logger(),
		prefix:      cfg.MeshLocalPrefix,
		name:        cfg.NetworkName,
		key:         cfg.MasterKey,
		neighbors:   append([]ncp.ActiveScanResult(nil), cfg.Neighbors...),
		attachDelay: cfg.AttachDelay,
		role:        ncp.RoleDisabled,
		partition:   cfg.PartitionID,
		ext:         cfg.ExtAddress,
		xpanid:      cfg.ExtendedPANID,
		panid:       cfg.PANID,
		rloc16:      ShortAddressInvalid,
		channel:     cfg.Channel,
		noise:       cfg.NoiseFloor,
		loopback:    cfg.Loopback,
	}
}

// Close cancels pending attach and scan timers and waits for running
// callbacks to finish.
func (s *Stack) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cancelTimer(s.attachTimer)
	s.attachTimer = nil
	_ = s.stopScan()
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Counters returns a copy of the datagram counters
func (s *Stack) Counters() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

// SetEventHandler implements ncp.Stack
func (s *Stack) SetEventHandler(handler ncp.StackEventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// schedule runs fn after d; the caller holds mu
func (s *Stack) schedule(d time.Duration, fn func()) *time.Timer {
	s.wg.Add(1)
	return time.AfterFunc(d, func() {
		defer s.wg.Done()
		fn()
	})
}

// cancelTimer stops t; the caller holds mu
func (s *Stack) cancelTimer(t *time.Timer) {
	if t != nil && t.Stop() {
		s.wg.Done()
	}
}

// notifyAddresses reports an address change; the caller must not hold mu
func (s *Stack) notifyAddresses(handler ncp.StackEventHandler) {
	if handler != nil {
		handler.HandleUnicastAddressesChanged()
	}
}

// Channel implements ncp.NetworkParams
func (s *Stack) Channel() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// SetChannel implements ncp.NetworkParams
func (s *Stack) SetChannel(channel uint8) error {
	if channel < minChannel || channel > maxChannel {
		return fmt.Errorf("%w: channel %d", ncp.ErrInvalidArgs, channel)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = channel
	return nil
}

// PANID implements ncp.NetworkParams
func (s *Stack) PANID() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panid
}

// SetPANID implements ncp.NetworkParams
func (s *Stack) SetPANID(panid uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role.Attached() {
		return fmt.Errorf("%w: set PAN ID while attached", ncp.ErrInvalidState)
	}
	s.panid = panid
	return nil
}

// ExtendedPANID implements ncp.NetworkParams
func (s *Stack) ExtendedPANID() [8]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.xpanid
}

// SetExtendedPANID implements ncp.NetworkParams
func (s *Stack) SetExtendedPANID(xpanid [8]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.role.Attached() {
		return fmt.Errorf("%w: set extended PAN ID while attached", ncp.ErrInvalidState)
	}
	s.xpanid = xpanid
	return nil
}

// NetworkName implements ncp.NetworkParams
func (s *Stack) NetworkName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// SetNetworkName implements ncp.NetworkParams
func (s *Stack) SetNetworkName(name string) error {
	if len(name) > 16 {
		return fmt.Errorf("%w: network name longer than 16 bytes", ncp.ErrInvalidArgs)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	return nil
}

// MasterKey implements ncp.NetworkParams
func (s *Stack) MasterKey() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.key)
}

// SetMasterKey implements ncp.NetworkParams. Short keys are zero padded.
func (s *Stack) SetMasterKey(key []byte) error {
	if len(key) > keySize {
		return fmt.Errorf("%w: master key longer than %d bytes", ncp.ErrInvalidArgs, keySize)
	}
	padded := make([]byte, keySize)
	copy(padded, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = padded
	return nil
}

// KeySequenceCounter implements ncp.NetworkParams
func (s *Stack) KeySequenceCounter() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keySequence
}

// SetKeySequenceCounter implements ncp.NetworkParams
func (s *Stack) SetKeySequenceCounter(counter uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keySequence = counter
	return nil
}

// MeshLocalPrefix implements ncp.NetworkParams
func (s *Stack) MeshLocalPrefix() (netip.Prefix, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefix, s.prefix.IsValid()
}

// SetMeshLocalPrefix implements ncp.NetworkParams. Addresses derived from
// the prefix are reassigned.
func (s *Stack) SetMeshLocalPrefix(prefix netip.Prefix) error {
	if !prefix.Addr().Is6() || prefix.Bits() != meshLocalBits {
		return fmt.Errorf("%w: mesh-local prefix must be an IPv6 /64", ncp.ErrInvalidArgs)
	}

	s.mu.Lock()
	s.prefix = prefix.Masked()
	changed := s.refreshAddresses()
	handler := s.handler
	s.mu.Unlock()

	if changed {
		s.notifyAddresses(handler)
	}
	return nil
}

// ExtendedAddress implements ncp.LinkInfo
func (s *Stack) ExtendedAddress() [8]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ext
}

// ShortAddress implements ncp.LinkInfo
func (s *Stack) ShortAddress() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rloc16
}

// PartitionID implements ncp.LinkInfo
func (s *Stack) PartitionID() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partition
}

// NoiseFloor implements ncp.LinkInfo
func (s *Stack) NoiseFloor() int8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noise
}

// LeaderAddress implements ncp.LinkInfo. It fails while detached.
func (s *Stack) LeaderAddress() (netip.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.role.Attached() {
		return netip.Addr{}, ncp.ErrInvalidState
	}
	leader := uint16(peerLeaderRLOC16)
	if s.role == ncp.RoleLeader {
		leader = s.rloc16
	}
	return addressWithIID(s.prefix, locatorIID(leader)), nil
}

// UnicastAddresses implements ncp.LinkInfo
func (s *Stack) UnicastAddresses() []ncp.NetifAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ncp.NetifAddress(nil), s.addresses...)
}

// refreshAddresses recomputes the address set; the caller holds mu
func (s *Stack) refreshAddresses() bool {
	next := addressesFor(s.role, s.ext, s.prefix, s.rloc16)
	if equalAddresses(s.addresses, next) {
		return false
	}
	s.addresses = next
	return true
}

func equalAddresses(a, b []ncp.NetifAddress) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

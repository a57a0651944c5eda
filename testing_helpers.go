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
	"net/netip"
	"sync"
	"time"
)

// MockTransport records sent frames and lets tests inject inbound frames
// and send completions by hand.
type MockTransport struct {
	handler     FrameHandler
	sendErr     error
	openErr     error
	frames      [][]byte
	inFlight    int
	maxInFlight int
	mu          sync.Mutex
	opened      bool
	closed      bool
}

// NewMockTransport creates a new mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Open stores handler
func (m *MockTransport) Open(handler FrameHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return m.openErr
	}
	m.handler = handler
	m.opened = true
	m.closed = false
	return nil
}

// SendFrame records a copy of frame and marks it in flight
func (m *MockTransport) SendFrame(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.frames = append(m.frames, append([]byte(nil), frame...))
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	return nil
}

// Close marks the transport closed
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.handler = nil
	return nil
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// Inject delivers frame to the handler as if it had arrived from the host
func (m *MockTransport) Inject(frame []byte) {
	m.mu.Lock()
	handler := m.handler
	m.mu.Unlock()
	if handler != nil {
		handler.HandleFrame(frame)
	}
}

// Complete signals the send completion of the oldest in-flight frame
func (m *MockTransport) Complete() {
	m.mu.Lock()
	handler := m.handler
	if m.inFlight > 0 {
		m.inFlight--
	}
	m.mu.Unlock()
	if handler != nil {
		handler.HandleSendDone()
	}
}

// Frames returns copies of every frame sent so far
func (m *MockTransport) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.frames))
	for i, f := range m.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// LastFrame returns the most recent frame, or nil
func (m *MockTransport) LastFrame() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return nil
	}
	return append([]byte(nil), m.frames[len(m.frames)-1]...)
}

// ClearFrames forgets recorded frames
func (m *MockTransport) ClearFrames() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = nil
}

// InFlight returns the number of frames awaiting completion
func (m *MockTransport) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// MaxInFlight returns the highest InFlight value observed
func (m *MockTransport) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// SetSendError makes SendFrame fail with err; nil restores normal behaviour
func (m *MockTransport) SetSendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// SetOpenError makes Open fail with err
func (m *MockTransport) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// IsOpen reports whether Open succeeded and Close has not been called
func (m *MockTransport) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened && !m.closed
}

// MockStack is an in-memory Stack whose state tests set directly. Role
// transitions complete immediately unless AsyncAttach is set. Errors keyed
// by method name are returned instead of performing the call.
type MockStack struct {
	handler     StackEventHandler
	scanHandler ScanHandler
	Errors      map[string]error
	LeaderErr   error
	Datagrams   [][]byte
	Calls       []string
	Addresses   []NetifAddress
	Prefix      netip.Prefix
	Leader      netip.Addr
	Key         []byte
	Name        string
	ScanMask    uint32
	ScanTime    time.Duration
	KeySequence uint32
	Partition   uint32
	ExtAddress  [8]byte
	XPANID      [8]byte
	Role        Role
	PanID       uint16
	Short       uint16
	Chan        uint8
	Noise       int8
	Scanning    bool
	AsyncAttach bool
	mu          sync.Mutex
}

// NewMockStack creates a mock stack with plausible defaults
func NewMockStack() *MockStack {
	return &MockStack{
		Errors:     make(map[string]error),
		Chan:       11,
		PanID:      0xFACE,
		Short:      0xFFFE,
		Name:       "OpenThread",
		ExtAddress: [8]byte{0x18, 0xB4, 0x30, 0x00, 0x00, 0x00, 0x00, 0x01},
		XPANID:     [8]byte{0xDE, 0xAD, 0x00, 0xBE, 0xEF, 0x00, 0xCA, 0xFE},
		Key: []byte{
			0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
			0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		},
		Noise: -100,
	}
}

func (s *MockStack) call(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, name)
	return s.Errors[name]
}

// SetError makes the named method fail with err
func (s *MockStack) SetError(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors[method] = err
}

// SetEventHandler implements Stack
func (s *MockStack) SetEventHandler(handler StackEventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// Channel implements NetworkParams
func (s *MockStack) Channel() uint8 { return s.Chan }

// SetChannel implements NetworkParams
func (s *MockStack) SetChannel(channel uint8) error {
	if err := s.call("SetChannel"); err != nil {
		return err
	}
	if channel < 11 || channel > 26 {
		return fmt.Errorf("%w: channel %d", ErrInvalidArgs, channel)
	}
	s.Chan = channel
	return nil
}

// PANID implements NetworkParams
func (s *MockStack) PANID() uint16 { return s.PanID }

// SetPANID implements NetworkParams
func (s *MockStack) SetPANID(panid uint16) error {
	if err := s.call("SetPANID"); err != nil {
		return err
	}
	s.PanID = panid
	return nil
}

// ExtendedPANID implements NetworkParams
func (s *MockStack) ExtendedPANID() [8]byte { return s.XPANID }

// SetExtendedPANID implements NetworkParams
func (s *MockStack) SetExtendedPANID(xpanid [8]byte) error {
	if err := s.call("SetExtendedPANID"); err != nil {
		return err
	}
	s.XPANID = xpanid
	return nil
}

// NetworkName implements NetworkParams
func (s *MockStack) NetworkName() string { return s.Name }

// SetNetworkName implements NetworkParams
func (s *MockStack) SetNetworkName(name string) error {
	if err := s.call("SetNetworkName"); err != nil {
		return err
	}
	s.Name = name
	return nil
}

// MasterKey implements NetworkParams
func (s *MockStack) MasterKey() []byte { return s.Key }

// SetMasterKey implements NetworkParams
func (s *MockStack) SetMasterKey(key []byte) error {
	if err := s.call("SetMasterKey"); err != nil {
		return err
	}
	s.Key = key
	return nil
}

// KeySequenceCounter implements NetworkParams
func (s *MockStack) KeySequenceCounter() uint32 { return s.KeySequence }

// SetKeySequenceCounter implements NetworkParams
func (s *MockStack) SetKeySequenceCounter(counter uint32) error {
	if err := s.call("SetKeySequenceCounter"); err != nil {
		return err
	}
	s.KeySequence = counter
	return nil
}

// MeshLocalPrefix implements NetworkParams
func (s *MockStack) MeshLocalPrefix() (netip.Prefix, bool) {
	return s.Prefix, s.Prefix.IsValid()
}

// SetMeshLocalPrefix implements NetworkParams
func (s *MockStack) SetMeshLocalPrefix(prefix netip.Prefix) error {
	if err := s.call("SetMeshLocalPrefix"); err != nil {
		return err
	}
	s.Prefix = prefix
	return nil
}

// ExtendedAddress implements LinkInfo
func (s *MockStack) ExtendedAddress() [8]byte { return s.ExtAddress }

// ShortAddress implements LinkInfo
func (s *MockStack) ShortAddress() uint16 { return s.Short }

// PartitionID implements LinkInfo
func (s *MockStack) PartitionID() uint32 { return s.Partition }

// NoiseFloor implements LinkInfo
func (s *MockStack) NoiseFloor() int8 { return s.Noise }

// LeaderAddress implements LinkInfo
func (s *MockStack) LeaderAddress() (netip.Addr, error) {
	if s.LeaderErr != nil {
		return netip.Addr{}, s.LeaderErr
	}
	if !s.Leader.IsValid() {
		return netip.Addr{}, ErrInvalidState
	}
	return s.Leader, nil
}

// UnicastAddresses implements LinkInfo
func (s *MockStack) UnicastAddresses() []NetifAddress { return s.Addresses }

// DeviceRole implements RoleController
func (s *MockStack) DeviceRole() Role { return s.Role }

// Enable implements RoleController
func (s *MockStack) Enable() error {
	if err := s.call("Enable"); err != nil {
		return err
	}
	if s.Role == RoleDisabled {
		s.Role = RoleDetached
	}
	return nil
}

// Disable implements RoleController
func (s *MockStack) Disable() error {
	if err := s.call("Disable"); err != nil {
		return err
	}
	s.Role = RoleDisabled
	return nil
}

// BecomeDetached implements RoleController
func (s *MockStack) BecomeDetached() error {
	return s.become("BecomeDetached", RoleDetached)
}

// BecomeChild implements RoleController
func (s *MockStack) BecomeChild() error {
	return s.become("BecomeChild", RoleChild)
}

// BecomeRouter implements RoleController
func (s *MockStack) BecomeRouter() error {
	return s.become("BecomeRouter", RoleRouter)
}

// BecomeLeader implements RoleController
func (s *MockStack) BecomeLeader() error {
	return s.become("BecomeLeader", RoleLeader)
}

func (s *MockStack) become(name string, role Role) error {
	if err := s.call(name); err != nil {
		return err
	}
	if s.Role == RoleDisabled {
		return ErrInvalidState
	}
	if s.AsyncAttach && role.Attached() {
		return nil
	}
	s.Role = role
	return nil
}

// ActiveScan implements Scanner. Results are fed by EmitScanResult.
func (s *MockStack) ActiveScan(channelMask uint32, duration time.Duration, handler ScanHandler) error {
	if err := s.call("ActiveScan"); err != nil {
		return err
	}
	if s.Scanning {
		return ErrBusy
	}
	s.Scanning = true
	s.ScanMask = channelMask
	s.ScanTime = duration
	s.scanHandler = handler
	return nil
}

// ActiveScanInProgress implements Scanner
func (s *MockStack) ActiveScanInProgress() bool { return s.Scanning }

// HandleDatagram implements Stack
func (s *MockStack) HandleDatagram(msg *Message) error {
	defer msg.Free()
	if err := s.call("HandleDatagram"); err != nil {
		return err
	}
	s.Datagrams = append(s.Datagrams, append([]byte(nil), msg.Bytes()...))
	return nil
}

// EmitDatagram delivers msg to the registered event handler
func (s *MockStack) EmitDatagram(msg *Message) {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler == nil {
		msg.Free()
		return
	}
	handler.HandleReceivedDatagram(msg)
}

// EmitAddressesChanged notifies the registered event handler
func (s *MockStack) EmitAddressesChanged() {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler != nil {
		handler.HandleUnicastAddressesChanged()
	}
}

// EmitScanResult reports result to the scan handler; nil ends the scan
func (s *MockStack) EmitScanResult(result *ActiveScanResult) {
	handler := s.scanHandler
	if result == nil {
		s.Scanning = false
		s.scanHandler = nil
	}
	if handler != nil {
		handler.HandleActiveScanResult(result)
	}
}

// CallCount returns how many times the named method was called
func (s *MockStack) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, c := range s.Calls {
		if c == method {
			count++
		}
	}
	return count
}

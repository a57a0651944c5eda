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
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	ncp "github.com/ZaparooProject/go-ncp"
)

const waitFor = 2 * time.Second

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	datagrams [][]byte
	results   []*ncp.ActiveScanResult
	mu        sync.Mutex
	changes   int
	scanDone  bool
}

func (r *recorder) HandleReceivedDatagram(msg *ncp.Message) {
	defer msg.Free()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datagrams = append(r.datagrams, append([]byte(nil), msg.Bytes()...))
}

func (r *recorder) HandleUnicastAddressesChanged() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes++
}

func (r *recorder) HandleActiveScanResult(result *ncp.ActiveScanResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if result == nil {
		r.scanDone = true
		return
	}
	copied := *result
	r.results = append(r.results, &copied)
}

func (r *recorder) changeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes
}

func (r *recorder) isScanDone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scanDone
}

func newStack(t *testing.T, mutate func(*Config)) (*Stack, *recorder) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.AttachDelay = 5 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}
	s := New(cfg)
	r := &recorder{}
	s.SetEventHandler(r)
	t.Cleanup(func() { _ = s.Close() })
	return s, r
}

func addrs(list []ncp.NetifAddress) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Address.String())
	}
	return out
}

func TestStack_Defaults(t *testing.T) {
	t.Parallel()
	s, _ := newStack(t, nil)

	assert.Equal(t, ncp.RoleDisabled, s.DeviceRole())
	assert.Equal(t, uint8(DefaultChannel), s.Channel())
	assert.Equal(t, uint16(DefaultPANID), s.PANID())
	assert.Equal(t, DefaultNetworkName, s.NetworkName())
	assert.Equal(t, uint16(ShortAddressInvalid), s.ShortAddress())
	assert.Len(t, s.MasterKey(), 16)
	assert.Empty(t, s.UnicastAddresses())

	prefix, ok := s.MeshLocalPrefix()
	require.True(t, ok)
	assert.Equal(t, "fdde:ad00:beef::/64", prefix.String())

	_, err := s.LeaderAddress()
	require.ErrorIs(t, err, ncp.ErrInvalidState)
}

func TestStack_AttachAsRouter(t *testing.T) {
	t.Parallel()
	s, r := newStack(t, nil)

	require.ErrorIs(t, s.BecomeRouter(), ncp.ErrInvalidState)

	require.NoError(t, s.Enable())
	assert.Equal(t, ncp.RoleDetached, s.DeviceRole())
	assert.Equal(t, []string{
		"fe80::1ab4:3000:0:1",
		"fdde:ad00:beef:0:300:0:30:b418",
	}, addrs(s.UnicastAddresses()))
	assert.Equal(t, 1, r.changeCount())

	require.NoError(t, s.BecomeRouter())
	require.Eventually(t, func() bool {
		return s.DeviceRole() == ncp.RoleRouter
	}, waitFor, time.Millisecond)

	assert.Equal(t, uint16(0x0400), s.ShortAddress())
	assert.Contains(t, addrs(s.UnicastAddresses()), "fdde:ad00:beef::ff:fe00:400")
	assert.Equal(t, 2, r.changeCount())

	leader, err := s.LeaderAddress()
	require.NoError(t, err)
	assert.Equal(t, "fdde:ad00:beef::ff:fe00:2800", leader.String())

	// Switching between attached roles is immediate
	require.NoError(t, s.BecomeChild())
	assert.Equal(t, ncp.RoleChild, s.DeviceRole())
	assert.Equal(t, uint16(0x0401), s.ShortAddress())
}

func TestStack_BecomeLeader(t *testing.T) {
	t.Parallel()
	s, r := newStack(t, nil)
	require.NoError(t, s.Enable())
	before := s.PartitionID()

	require.NoError(t, s.BecomeLeader())
	assert.Equal(t, ncp.RoleLeader, s.DeviceRole())
	assert.Equal(t, before+1, s.PartitionID())
	assert.Equal(t, 2, r.changeCount())

	leader, err := s.LeaderAddress()
	require.NoError(t, err)
	assert.Equal(t, "fdde:ad00:beef::ff:fe00:400", leader.String())

	require.ErrorIs(t, s.SetPANID(0x1234), ncp.ErrInvalidState)
}

func TestStack_DetachCancelsAttach(t *testing.T) {
	t.Parallel()
	s, _ := newStack(t, func(c *Config) { c.AttachDelay = 20 * time.Millisecond })
	require.NoError(t, s.Enable())
	require.NoError(t, s.BecomeRouter())
	require.NoError(t, s.BecomeDetached())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, ncp.RoleDetached, s.DeviceRole())
}

func TestStack_Disable(t *testing.T) {
	t.Parallel()
	s, r := newStack(t, nil)
	require.NoError(t, s.Enable())
	require.NoError(t, s.BecomeLeader())

	require.NoError(t, s.Disable())
	assert.Equal(t, ncp.RoleDisabled, s.DeviceRole())
	assert.Empty(t, s.UnicastAddresses())
	assert.Equal(t, 3, r.changeCount())

	// Idempotent
	require.NoError(t, s.Disable())
	assert.Equal(t, 3, r.changeCount())
}

func TestStack_Setters(t *testing.T) {
	t.Parallel()

	t.Run("channel range", func(t *testing.T) {
		t.Parallel()
		s, _ := newStack(t, nil)
		require.ErrorIs(t, s.SetChannel(10), ncp.ErrInvalidArgs)
		require.ErrorIs(t, s.SetChannel(27), ncp.ErrInvalidArgs)
		require.NoError(t, s.SetChannel(26))
		assert.Equal(t, uint8(26), s.Channel())
	})

	t.Run("master key padding", func(t *testing.T) {
		t.Parallel()
		s, _ := newStack(t, nil)
		require.NoError(t, s.SetMasterKey([]byte{0xAA, 0xBB}))
		want := make([]byte, 16)
		want[0], want[1] = 0xAA, 0xBB
		assert.Equal(t, want, s.MasterKey())
		require.ErrorIs(t, s.SetMasterKey(make([]byte, 17)), ncp.ErrInvalidArgs)
	})

	t.Run("network name length", func(t *testing.T) {
		t.Parallel()
		s, _ := newStack(t, nil)
		require.ErrorIs(t, s.SetNetworkName("a-very-long-network-name"), ncp.ErrInvalidArgs)
		require.NoError(t, s.SetNetworkName("Home"))
		assert.Equal(t, "Home", s.NetworkName())
	})

	t.Run("mesh local prefix", func(t *testing.T) {
		t.Parallel()
		s, r := newStack(t, nil)
		require.NoError(t, s.Enable())

		require.ErrorIs(t, s.SetMeshLocalPrefix(netip.MustParsePrefix("fd00::/48")), ncp.ErrInvalidArgs)
		require.NoError(t, s.SetMeshLocalPrefix(netip.MustParsePrefix("fd11:2233:4455:6677::/64")))
		assert.Contains(t, addrs(s.UnicastAddresses()), "fd11:2233:4455:6677:300:0:30:b418")
		assert.Equal(t, 2, r.changeCount())
	})
}

func TestStack_ActiveScan(t *testing.T) {
	t.Parallel()
	neighbors := []ncp.ActiveScanResult{
		{NetworkName: "Alpha", Channel: 15, PANID: 0x1111, RSSI: -40},
		{NetworkName: "Beta", Channel: 20, PANID: 0x2222, RSSI: -70},
		{NetworkName: "Gamma", Channel: 25, PANID: 0x3333, RSSI: -80},
	}
	s, r := newStack(t, func(c *Config) { c.Neighbors = neighbors })

	require.ErrorIs(t, s.ActiveScan(1<<15, time.Millisecond, r), ncp.ErrInvalidState)
	require.NoError(t, s.Enable())
	require.ErrorIs(t, s.ActiveScan(1<<5, time.Millisecond, r), ncp.ErrInvalidArgs)

	mask := uint32(1<<15 | 1<<20 | 1<<5)
	require.NoError(t, s.ActiveScan(mask, time.Millisecond, r))
	require.ErrorIs(t, s.ActiveScan(mask, time.Millisecond, r), ncp.ErrBusy)

	require.Eventually(t, r.isScanDone, waitFor, time.Millisecond)
	assert.False(t, s.ActiveScanInProgress())

	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.results, 2)
	assert.Equal(t, "Alpha", r.results[0].NetworkName)
	assert.Equal(t, "Beta", r.results[1].NetworkName)
}

func TestStack_DisableEndsScan(t *testing.T) {
	t.Parallel()
	s, r := newStack(t, nil)
	require.NoError(t, s.Enable())
	require.NoError(t, s.ActiveScan(ncp.DefaultChannelMask, time.Hour, r))

	require.NoError(t, s.Disable())
	assert.True(t, r.isScanDone())
	assert.False(t, s.ActiveScanInProgress())
}

func TestStack_Datagrams(t *testing.T) {
	t.Parallel()
	pool := ncp.NewMessagePool(4, 128)
	s, r := newStack(t, func(c *Config) {
		c.Pool = pool
		c.Loopback = true
	})

	send := func() error {
		msg, err := pool.NewWithData([]byte{0x60, 0x00, 0x00, 0x00})
		require.NoError(t, err)
		return s.HandleDatagram(msg)
	}

	require.NoError(t, s.Enable())
	require.ErrorIs(t, send(), ncp.ErrInvalidState)

	require.NoError(t, s.BecomeLeader())
	require.NoError(t, send())

	r.mu.Lock()
	assert.Equal(t, [][]byte{{0x60, 0x00, 0x00, 0x00}}, r.datagrams)
	r.mu.Unlock()

	assert.Equal(t, Counters{TxDatagrams: 1, RxDatagrams: 1, TxDropped: 1}, s.Counters())
	assert.Equal(t, 0, pool.InUse())
}

func TestStack_CloseCancelsAttach(t *testing.T) {
	t.Parallel()
	s, r := newStack(t, func(c *Config) { c.AttachDelay = time.Hour })
	require.NoError(t, s.Enable())
	require.NoError(t, s.BecomeRouter())
	require.NoError(t, s.Close())
	assert.Equal(t, ncp.RoleDetached, s.DeviceRole())
	assert.Equal(t, 1, r.changeCount())
}

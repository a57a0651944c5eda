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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	h := newHarness(t, WithMetrics(metrics))
	h.inject(0x81, 0x02, 0x21) // sent
	h.inject(0x82, 0x02, 0x36) // deferred
	h.inject(0x83, 0x02, 0x43) // supersedes
	h.inject(0x01, 0x02, 0x21) // no valid flag
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.sendInFlight))

	h.complete()
	h.complete()
	h.inject(0x84, 0x03, 0x00, 0x00) // FAILURE

	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.framesReceived))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.framesSent.WithLabelValues("PROP_VALUE_IS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.framesDropped.WithLabelValues(dropInvalidHeader)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.pendingGets.WithLabelValues(pendingStored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.pendingGets.WithLabelValues(pendingSuperseded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.pendingGets.WithLabelValues(pendingServed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.statusReplies.WithLabelValues("FAILURE")))

	_, err = NewMetrics(reg)
	require.Error(t, err, "duplicate registration")
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.frameReceived()
		m.frameDropped(dropBusy)
		m.setSending(true)
		m.setQueueDepth(3)
	})
}

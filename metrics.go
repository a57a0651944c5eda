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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZaparooProject/go-ncp/spinel"
)

// Drop reasons recorded by Metrics.FramesDropped
const (
	dropInvalidHeader  = "invalid_header"
	dropEncodeOverflow = "encode_overflow"
	dropSendError      = "send_error"
	dropBusy           = "busy"
	dropQueueFull      = "queue_full"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	framesReceived  prometheus.Counter
	framesSent      *prometheus.CounterVec
	framesDropped   *prometheus.CounterVec
	statusReplies   *prometheus.CounterVec
	pendingGets     *prometheus.CounterVec
	datagramsQueued prometheus.Counter
	queueDepth      prometheus.Gauge
	sendInFlight    prometheus.Gauge
}

// NewMetrics creates the engine collectors and registers them with reg.
// Passing nil skips registration, which suits tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ncp",
			Subsystem: "frames",
			Name:      "received_total",
			Help:      "Frames delivered by the transport.",
		}),
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ncp",
			Subsystem: "frames",
			Name:      "sent_total",
			Help:      "Frames handed to the transport, by command.",
		}, []string{"command"}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ncp",
			Subsystem: "frames",
			Name:      "dropped_total",
			Help:      "Inbound or outbound frames discarded, by reason.",
		}, []string{"reason"}),
		statusReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ncp",
			Subsystem: "replies",
			Name:      "status_total",
			Help:      "LAST_STATUS replies, by status.",
		}, []string{"status"}),
		pendingGets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ncp",
			Subsystem: "scheduler",
			Name:      "pending_gets_total",
			Help:      "Deferred GET slot activity, by outcome.",
		}, []string{"outcome"}),
		datagramsQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ncp",
			Subsystem: "scheduler",
			Name:      "datagrams_queued_total",
			Help:      "Inbound datagrams queued behind an in-flight frame.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ncp",
			Subsystem: "scheduler",
			Name:      "queue_depth",
			Help:      "Datagrams waiting for the transport.",
		}),
		sendInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ncp",
			Subsystem: "scheduler",
			Name:      "send_in_flight",
			Help:      "1 while a frame is awaiting its send completion.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.framesReceived, m.framesSent, m.framesDropped, m.statusReplies,
		m.pendingGets, m.datagramsQueued, m.queueDepth, m.sendInFlight,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) frameReceived() {
	if m == nil {
		return
	}
	m.framesReceived.Inc()
}

func (m *Metrics) frameSent(cmd spinel.Command) {
	if m == nil {
		return
	}
	m.framesSent.WithLabelValues(cmd.String()).Inc()
}

func (m *Metrics) frameDropped(reason string) {
	if m == nil {
		return
	}
	m.framesDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) statusReply(status spinel.Status) {
	if m == nil {
		return
	}
	m.statusReplies.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) pendingGet(outcome string) {
	if m == nil {
		return
	}
	m.pendingGets.WithLabelValues(outcome).Inc()
}

func (m *Metrics) datagramQueued() {
	if m == nil {
		return
	}
	m.datagramsQueued.Inc()
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

func (m *Metrics) setSending(sending bool) {
	if m == nil {
		return
	}
	if sending {
		m.sendInFlight.Set(1)
		return
	}
	m.sendInFlight.Set(0)
}

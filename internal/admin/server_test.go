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

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status StatusFunc, origins ...string) *Server {
	t.Helper()
	s, err := New("127.0.0.1:0", Options{
		Logger:      zerolog.Nop(),
		Registry:    prometheus.NewRegistry(),
		Status:      status,
		Version:     "test",
		CORSOrigins: origins,
	})
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	t.Parallel()
	s := newServer(t, nil)

	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ncpd", body["service"])
	assert.Equal(t, "test", body["version"])
}

func TestServer_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   StatusFunc
		name     string
		wantBody string
		wantCode int
	}{
		{
			name:     "no status func",
			wantCode: http.StatusNotImplemented,
			wantBody: `{"error":"status unavailable"}`,
		},
		{
			name: "status collected",
			status: func(context.Context) (any, error) {
				return map[string]any{"role": "leader", "queue_depth": 2}, nil
			},
			wantCode: http.StatusOK,
			wantBody: `{"queue_depth":2,"role":"leader"}`,
		},
		{
			name: "engine not responding",
			status: func(ctx context.Context) (any, error) {
				return nil, errors.New("event loop not responding")
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"error":"event loop not responding"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newServer(t, tt.status)
			rec := get(t, s.Handler(), "/status")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()
	s := newServer(t, nil)

	_ = get(t, s.Handler(), "/health")
	_ = get(t, s.Handler(), "/nowhere")

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ncpd_http_requests_total{method="GET",path="/health",status="200"} 1`)
	assert.Contains(t, body, `ncpd_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()
	s := newServer(t, nil, "http://localhost:3000/")

	rec := get(t, s.Handler(), "/health", "Origin", "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, s.Handler(), "/health", "Origin", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_RunShutdown(t *testing.T) {
	t.Parallel()
	s := newServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the listener a moment, then stop it
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNew_RequiresRegistry(t *testing.T) {
	t.Parallel()
	_, err := New(":0", Options{})
	require.Error(t, err)
}

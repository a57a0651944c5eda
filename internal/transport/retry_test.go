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

package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPermanent = errors.New("permanent")

func TestWithRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr     error
		name        string
		succeedOn   int
		failOn      int
		maxRetries  int
		wantCalls   int
		wantRetries int
	}{
		{name: "first attempt", succeedOn: 1, maxRetries: 3, wantCalls: 1},
		{name: "after retries", succeedOn: 3, maxRetries: 3, wantCalls: 3, wantRetries: 2},
		{name: "exhausted", maxRetries: 2, wantCalls: 3, wantRetries: 2, wantErr: ErrRetriesExhausted},
		{name: "permanent error", failOn: 2, maxRetries: 5, wantCalls: 2, wantRetries: 1, wantErr: errPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calls, retries := 0, 0
			cfg := RetryConfig{
				Description: "open",
				MaxRetries:  tt.maxRetries,
				OnRetry:     func(int) { retries++ },
			}

			got, err := WithRetry(context.Background(), cfg, func() (int, bool, error) {
				calls++
				if calls == tt.failOn {
					return 0, false, errPermanent
				}
				if calls == tt.succeedOn {
					return calls, false, nil
				}
				return 0, true, nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantRetries, retries)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.succeedOn, got)
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := WithRetry(ctx, RetryConfig{MaxRetries: 5, RetryDelay: time.Second}, func() (struct{}, bool, error) {
		return struct{}{}, true, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

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
	"context"
	"sync"
	"sync/atomic"
)

// EventLoop runs posted tasks one at a time on a single goroutine. All NCP
// state is owned by the loop, so tasks never need their own locking.
type EventLoop struct {
	wake  chan struct{}
	queue []func()
	mu    sync.Mutex
}

// NewEventLoop creates an idle event loop.
func NewEventLoop() *EventLoop {
	return &EventLoop{wake: make(chan struct{}, 1)}
}

// Post schedules fn to run on the loop. It is safe to call from any
// goroutine, including from inside a running task.
func (l *EventLoop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is cancelled.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunPending runs queued tasks on the calling goroutine until the queue is
// empty, including tasks posted while draining. It returns the number of
// tasks executed. Use it in place of Run when the caller owns the loop.
func (l *EventLoop) RunPending() int {
	count := 0
	for {
		fn := l.next()
		if fn == nil {
			return count
		}
		fn()
		count++
	}
}

// Pending returns the number of queued tasks
func (l *EventLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *EventLoop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// Tasklet is a deferred task that coalesces: posting it while it is
// already queued has no effect. It is cleared just before it runs, so a
// post from inside the handler schedules one more run.
type Tasklet struct {
	loop   *EventLoop
	fn     func()
	posted atomic.Bool
}

// NewTasklet binds fn to loop.
func NewTasklet(loop *EventLoop, fn func()) *Tasklet {
	return &Tasklet{loop: loop, fn: fn}
}

// Post schedules the tasklet unless it is already pending.
func (t *Tasklet) Post() {
	if !t.posted.CompareAndSwap(false, true) {
		return
	}
	t.loop.Post(func() {
		t.posted.Store(false)
		t.fn()
	})
}

// Pending reports whether the tasklet is queued.
func (t *Tasklet) Pending() bool {
	return t.posted.Load()
}

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

package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ZaparooProject/go-ncp/internal/hdlc"
	"github.com/ZaparooProject/go-ncp/spinel"
)

// ErrHostClosed is returned once the link to the NCP has gone away
var ErrHostClosed = errors.New("virtual host closed")

// VirtualHost plays the host side of an HDLC-lite Spinel link. Replies
// carrying a TID are matched to requests; unsolicited frames queue up
// until read with Next.
type VirtualHost struct {
	conn        io.ReadWriteCloser
	replies     map[uint8]chan Reply
	unsolicited chan Reply
	done        chan struct{}
	errs        []error
	wg          sync.WaitGroup
	mu          sync.Mutex
	writeMu     sync.Mutex
	closeOnce   sync.Once
}

// NewVirtualHost starts reading frames from conn
func NewVirtualHost(conn io.ReadWriteCloser) *VirtualHost {
	h := &VirtualHost{
		conn:        conn,
		replies:     make(map[uint8]chan Reply),
		unsolicited: make(chan Reply, 64),
		done:        make(chan struct{}),
	}
	h.wg.Add(1)
	go h.readLoop()
	return h
}

func (h *VirtualHost) readLoop() {
	defer h.wg.Done()
	defer close(h.done)

	dec := hdlc.NewDecoder(0, h.deliver)
	dec.OnError(func(err error) {
		h.mu.Lock()
		h.errs = append(h.errs, err)
		h.mu.Unlock()
	})

	buf := make([]byte, 256)
	for {
		n, err := h.conn.Read(buf)
		if n > 0 {
			_, _ = dec.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (h *VirtualHost) deliver(frame []byte) {
	r, err := ParseReply(frame)
	if err != nil {
		h.mu.Lock()
		h.errs = append(h.errs, err)
		h.mu.Unlock()
		return
	}

	if !r.Unsolicited() {
		h.mu.Lock()
		ch, ok := h.replies[r.Header.TID()]
		if ok {
			delete(h.replies, r.Header.TID())
		}
		h.mu.Unlock()
		if ok {
			ch <- r
			return
		}
	}

	select {
	case h.unsolicited <- r:
	default:
		h.mu.Lock()
		h.errs = append(h.errs, fmt.Errorf("unsolicited queue full, dropped %s %s", r.Command, r.Key))
		h.mu.Unlock()
	}
}

// Send writes frame without waiting for an answer
func (h *VirtualHost) Send(frame []byte) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if _, err := h.conn.Write(hdlc.Encode(nil, frame)); err != nil {
		return fmt.Errorf("%w: %w", ErrHostClosed, err)
	}
	return nil
}

// Request writes frame and waits for the reply with the same TID. Frames
// with TID 0 get no reply and are rejected.
func (h *VirtualHost) Request(ctx context.Context, frame []byte) (Reply, error) {
	if len(frame) == 0 {
		return Reply{}, errors.New("empty frame")
	}
	tid := spinel.Header(frame[0]).TID()
	if tid == 0 {
		return Reply{}, errors.New("request needs a non-zero TID")
	}

	ch := make(chan Reply, 1)
	h.mu.Lock()
	if _, busy := h.replies[tid]; busy {
		h.mu.Unlock()
		return Reply{}, fmt.Errorf("TID %d already awaiting a reply", tid)
	}
	h.replies[tid] = ch
	h.mu.Unlock()

	if err := h.Send(frame); err != nil {
		h.forget(tid)
		return Reply{}, err
	}

	select {
	case r := <-ch:
		return r, nil
	case <-h.done:
		h.forget(tid)
		return Reply{}, ErrHostClosed
	case <-ctx.Done():
		h.forget(tid)
		return Reply{}, ctx.Err()
	}
}

func (h *VirtualHost) forget(tid uint8) {
	h.mu.Lock()
	delete(h.replies, tid)
	h.mu.Unlock()
}

// Next returns the next unsolicited frame
func (h *VirtualHost) Next(ctx context.Context) (Reply, error) {
	select {
	case r := <-h.unsolicited:
		return r, nil
	case <-h.done:
		select {
		case r := <-h.unsolicited:
			return r, nil
		default:
			return Reply{}, ErrHostClosed
		}
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

// WaitFor skips unsolicited frames until one reports key
func (h *VirtualHost) WaitFor(ctx context.Context, key spinel.PropKey) (Reply, error) {
	for {
		r, err := h.Next(ctx)
		if err != nil {
			return Reply{}, err
		}
		if r.Command == spinel.CmdPropValueIs && r.Key == key {
			return r, nil
		}
	}
}

// Errors returns framing and parse errors seen so far
func (h *VirtualHost) Errors() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.errs...)
}

// Close closes the link and waits for the reader to exit
func (h *VirtualHost) Close() error {
	var err error
	h.closeOnce.Do(func() {
		err = h.conn.Close()
		h.wg.Wait()
	})
	return err
}

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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ZaparooProject/go-ncp/internal/hdlc"
	"github.com/ZaparooProject/go-ncp/spinel"
)

var errClosed = errors.New("link closed")

// client issues one request at a time over an HDLC-lite link and matches
// replies by TID. Unsolicited frames are discarded.
type client struct {
	conn    io.ReadWriteCloser
	frames  chan []byte
	done    chan struct{}
	wg      sync.WaitGroup
	nextTID uint8
}

func newClient(conn io.ReadWriteCloser) *client {
	c := &client{
		conn:    conn,
		frames:  make(chan []byte, 16),
		done:    make(chan struct{}),
		nextTID: 1,
	}
	c.wg.Add(1)
	go c.readLoop()
	return c
}

func (c *client) readLoop() {
	defer c.wg.Done()
	defer close(c.done)

	dec := hdlc.NewDecoder(0, func(frame []byte) {
		select {
		case c.frames <- append([]byte(nil), frame...):
		default:
		}
	})
	buf := make([]byte, 512)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			_, _ = dec.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (c *client) tid() uint8 {
	tid := c.nextTID
	c.nextTID = c.nextTID%0x0F + 1
	return tid
}

// request sends cmd for key and waits for the reply with the same TID.
// The reply is returned as its command, key and payload.
func (c *client) request(
	ctx context.Context, cmd spinel.Command, key spinel.PropKey, value []byte,
) (spinel.Command, spinel.PropKey, []byte, error) {
	h := spinel.NewHeader(0, c.tid())
	frame := spinel.NewEncoder(0).FrameHeader(h, cmd, key).Raw(value).Bytes()
	if frame == nil {
		return 0, 0, nil, fmt.Errorf("%s %s: value too large", cmd, key)
	}
	if _, err := c.conn.Write(hdlc.Encode(nil, frame)); err != nil {
		return 0, 0, nil, fmt.Errorf("write %s: %w", cmd, err)
	}

	for {
		select {
		case reply := <-c.frames:
			d := spinel.NewDecoder(reply)
			rh, err := d.Header()
			if err != nil || rh.TID() != h.TID() {
				continue
			}
			rcmd, err := d.Command()
			if err != nil {
				return 0, 0, nil, err
			}
			var rkey spinel.PropKey
			if rcmd.IsPropertyCommand() {
				if rkey, err = d.PropKey(); err != nil {
					return 0, 0, nil, err
				}
			}
			return rcmd, rkey, d.Rest(), nil
		case <-c.done:
			return 0, 0, nil, errClosed
		case <-ctx.Done():
			return 0, 0, nil, ctx.Err()
		}
	}
}

// get reads one property. A LAST_STATUS reply to a get of another key is
// returned as a StatusError.
func (c *client) get(ctx context.Context, key spinel.PropKey) ([]byte, error) {
	cmd, rkey, payload, err := c.request(ctx, spinel.CmdPropValueGet, key, nil)
	if err != nil {
		return nil, err
	}
	if cmd != spinel.CmdPropValueIs {
		return nil, fmt.Errorf("get %s: unexpected %s", key, cmd)
	}
	if rkey == spinel.PropLastStatus && key != spinel.PropLastStatus {
		status, err := spinel.NewDecoder(payload).UintPacked()
		if err != nil {
			return nil, err
		}
		return nil, &StatusError{Key: key, Status: spinel.Status(status)}
	}
	return payload, nil
}

// reset sends RESET and waits for the unsolicited status that follows it
func (c *client) reset(ctx context.Context) (spinel.Status, error) {
	frame := spinel.NewEncoder(0).FrameHeader(spinel.NewHeader(0, c.tid()), spinel.CmdReset, 0).Bytes()
	if _, err := c.conn.Write(hdlc.Encode(nil, frame)); err != nil {
		return 0, fmt.Errorf("write %s: %w", spinel.CmdReset, err)
	}

	for {
		select {
		case reply := <-c.frames:
			d := spinel.NewDecoder(reply)
			h, err := d.Header()
			if err != nil || h.TID() != 0 {
				continue
			}
			cmd, err := d.Command()
			if err != nil || cmd != spinel.CmdPropValueIs {
				continue
			}
			if key, err := d.PropKey(); err != nil || key != spinel.PropLastStatus {
				continue
			}
			status, err := d.UintPacked()
			if err != nil {
				return 0, err
			}
			return spinel.Status(status), nil
		case <-c.done:
			return 0, errClosed
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

func (c *client) close() error {
	err := c.conn.Close()
	c.wg.Wait()
	return err
}

// StatusError reports a property request answered with a status code
type StatusError struct {
	Key    spinel.PropKey
	Status spinel.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Status)
}

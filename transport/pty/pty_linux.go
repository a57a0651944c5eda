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

//go:build linux

package pty

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/transport/stream"
)

// Transport is an HDLC-framed Spinel transport on the master side of a
// pseudo-terminal. Hosts connect to SlavePath.
type Transport struct {
	*stream.Transport
	slave     *os.File
	slavePath string
	link      string
}

// Open allocates a pseudo-terminal in raw mode.
func Open(opts ...Option) (*Transport, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	fd, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("pty: open ptmx: %w", err)
	}
	master := os.NewFile(uintptr(fd), "/dev/ptmx")

	slave, slavePath, err := openSlave(fd)
	if err != nil {
		_ = master.Close()
		return nil, err
	}

	if o.link != "" {
		_ = os.Remove(o.link)
		if err := os.Symlink(slavePath, o.link); err != nil {
			_ = slave.Close()
			_ = master.Close()
			return nil, fmt.Errorf("pty: symlink %s: %w", o.link, err)
		}
	}

	streamOpts := []stream.Option{
		stream.WithLogger(o.log.With().Str("pty", slavePath).Logger()),
		stream.WithType(ncp.TransportPTY),
	}
	if o.maxFrame > 0 {
		streamOpts = append(streamOpts, stream.WithMaxFrameSize(o.maxFrame))
	}

	o.log.Info().Str("slave", slavePath).Str("link", o.link).Msg("pseudo-terminal ready")
	return &Transport{
		Transport: stream.New(master, streamOpts...),
		slave:     slave,
		slavePath: slavePath,
		link:      o.link,
	}, nil
}

// openSlave unlocks and opens the slave side. Holding the slave open keeps
// master reads from failing with EIO while no host is attached.
func openSlave(masterFD int) (*os.File, string, error) {
	if err := unix.IoctlSetPointerInt(masterFD, unix.TIOCSPTLCK, 0); err != nil {
		return nil, "", fmt.Errorf("pty: unlock: %w", err)
	}
	n, err := unix.IoctlGetInt(masterFD, unix.TIOCGPTN)
	if err != nil {
		return nil, "", fmt.Errorf("pty: get slave number: %w", err)
	}
	path := "/dev/pts/" + strconv.Itoa(n)

	sfd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, "", fmt.Errorf("pty: open %s: %w", path, err)
	}
	if err := makeRaw(sfd); err != nil {
		_ = unix.Close(sfd)
		return nil, "", err
	}
	return os.NewFile(uintptr(sfd), path), path, nil
}

func makeRaw(fd int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("pty: get termios: %w", err)
	}
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("pty: set termios: %w", err)
	}
	return nil
}

// SlavePath returns the device hosts should open
func (t *Transport) SlavePath() string {
	return t.slavePath
}

// Close stops the transport and releases the pseudo-terminal.
func (t *Transport) Close() error {
	err := t.Transport.Close()
	if cerr := t.slave.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
		err = errors.Join(err, cerr)
	}
	if t.link != "" {
		_ = os.Remove(t.link)
	}
	return err
}

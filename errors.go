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
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-ncp/spinel"
)

// Stack errors. Stack implementations return these (optionally wrapped) so
// the engine can translate them into Spinel status codes.
var (
	ErrFailed         = errors.New("operation failed")
	ErrDropped        = errors.New("message dropped")
	ErrNoBufs         = errors.New("insufficient buffers")
	ErrBusy           = errors.New("busy")
	ErrParse          = errors.New("parse error")
	ErrInvalidArgs    = errors.New("invalid arguments")
	ErrNotImplemented = errors.New("not implemented")
	ErrInvalidState   = errors.New("invalid state")
	ErrSecurity       = errors.New("security check failed")
	ErrAlready        = errors.New("already in requested state")
	ErrNotFound       = errors.New("item not found")
)

// Engine errors
var (
	ErrNilTransport     = errors.New("transport is required")
	ErrNilStack         = errors.New("stack is required")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// CommandError records why a command was answered with a non-OK status
// instead of being executed.
type CommandError struct {
	Err     error
	Op      string
	Command spinel.Command
	Key     spinel.PropKey
	Status  spinel.Status
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.Command)
	if e.Command.IsPropertyCommand() {
		msg += " " + e.Key.String()
	}
	msg += ": " + e.Status.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// statusTable maps stack errors to status codes. Order matters only for
// errors that wrap more than one sentinel.
var statusTable = []struct {
	err    error
	status spinel.Status
}{
	{ErrFailed, spinel.StatusFailure},
	{ErrDropped, spinel.StatusDropped},
	{ErrNoBufs, spinel.StatusNoMem},
	{ErrBusy, spinel.StatusBusy},
	{ErrParse, spinel.StatusParseError},
	{spinel.ErrParse, spinel.StatusParseError},
	{ErrInvalidArgs, spinel.StatusInvalidArgument},
	{ErrNotImplemented, spinel.StatusUnimplemented},
	{ErrInvalidState, spinel.StatusInvalidState},
	{ErrSecurity, spinel.StatusSecurityError},
	{ErrAlready, spinel.StatusAlready},
	{ErrNotFound, spinel.StatusItemNotFound},
	{spinel.ErrInternal, spinel.StatusInternalError},
	{spinel.ErrInvalidValue, spinel.StatusInternalError},
}

// StatusFromError translates an error into the status reported to the host.
// A nil error is StatusOK; anything unrecognised is StatusFailure.
func StatusFromError(err error) spinel.Status {
	if err == nil {
		return spinel.StatusOK
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Status
	}
	for _, entry := range statusTable {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return spinel.StatusFailure
}

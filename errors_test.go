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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZaparooProject/go-ncp/spinel"
)

func TestStatusFromError(t *testing.T) {
	t.Parallel()

	_, _, parseErr := spinel.Unpack([]byte{0x01}, "S")

	tests := []struct {
		err  error
		name string
		want spinel.Status
	}{
		{name: "Nil", err: nil, want: spinel.StatusOK},
		{name: "Failed", err: ErrFailed, want: spinel.StatusFailure},
		{name: "Dropped", err: ErrDropped, want: spinel.StatusDropped},
		{name: "No_Buffers", err: ErrNoBufs, want: spinel.StatusNoMem},
		{name: "Busy", err: ErrBusy, want: spinel.StatusBusy},
		{name: "Parse", err: ErrParse, want: spinel.StatusParseError},
		{name: "Codec_Parse", err: parseErr, want: spinel.StatusParseError},
		{name: "Invalid_Args", err: ErrInvalidArgs, want: spinel.StatusInvalidArgument},
		{name: "Not_Implemented", err: ErrNotImplemented, want: spinel.StatusUnimplemented},
		{name: "Invalid_State", err: ErrInvalidState, want: spinel.StatusInvalidState},
		{name: "Security", err: ErrSecurity, want: spinel.StatusSecurityError},
		{name: "Already", err: ErrAlready, want: spinel.StatusAlready},
		{name: "Not_Found", err: ErrNotFound, want: spinel.StatusItemNotFound},
		{name: "Codec_Internal", err: spinel.ErrInternal, want: spinel.StatusInternalError},
		{name: "Codec_Invalid_Value", err: spinel.ErrInvalidValue, want: spinel.StatusInternalError},
		{name: "Wrapped", err: fmt.Errorf("stack: %w", ErrBusy), want: spinel.StatusBusy},
		{name: "Unknown", err: errors.New("radio on fire"), want: spinel.StatusFailure},
		{
			name: "Command_Error",
			err:  &CommandError{Op: "get", Status: spinel.StatusPropertyNotFound},
			want: spinel.StatusPropertyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}

func TestCommandError(t *testing.T) {
	t.Parallel()

	err := &CommandError{
		Op:      "set",
		Command: spinel.CmdPropValueSet,
		Key:     spinel.PropPhyChan,
		Status:  spinel.StatusInvalidArgument,
		Err:     ErrInvalidArgs,
	}
	assert.Equal(t, "set PROP_VALUE_SET PHY_CHAN: INVALID_ARGUMENT: invalid arguments", err.Error())
	assert.ErrorIs(t, err, ErrInvalidArgs)

	noKey := &CommandError{Op: "dispatch", Command: spinel.CmdReset, Status: spinel.StatusInvalidInterface}
	assert.Equal(t, "dispatch RESET: INVALID_INTERFACE", noKey.Error())
}

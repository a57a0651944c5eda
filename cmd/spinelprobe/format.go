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
	"encoding/hex"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	ncp "github.com/ZaparooProject/go-ncp"
	"github.com/ZaparooProject/go-ncp/spinel"
)

// decodeProperty renders payload using the NCP's declared format for key.
// Keys without a known format are shown as hex.
func decodeProperty(key spinel.PropKey, payload []byte) (string, error) {
	format, ok := ncp.PropertyFormat(key)
	if !ok {
		return hex.EncodeToString(payload), nil
	}
	values, _, err := spinel.Unpack(payload, format)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return formatValues(values), nil
}

func formatValues(values []spinel.Value) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, formatValue(v))
	}
	return strings.Join(parts, " ")
}

func formatValue(v spinel.Value) string {
	switch v := v.(type) {
	case spinel.Bool:
		return strconv.FormatBool(bool(v))
	case spinel.Uint8:
		return strconv.FormatUint(uint64(v), 10)
	case spinel.Int8:
		return strconv.FormatInt(int64(v), 10)
	case spinel.Uint16:
		return fmt.Sprintf("0x%04X", uint16(v))
	case spinel.Int16:
		return strconv.FormatInt(int64(v), 10)
	case spinel.Uint32:
		return strconv.FormatUint(uint64(v), 10)
	case spinel.Int32:
		return strconv.FormatInt(int64(v), 10)
	case spinel.UintPacked:
		return strconv.FormatUint(uint64(v), 10)
	case spinel.IPv6Addr:
		return netip.AddrFrom16(v).String()
	case spinel.EUI64:
		return hexColon(v[:])
	case spinel.EUI48:
		return hexColon(v[:])
	case spinel.UTF8:
		return strconv.Quote(string(v))
	case spinel.Data:
		return hex.EncodeToString(v)
	case spinel.LenData:
		return hex.EncodeToString(v)
	case spinel.Struct:
		return "(" + formatValues(v) + ")"
	case spinel.Array:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, "("+formatValues(item)+")")
		}
		return "[" + strings.Join(items, " ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func hexColon(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return strings.Join(parts, ":")
}

// parseKeys resolves a comma separated list of property names or numbers
func parseKeys(list string) ([]spinel.PropKey, error) {
	var keys []spinel.PropKey
	for _, field := range strings.Split(list, ",") {
		name := strings.ToUpper(strings.TrimSpace(field))
		if name == "" {
			continue
		}
		if key, ok := spinel.LookupPropKey(name); ok {
			keys = append(keys, key)
			continue
		}
		n, err := strconv.ParseUint(name, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("unknown property %q", field)
		}
		keys = append(keys, spinel.PropKey(n))
	}
	return keys, nil
}

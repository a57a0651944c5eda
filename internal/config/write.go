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

package config

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// Write renders cfg as TOML that Load accepts
func Write(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(toFile(cfg)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func toFile(cfg Config) fileConfig {
	channels := make([]int, 0, len(cfg.NCP.ScanChannels))
	for _, ch := range cfg.NCP.ScanChannels {
		channels = append(channels, int(ch))
	}

	neighbors := make([]fileNeighbor, 0, len(cfg.Stack.Neighbors))
	for _, n := range cfg.Stack.Neighbors {
		neighbors = append(neighbors, fileNeighbor{
			Name:          n.NetworkName,
			ExtendedPANID: hex.EncodeToString(n.ExtPANID[:]),
			ExtAddress:    hex.EncodeToString(n.ExtAddress[:]),
			PANID:         int(n.PANID),
			Channel:       int(n.Channel),
			RSSI:          int(n.RSSI),
			Joinable:      n.IsJoinable,
		})
	}

	corsOrigins := cfg.Admin.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{}
	}

	return fileConfig{
		Log: fileLog{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		},
		Admin: fileAdmin{
			Addr:        cfg.Admin.Addr,
			CORSOrigins: corsOrigins,
		},
		Transport: fileTransport{
			Type:        cfg.Transport.Kind,
			Port:        cfg.Transport.Port,
			Link:        cfg.Transport.Link,
			RetryDelay:  cfg.Transport.RetryDelay.String(),
			Baud:        cfg.Transport.BaudRate,
			OpenRetries: cfg.Transport.OpenRetries,
			MaxFrame:    cfg.Transport.MaxFrame,
		},
		NCP: fileNCP{
			Version:       cfg.NCP.Version,
			ScanDuration:  cfg.NCP.ScanDuration.String(),
			ScanChannels:  channels,
			MaxFrameSize:  cfg.NCP.MaxFrameSize,
			QueueCapacity: cfg.NCP.QueueCapacity,
		},
		Stack: fileStack{
			NetworkName:     cfg.Stack.NetworkName,
			ExtendedPANID:   hex.EncodeToString(cfg.Stack.ExtendedPANID[:]),
			MasterKey:       hex.EncodeToString(cfg.Stack.MasterKey),
			ExtAddress:      hex.EncodeToString(cfg.Stack.ExtAddress[:]),
			MeshLocalPrefix: cfg.Stack.MeshLocalPrefix.String(),
			AttachDelay:     cfg.Stack.AttachDelay.String(),
			Neighbors:       neighbors,
			PANID:           int(cfg.Stack.PANID),
			Channel:         int(cfg.Stack.Channel),
			Loopback:        cfg.Stack.Loopback,
		},
	}
}

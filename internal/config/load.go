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
	"net/netip"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	ncp "github.com/ZaparooProject/go-ncp"
)

type fileConfig struct {
	Log       fileLog       `toml:"log"`
	Admin     fileAdmin     `toml:"admin"`
	Transport fileTransport `toml:"transport"`
	NCP       fileNCP       `toml:"ncp"`
	Stack     fileStack     `toml:"stack"`
}

type fileLog struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type fileAdmin struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

type fileTransport struct {
	Type        string `toml:"type"`
	Port        string `toml:"port"`
	Link        string `toml:"link"`
	RetryDelay  string `toml:"retry_delay"`
	Baud        int    `toml:"baud"`
	OpenRetries int    `toml:"open_retries"`
	MaxFrame    int    `toml:"max_frame"`
}

type fileNCP struct {
	Version       string `toml:"version"`
	ScanDuration  string `toml:"scan_duration"`
	ScanChannels  []int  `toml:"scan_channels"`
	MaxFrameSize  int    `toml:"max_frame_size"`
	QueueCapacity int    `toml:"queue_capacity"`
}

type fileStack struct {
	NetworkName     string         `toml:"network_name"`
	ExtendedPANID   string         `toml:"extended_panid"`
	MasterKey       string         `toml:"master_key"`
	ExtAddress      string         `toml:"ext_address"`
	MeshLocalPrefix string         `toml:"mesh_local_prefix"`
	AttachDelay     string         `toml:"attach_delay"`
	Neighbors       []fileNeighbor `toml:"neighbors"`
	PANID           int            `toml:"panid"`
	Channel         int            `toml:"channel"`
	Loopback        bool           `toml:"loopback"`
}

type fileNeighbor struct {
	Name          string `toml:"name"`
	ExtendedPANID string `toml:"extended_panid"`
	ExtAddress    string `toml:"ext_address"`
	PANID         int    `toml:"panid"`
	Channel       int    `toml:"channel"`
	RSSI          int    `toml:"rssi"`
	Joinable      bool   `toml:"joinable"`
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("load config %s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}

	if err := apply(&cfg, &raw, meta); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

//nolint:gocyclo,funlen // one branch per key
func apply(cfg *Config, raw *fileConfig, meta toml.MetaData) error {
	var err error

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(raw.Log.Level))
	}
	if meta.IsDefined("log", "format") {
		cfg.Log.Format = strings.ToLower(strings.TrimSpace(raw.Log.Format))
	}

	if meta.IsDefined("admin", "addr") {
		cfg.Admin.Addr = strings.TrimSpace(raw.Admin.Addr)
	}
	if meta.IsDefined("admin", "cors_origins") {
		cfg.Admin.CORSOrigins = raw.Admin.CORSOrigins
	}

	if meta.IsDefined("transport", "type") {
		cfg.Transport.Kind = strings.ToLower(strings.TrimSpace(raw.Transport.Type))
	}
	if meta.IsDefined("transport", "port") {
		cfg.Transport.Port = strings.TrimSpace(raw.Transport.Port)
	}
	if meta.IsDefined("transport", "link") {
		cfg.Transport.Link = strings.TrimSpace(raw.Transport.Link)
	}
	if meta.IsDefined("transport", "baud") {
		cfg.Transport.BaudRate = raw.Transport.Baud
	}
	if meta.IsDefined("transport", "open_retries") {
		cfg.Transport.OpenRetries = raw.Transport.OpenRetries
	}
	if meta.IsDefined("transport", "retry_delay") {
		if cfg.Transport.RetryDelay, err = parseDuration("transport.retry_delay", raw.Transport.RetryDelay); err != nil {
			return err
		}
	}
	if meta.IsDefined("transport", "max_frame") {
		cfg.Transport.MaxFrame = raw.Transport.MaxFrame
	}

	if meta.IsDefined("ncp", "version") {
		cfg.NCP.Version = raw.NCP.Version
	}
	if meta.IsDefined("ncp", "max_frame_size") {
		cfg.NCP.MaxFrameSize = raw.NCP.MaxFrameSize
	}
	if meta.IsDefined("ncp", "queue_capacity") {
		cfg.NCP.QueueCapacity = raw.NCP.QueueCapacity
	}
	if meta.IsDefined("ncp", "scan_duration") {
		if cfg.NCP.ScanDuration, err = parseDuration("ncp.scan_duration", raw.NCP.ScanDuration); err != nil {
			return err
		}
	}
	if meta.IsDefined("ncp", "scan_channels") {
		cfg.NCP.ScanChannels = make([]uint8, 0, len(raw.NCP.ScanChannels))
		for _, ch := range raw.NCP.ScanChannels {
			if ch < 0 || ch > 31 {
				return fmt.Errorf("%w: ncp.scan_channels: channel %d", ErrInvalid, ch)
			}
			cfg.NCP.ScanChannels = append(cfg.NCP.ScanChannels, uint8(ch))
		}
	}

	return applyStack(&cfg.Stack, &raw.Stack, meta)
}

//nolint:gocyclo // one branch per key
func applyStack(cfg *StackConfig, raw *fileStack, meta toml.MetaData) error {
	var err error

	if meta.IsDefined("stack", "network_name") {
		cfg.NetworkName = raw.NetworkName
	}
	if meta.IsDefined("stack", "panid") {
		if cfg.PANID, err = parseUint16("stack.panid", raw.PANID); err != nil {
			return err
		}
	}
	if meta.IsDefined("stack", "channel") {
		if raw.Channel < 0 || raw.Channel > 0xFF {
			return fmt.Errorf("%w: stack.channel %d", ErrInvalid, raw.Channel)
		}
		cfg.Channel = uint8(raw.Channel)
	}
	if meta.IsDefined("stack", "extended_panid") {
		if cfg.ExtendedPANID, err = parseEUI64("stack.extended_panid", raw.ExtendedPANID); err != nil {
			return err
		}
	}
	if meta.IsDefined("stack", "ext_address") {
		if cfg.ExtAddress, err = parseEUI64("stack.ext_address", raw.ExtAddress); err != nil {
			return err
		}
	}
	if meta.IsDefined("stack", "master_key") {
		if cfg.MasterKey, err = parseHex("stack.master_key", raw.MasterKey); err != nil {
			return err
		}
	}
	if meta.IsDefined("stack", "mesh_local_prefix") {
		if cfg.MeshLocalPrefix, err = netip.ParsePrefix(strings.TrimSpace(raw.MeshLocalPrefix)); err != nil {
			return fmt.Errorf("%w: stack.mesh_local_prefix: %w", ErrInvalid, err)
		}
	}
	if meta.IsDefined("stack", "attach_delay") {
		if cfg.AttachDelay, err = parseDuration("stack.attach_delay", raw.AttachDelay); err != nil {
			return err
		}
	}
	if meta.IsDefined("stack", "loopback") {
		cfg.Loopback = raw.Loopback
	}
	if meta.IsDefined("stack", "neighbors") {
		cfg.Neighbors = make([]ncp.ActiveScanResult, 0, len(raw.Neighbors))
		for i, n := range raw.Neighbors {
			neighbor, err := parseNeighbor(i, n)
			if err != nil {
				return err
			}
			cfg.Neighbors = append(cfg.Neighbors, neighbor)
		}
	}
	return nil
}

func parseNeighbor(index int, n fileNeighbor) (ncp.ActiveScanResult, error) {
	key := fmt.Sprintf("stack.neighbors[%d]", index)
	result := ncp.ActiveScanResult{
		NetworkName: n.Name,
		IsJoinable:  n.Joinable,
		IsNative:    true,
		Version:     2,
	}

	if n.Channel < 11 || n.Channel > 26 {
		return result, fmt.Errorf("%w: %s.channel %d outside 11-26", ErrInvalid, key, n.Channel)
	}
	result.Channel = uint8(n.Channel)

	if n.RSSI < -128 || n.RSSI > 127 {
		return result, fmt.Errorf("%w: %s.rssi %d", ErrInvalid, key, n.RSSI)
	}
	result.RSSI = int8(n.RSSI)

	var err error
	if result.PANID, err = parseUint16(key+".panid", n.PANID); err != nil {
		return result, err
	}
	if n.ExtendedPANID != "" {
		if result.ExtPANID, err = parseEUI64(key+".extended_panid", n.ExtendedPANID); err != nil {
			return result, err
		}
	}
	if n.ExtAddress != "" {
		if result.ExtAddress, err = parseEUI64(key+".ext_address", n.ExtAddress); err != nil {
			return result, err
		}
	}
	return result, nil
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}
	return d, nil
}

func parseUint16(key string, v int) (uint16, error) {
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("%w: %s %d out of range", ErrInvalid, key, v)
	}
	return uint16(v), nil
}

// parseHex accepts hex with optional colon or dash separators
func parseHex(key, s string) ([]byte, error) {
	clean := strings.NewReplacer(":", "", "-", "", " ", "").Replace(strings.TrimSpace(s))
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}
	return b, nil
}

func parseEUI64(key, s string) ([8]byte, error) {
	var out [8]byte
	b, err := parseHex(key, s)
	if err != nil {
		return out, err
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("%w: %s must be 8 bytes, got %d", ErrInvalid, key, len(b))
	}
	copy(out[:], b)
	return out, nil
}

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

package spinel

import "fmt"

// Header bit layout
const (
	HeaderFlag     = 0x80 // Valid-frame flag, must be set on every frame
	HeaderIIDShift = 4
	HeaderIIDMask  = 0x70
	HeaderTIDMask  = 0x0F
	HeaderDefault  = HeaderFlag // Unsolicited frame on interface 0
)

// MaxPackedUintSize bounds the length of a packed unsigned integer encoding.
const MaxPackedUintSize = 5

// Command identifies the operation carried by a frame.
type Command uint32

// Command catalog shared with the host
const (
	CmdNoop              Command = 0
	CmdReset             Command = 1
	CmdPropValueGet      Command = 2
	CmdPropValueSet      Command = 3
	CmdPropValueInsert   Command = 4
	CmdPropValueRemove   Command = 5
	CmdPropValueIs       Command = 6
	CmdPropValueInserted Command = 7
	CmdPropValueRemoved  Command = 8
)

var commandNames = map[Command]string{
	CmdNoop:              "NOOP",
	CmdReset:             "RESET",
	CmdPropValueGet:      "PROP_VALUE_GET",
	CmdPropValueSet:      "PROP_VALUE_SET",
	CmdPropValueInsert:   "PROP_VALUE_INSERT",
	CmdPropValueRemove:   "PROP_VALUE_REMOVE",
	CmdPropValueIs:       "PROP_VALUE_IS",
	CmdPropValueInserted: "PROP_VALUE_INSERTED",
	CmdPropValueRemoved:  "PROP_VALUE_REMOVED",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CMD_%d", uint32(c))
}

// IsPropertyCommand reports whether the command carries a property key.
func (c Command) IsPropertyCommand() bool {
	return c >= CmdPropValueGet && c <= CmdPropValueRemoved
}

// Status is a Spinel status code, reported through the LAST_STATUS property.
type Status uint32

// Status catalog
const (
	StatusOK               Status = 0
	StatusFailure          Status = 1
	StatusUnimplemented    Status = 2
	StatusInvalidArgument  Status = 3
	StatusInvalidState     Status = 4
	StatusInvalidCommand   Status = 5
	StatusInvalidInterface Status = 6
	StatusInternalError    Status = 7
	StatusSecurityError    Status = 8
	StatusParseError       Status = 9
	StatusInProgress       Status = 10
	StatusNoMem            Status = 11
	StatusBusy             Status = 12
	StatusPropertyNotFound Status = 13
	StatusDropped          Status = 14
	StatusEmpty            Status = 15
	StatusCmdTooBig        Status = 16
	StatusNoAck            Status = 17
	StatusCCAFailure       Status = 18
	StatusAlready          Status = 19
	StatusItemNotFound     Status = 20
	StatusResetPowerOn     Status = 112
	StatusResetExternal    Status = 113
	StatusResetSoftware    Status = 114
	StatusResetFault       Status = 115
	StatusResetCrash       Status = 116
	StatusResetAssert      Status = 117
	StatusResetOther       Status = 118
	StatusResetUnknown     Status = 119
	StatusResetWatchdog    Status = 120
)

var statusNames = map[Status]string{
	StatusOK:               "OK",
	StatusFailure:          "FAILURE",
	StatusUnimplemented:    "UNIMPLEMENTED",
	StatusInvalidArgument:  "INVALID_ARGUMENT",
	StatusInvalidState:     "INVALID_STATE",
	StatusInvalidCommand:   "INVALID_COMMAND",
	StatusInvalidInterface: "INVALID_INTERFACE",
	StatusInternalError:    "INTERNAL_ERROR",
	StatusSecurityError:    "SECURITY_ERROR",
	StatusParseError:       "PARSE_ERROR",
	StatusInProgress:       "IN_PROGRESS",
	StatusNoMem:            "NOMEM",
	StatusBusy:             "BUSY",
	StatusPropertyNotFound: "PROPERTY_NOT_FOUND",
	StatusDropped:          "DROPPED",
	StatusEmpty:            "EMPTY",
	StatusCmdTooBig:        "CMD_TOO_BIG",
	StatusNoAck:            "NO_ACK",
	StatusCCAFailure:       "CCA_FAILURE",
	StatusAlready:          "ALREADY",
	StatusItemNotFound:     "ITEM_NOT_FOUND",
	StatusResetPowerOn:     "RESET_POWER_ON",
	StatusResetExternal:    "RESET_EXTERNAL",
	StatusResetSoftware:    "RESET_SOFTWARE",
	StatusResetFault:       "RESET_FAULT",
	StatusResetCrash:       "RESET_CRASH",
	StatusResetAssert:      "RESET_ASSERT",
	StatusResetOther:       "RESET_OTHER",
	StatusResetUnknown:     "RESET_UNKNOWN",
	StatusResetWatchdog:    "RESET_WATCHDOG",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", uint32(s))
}

// PropKey names a property in the fixed catalog.
type PropKey uint32

// Core properties
const (
	PropLastStatus      PropKey = 0
	PropProtocolVersion PropKey = 1
	PropNCPVersion      PropKey = 2
	PropInterfaceType   PropKey = 3
	PropVendorID        PropKey = 4
	PropCaps            PropKey = 5
	PropInterfaceCount  PropKey = 6
	PropPowerState      PropKey = 7
	PropHWAddr          PropKey = 8
	PropLock            PropKey = 9
)

// PHY properties
const (
	PropPhyEnabled       PropKey = 0x20
	PropPhyChan          PropKey = 0x21
	PropPhyChanSupported PropKey = 0x22
	PropPhyFreq          PropKey = 0x23
	PropPhyCCAThreshold  PropKey = 0x24
	PropPhyTxPower       PropKey = 0x25
	PropPhyRSSI          PropKey = 0x26
)

// MAC properties
const (
	PropMacScanState  PropKey = 0x30
	PropMacScanMask   PropKey = 0x31
	PropMacScanBeacon PropKey = 0x33
	PropMac154LAddr   PropKey = 0x34
	PropMac154SAddr   PropKey = 0x35
	PropMac154PANID   PropKey = 0x36
)

// NET properties
const (
	PropNetEnabled     PropKey = 0x40
	PropNetState       PropKey = 0x41
	PropNetRole        PropKey = 0x42
	PropNetNetworkName PropKey = 0x43
	PropNetXPANID      PropKey = 0x44
	PropNetMasterKey   PropKey = 0x45
	PropNetKeySequence PropKey = 0x46
	PropNetPartitionID PropKey = 0x47
)

// Thread properties
const (
	PropThreadLeader PropKey = 0x50
	PropThreadParent PropKey = 0x51
)

// IPv6 properties
const (
	PropIPv6LLAddr       PropKey = 0x60
	PropIPv6MLAddr       PropKey = 0x61
	PropIPv6MLPrefix     PropKey = 0x62
	PropIPv6AddressTable PropKey = 0x63
	PropIPv6RouteTable   PropKey = 0x64
)

// Stream properties
const (
	PropStreamDebug       PropKey = 0x70
	PropStreamRaw         PropKey = 0x71
	PropStreamNet         PropKey = 0x72
	PropStreamNetInsecure PropKey = 0x73
)

var propNames = map[PropKey]string{
	PropLastStatus:        "LAST_STATUS",
	PropProtocolVersion:   "PROTOCOL_VERSION",
	PropNCPVersion:        "NCP_VERSION",
	PropInterfaceType:     "INTERFACE_TYPE",
	PropVendorID:          "VENDOR_ID",
	PropCaps:              "CAPS",
	PropInterfaceCount:    "INTERFACE_COUNT",
	PropPowerState:        "POWER_STATE",
	PropHWAddr:            "HWADDR",
	PropLock:              "LOCK",
	PropPhyEnabled:        "PHY_ENABLED",
	PropPhyChan:           "PHY_CHAN",
	PropPhyChanSupported:  "PHY_CHAN_SUPPORTED",
	PropPhyFreq:           "PHY_FREQ",
	PropPhyCCAThreshold:   "PHY_CCA_THRESHOLD",
	PropPhyTxPower:        "PHY_TX_POWER",
	PropPhyRSSI:           "PHY_RSSI",
	PropMacScanState:      "MAC_SCAN_STATE",
	PropMacScanMask:       "MAC_SCAN_MASK",
	PropMacScanBeacon:     "MAC_SCAN_BEACON",
	PropMac154LAddr:       "MAC_15_4_LADDR",
	PropMac154SAddr:       "MAC_15_4_SADDR",
	PropMac154PANID:       "MAC_15_4_PANID",
	PropNetEnabled:        "NET_ENABLED",
	PropNetState:          "NET_STATE",
	PropNetRole:           "NET_ROLE",
	PropNetNetworkName:    "NET_NETWORK_NAME",
	PropNetXPANID:         "NET_XPANID",
	PropNetMasterKey:      "NET_MASTER_KEY",
	PropNetKeySequence:    "NET_KEY_SEQUENCE",
	PropNetPartitionID:    "NET_PARTITION_ID",
	PropThreadLeader:      "THREAD_LEADER",
	PropThreadParent:      "THREAD_PARENT",
	PropIPv6LLAddr:        "IPV6_LL_ADDR",
	PropIPv6MLAddr:        "IPV6_ML_ADDR",
	PropIPv6MLPrefix:      "IPV6_ML_PREFIX",
	PropIPv6AddressTable:  "IPV6_ADDRESS_TABLE",
	PropIPv6RouteTable:    "IPV6_ROUTE_TABLE",
	PropStreamDebug:       "STREAM_DEBUG",
	PropStreamRaw:         "STREAM_RAW",
	PropStreamNet:         "STREAM_NET",
	PropStreamNetInsecure: "STREAM_NET_INSECURE",
}

func (k PropKey) String() string {
	if name, ok := propNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PROP_%d", uint32(k))
}

// LookupPropKey resolves a property name such as "PHY_CHAN" to its key.
func LookupPropKey(name string) (PropKey, bool) {
	for key, n := range propNames {
		if n == name {
			return key, true
		}
	}
	return 0, false
}

// Network state values for PROP_NET_STATE
const (
	NetStateOffline   = 0
	NetStateDetached  = 1
	NetStateAttaching = 2
	NetStateAttached  = 3
)

// Network role values for PROP_NET_ROLE
const (
	NetRoleNone   = 0
	NetRoleChild  = 1
	NetRoleRouter = 2
	NetRoleLeader = 3
)

// Scan state values for PROP_MAC_SCAN_STATE
const (
	ScanStateIdle   = 0
	ScanStateBeacon = 1
	ScanStateEnergy = 2
)

// Power state values for PROP_POWER_STATE
const (
	PowerStateOffline   = 0
	PowerStateDeepSleep = 1
	PowerStateStandby   = 2
	PowerStateLowPower  = 3
	PowerStateOnline    = 4
)

// Protocol identification
const (
	ProtocolTypeZigbee     = 2
	ProtocolTypeThread     = 3
	ProtocolVersionMajor   = 4
	ProtocolVersionMinor   = 1
	CapRoleRouter          = 48
	CapRoleSleepy          = 49
	BeaconFlagVersionShift = 4
	BeaconFlagJoinable     = 1 << 0
	BeaconFlagNative       = 1 << 3
)

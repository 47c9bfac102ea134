package model

import (
	"net/netip"
	"time"
)

// PacketInfo is the normalized outcome of decoding one packet: the flow key
// plus the auxiliary classification fields extracted from the headers.
type PacketInfo struct {
	Key            AddressPortPair
	MacAddress1    string
	MacAddress2    string
	ExchangedBytes uint64
	IcmpType       IcmpType
	ArpType        ArpType
	Timestamp      time.Time
}

// IfaceAddr is one address assigned to a capturing interface, with its
// netmask and directed-broadcast address when known.
type IfaceAddr struct {
	Addr      netip.Addr `json:"addr"`
	Netmask   netip.Addr `json:"netmask,omitempty"`
	Broadcast netip.Addr `json:"broadcast,omitempty"`
}

// Interface describes a capturable network interface.
type Interface struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Addresses   []IfaceAddr `json:"addresses"`
}

// ContainsAddr reports whether addr is one of the interface addresses.
func ContainsAddr(addrs []IfaceAddr, addr netip.Addr) bool {
	for _, a := range addrs {
		if a.Addr == addr {
			return true
		}
	}
	return false
}

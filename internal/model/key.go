package model

import (
	"fmt"
	"net/netip"
)

// AddressPortPair is the canonical key of a flow. Address1/Port1 is the
// first-seen source of the flow, not necessarily the local endpoint.
// The struct is comparable, so it can be used directly as a map key;
// equality is structural.
type AddressPortPair struct {
	Address1 netip.Addr
	Address2 netip.Addr
	Port1    uint16
	Port2    uint16
	// HasPorts is false for protocols without a port concept (ICMP, ARP).
	HasPorts bool
	Protocol Protocol
}

// NewAddressPortPair builds a key for a flow with transport ports.
func NewAddressPortPair(src, dst netip.Addr, sport, dport uint16, proto Protocol) AddressPortPair {
	return AddressPortPair{
		Address1: src.Unmap(),
		Address2: dst.Unmap(),
		Port1:    sport,
		Port2:    dport,
		HasPorts: true,
		Protocol: proto,
	}
}

// NewPortlessPair builds a key for an ICMP or ARP flow.
func NewPortlessPair(src, dst netip.Addr, proto Protocol) AddressPortPair {
	return AddressPortPair{
		Address1: src.Unmap(),
		Address2: dst.Unmap(),
		Protocol: proto,
	}
}

func (k AddressPortPair) String() string {
	if k.HasPorts {
		return fmt.Sprintf("%s:%d -> %s:%d (%s)",
			k.Address1, k.Port1, k.Address2, k.Port2, k.Protocol)
	}
	return fmt.Sprintf("%s -> %s (%s)", k.Address1, k.Address2, k.Protocol)
}

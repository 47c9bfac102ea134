package classify

import (
	"net/netip"

	"TrafficScope/internal/model"
)

// GetTrafficDirection determines whether a flow is incoming or outgoing.
// It is evaluated once, at the first packet of the flow.
//
// When the interface address list is empty (offline replay of a capture
// file, with no known interface) an address counts as local if it is a
// bogon.
func GetTrafficDirection(sourceIP, destinationIP netip.Addr, sourcePort, destPort uint16, hasPorts bool, ifaceAddrs []model.IfaceAddr) model.TrafficDirection {
	// intra-host loopback flows: pick a deterministic convention from
	// the ports, since both endpoints are "local"
	if sourceIP.IsLoopback() && destinationIP.IsLoopback() && hasPorts {
		if sourcePort > destPort {
			return model.Outgoing
		}
		return model.Incoming
	}

	isLocal := func(ip netip.Addr) bool {
		if len(ifaceAddrs) == 0 {
			_, bogon := IsBogon(ip)
			return bogon
		}
		return model.ContainsAddr(ifaceAddrs, ip)
	}

	switch {
	case isLocal(sourceIP):
		return model.Outgoing
	case !sourceIP.IsUnspecified():
		// source is neither local nor 0.0.0.0/::, hence a remote peer
		return model.Incoming
	case !isLocal(destinationIP):
		// source has no assigned address yet (e.g. DHCP discovery)
		return model.Outgoing
	default:
		return model.Incoming
	}
}

// GetTrafficType determines whether the remote host of a flow is reached
// via unicast, multicast, or broadcast. Only outgoing flows can be
// multicast or broadcast.
func GetTrafficType(destinationIP netip.Addr, ifaceAddrs []model.IfaceAddr, direction model.TrafficDirection) model.TrafficType {
	if direction != model.Outgoing {
		return model.Unicast
	}
	switch {
	case destinationIP.IsMulticast():
		return model.Multicast
	case IsBroadcastAddress(destinationIP, ifaceAddrs):
		return model.Broadcast
	}
	return model.Unicast
}

var limitedBroadcast = netip.AddrFrom4([4]byte{255, 255, 255, 255})

// IsBroadcastAddress reports whether addr is the limited broadcast address
// or one of the capturing interface's directed-broadcast addresses.
func IsBroadcastAddress(addr netip.Addr, ifaceAddrs []model.IfaceAddr) bool {
	if addr.Unmap() == limitedBroadcast {
		return true
	}
	for _, a := range ifaceAddrs {
		broadcast := a.Broadcast
		if !broadcast.IsValid() {
			broadcast = limitedBroadcast
		}
		if addr == broadcast {
			return true
		}
	}
	return false
}

// IsLocalConnection reports whether an address belongs to the local
// network: it is link-local, or shares a subnet with one of the interface
// addresses under that interface's netmask. IPv4 and IPv6 are evaluated
// independently.
func IsLocalConnection(addr netip.Addr, ifaceAddrs []model.IfaceAddr) bool {
	addr = addr.Unmap()
	if addr.IsLinkLocalUnicast() {
		return true
	}
	for _, a := range ifaceAddrs {
		local := a.Addr.Unmap()
		if local.Is4() != addr.Is4() {
			continue
		}
		if !a.Netmask.IsValid() {
			continue
		}
		if sameSubnet(local, addr, a.Netmask.Unmap()) {
			return true
		}
	}
	return false
}

func sameSubnet(local, remote, netmask netip.Addr) bool {
	l, r, m := local.AsSlice(), remote.AsSlice(), netmask.AsSlice()
	if len(l) != len(r) || len(l) != len(m) {
		return false
	}
	for i := range m {
		if l[i]&m[i] != r[i]&m[i] {
			return false
		}
	}
	return true
}

// IsMyAddress reports whether the address belongs to the capturing
// interface (or is loopback).
func IsMyAddress(addr netip.Addr, ifaceAddrs []model.IfaceAddr) bool {
	return model.ContainsAddr(ifaceAddrs, addr) || addr.IsLoopback()
}

// AddressToLookup picks the remote endpoint of a flow, i.e. the address
// worth resolving.
func AddressToLookup(key model.AddressPortPair, direction model.TrafficDirection) netip.Addr {
	if direction == model.Outgoing {
		return key.Address2
	}
	return key.Address1
}

// Package decode turns raw packet bytes into a normalized model.PacketInfo:
// flow key, MAC addresses, exchanged bytes, and ICMP/ARP subtypes. Malformed
// or truncated input never panics; it yields a skip.
package decode

import (
	"net"
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"TrafficScope/internal/model"
)

const ethernetHeaderLen = 14

// Analyze decodes the link, network, and transport headers of one packet.
// It returns nil when the packet has to be skipped: network decode failure,
// or transport decode failure on a non-ARP packet.
func Analyze(data []byte, linkType layers.LinkType, ts time.Time) *model.PacketInfo {
	packet, ok := sniffablePacket(data, linkType)
	if !ok {
		return nil
	}

	info := &model.PacketInfo{Timestamp: ts}

	analyzeLinkHeader(packet, info)
	isArp, ok := analyzeNetworkHeader(packet, info)
	if !ok {
		return nil
	}
	if !isArp && !analyzeTransportHeader(packet, info) {
		return nil
	}
	return info
}

// sniffablePacket picks the first layer to decode from based on the
// capture's link type. Ethernet framing is stripped as such; raw-IP and
// unknown link types parse the IP header directly; null/loopback framing
// carries a 4-byte address-family tag.
func sniffablePacket(data []byte, linkType layers.LinkType) (gopacket.Packet, bool) {
	switch linkType {
	case layers.LinkTypeEthernet:
		return gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default), true
	case layers.LinkTypeNull, layers.LinkTypeLoop:
		return nullFramedPacket(data)
	default:
		return ipPacket(data)
	}
}

func ipPacket(data []byte) (gopacket.Packet, bool) {
	if len(data) == 0 {
		return nil, false
	}
	switch data[0] >> 4 {
	case 4:
		return gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default), true
	case 6:
		return gopacket.NewPacket(data, layers.LayerTypeIPv6, gopacket.Default), true
	}
	return nil, false
}

// nullFramedPacket handles BSD null/loopback framing: the first 4 bytes are
// an address-family tag written in the platform's endianness. Per the
// Wireshark null/loopback note, 2 is IPv4 on every platform and 24, 28, or
// 30 is IPv6 depending on the platform; both byte orders are accepted.
func nullFramedPacket(data []byte) (gopacket.Packet, bool) {
	if len(data) <= 4 {
		return nil, false
	}
	le := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	be := uint32(data[3]) | uint32(data[2])<<8 | uint32(data[1])<<16 | uint32(data[0])<<24

	isV4 := func(tag uint32) bool { return tag == 2 }
	isV6 := func(tag uint32) bool { return tag == 24 || tag == 28 || tag == 30 }

	switch {
	case isV4(le) || isV4(be):
		return gopacket.NewPacket(data[4:], layers.LayerTypeIPv4, gopacket.Default), true
	case isV6(le) || isV6(be):
		return gopacket.NewPacket(data[4:], layers.LayerTypeIPv6, gopacket.Default), true
	}
	return nil, false
}

func analyzeLinkHeader(packet gopacket.Packet, info *model.PacketInfo) {
	if l := packet.Layer(layers.LayerTypeEthernet); l != nil {
		eth := l.(*layers.Ethernet)
		info.ExchangedBytes += ethernetHeaderLen
		info.MacAddress1 = eth.SrcMAC.String()
		info.MacAddress2 = eth.DstMAC.String()
	}
}

// analyzeNetworkHeader fills the addresses and byte count from the network
// layer. The first return value tells whether the packet is ARP (ARP
// packets carry no transport layer); the second is false when the packet
// has to be skipped.
func analyzeNetworkHeader(packet gopacket.Packet, info *model.PacketInfo) (isArp, ok bool) {
	if l := packet.Layer(layers.LayerTypeIPv4); l != nil {
		ip4 := l.(*layers.IPv4)
		src, ok1 := addrFromIP(ip4.SrcIP)
		dst, ok2 := addrFromIP(ip4.DstIP)
		if !ok1 || !ok2 {
			return false, false
		}
		info.ExchangedBytes += uint64(ip4.Length)
		setAddresses(info, src, dst)
		return false, true
	}
	if l := packet.Layer(layers.LayerTypeIPv6); l != nil {
		ip6 := l.(*layers.IPv6)
		src, ok1 := addrFromIP(ip6.SrcIP)
		dst, ok2 := addrFromIP(ip6.DstIP)
		if !ok1 || !ok2 {
			return false, false
		}
		info.ExchangedBytes += 40 + uint64(ip6.Length)
		setAddresses(info, src, dst)
		return false, true
	}
	if l := packet.Layer(layers.LayerTypeARP); l != nil {
		arp := l.(*layers.ARP)
		var wantLen int
		switch arp.Protocol {
		case layers.EthernetTypeIPv4:
			wantLen = 4
		case layers.EthernetTypeIPv6:
			wantLen = 16
		default:
			return true, false
		}
		if len(arp.SourceProtAddress) != wantLen || len(arp.DstProtAddress) != wantLen {
			return true, false
		}
		src, ok1 := addrFromIP(arp.SourceProtAddress)
		dst, ok2 := addrFromIP(arp.DstProtAddress)
		if !ok1 || !ok2 {
			return true, false
		}
		info.ExchangedBytes += 8 + 2*uint64(arp.HwAddressSize) + 2*uint64(arp.ProtAddressSize)
		info.ArpType = model.ArpType(arp.Operation)
		info.Key = model.NewPortlessPair(src, dst, model.ARP)
		return true, true
	}
	return false, false
}

// analyzeTransportHeader assembles the flow key from the transport layer.
// Returns false for transport protocols other than TCP, UDP, and ICMP.
func analyzeTransportHeader(packet gopacket.Packet, info *model.PacketInfo) bool {
	src, dst := info.Key.Address1, info.Key.Address2

	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		tcp := l.(*layers.TCP)
		info.Key = model.NewAddressPortPair(src, dst, uint16(tcp.SrcPort), uint16(tcp.DstPort), model.TCP)
		return true
	}
	if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		udp := l.(*layers.UDP)
		info.Key = model.NewAddressPortPair(src, dst, uint16(udp.SrcPort), uint16(udp.DstPort), model.UDP)
		return true
	}
	if l := packet.Layer(layers.LayerTypeICMPv4); l != nil {
		icmp := l.(*layers.ICMPv4)
		info.Key = model.NewPortlessPair(src, dst, model.ICMP)
		info.IcmpType = model.IcmpType{Type: icmp.TypeCode.Type()}
		return true
	}
	if l := packet.Layer(layers.LayerTypeICMPv6); l != nil {
		icmp := l.(*layers.ICMPv6)
		info.Key = model.NewPortlessPair(src, dst, model.ICMP)
		info.IcmpType = model.IcmpType{V6: true, Type: icmp.TypeCode.Type()}
		return true
	}
	return false
}

// setAddresses stashes the network addresses in the key before the
// transport layer decides ports and protocol.
func setAddresses(info *model.PacketInfo, src, dst netip.Addr) {
	info.Key.Address1 = src.Unmap()
	info.Key.Address2 = dst.Unmap()
}

func addrFromIP(ip net.IP) (netip.Addr, bool) {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

package model

import "fmt"

// Protocol is the transport-level protocol of a flow. ARP flows carry no
// transport header but are still keyed like any other flow.
type Protocol uint8

const (
	TCP Protocol = iota
	UDP
	ICMP
	ARP
)

func (p Protocol) String() string {
	switch p {
	case TCP:
		return "TCP"
	case UDP:
		return "UDP"
	case ICMP:
		return "ICMP"
	case ARP:
		return "ARP"
	}
	return fmt.Sprintf("Protocol(%d)", uint8(p))
}

// TrafficDirection tells whether a flow was initiated by the capturing
// machine or by a remote peer. It is fixed at the first packet of the flow.
type TrafficDirection uint8

const (
	Incoming TrafficDirection = iota
	Outgoing
)

func (d TrafficDirection) String() string {
	if d == Outgoing {
		return "outgoing"
	}
	return "incoming"
}

// TrafficType refers to the remote host of a flow.
type TrafficType uint8

const (
	Unicast TrafficType = iota
	Multicast
	Broadcast
)

func (t TrafficType) String() string {
	switch t {
	case Multicast:
		return "multicast"
	case Broadcast:
		return "broadcast"
	}
	return "unicast"
}

// IcmpType identifies the subtype of an ICMP message, version-qualified
// since ICMPv4 and ICMPv6 use disjoint numbering.
type IcmpType struct {
	V6   bool
	Type uint8
}

var icmpV4Names = map[uint8]string{
	0:  "Echo reply",
	3:  "Destination unreachable",
	4:  "Source quench",
	5:  "Redirect",
	8:  "Echo request",
	9:  "Router advertisement",
	10: "Router solicitation",
	11: "Time exceeded",
	12: "Parameter problem",
	13: "Timestamp request",
	14: "Timestamp reply",
}

var icmpV6Names = map[uint8]string{
	1:   "Destination unreachable",
	2:   "Packet too big",
	3:   "Time exceeded",
	4:   "Parameter problem",
	128: "Echo request",
	129: "Echo reply",
	133: "Router solicitation",
	134: "Router advertisement",
	135: "Neighbor solicitation",
	136: "Neighbor advertisement",
	137: "Redirect",
}

func (i IcmpType) String() string {
	names := icmpV4Names
	if i.V6 {
		names = icmpV6Names
	}
	if name, ok := names[i.Type]; ok {
		return name
	}
	return fmt.Sprintf("Type %d", i.Type)
}

// ArpType is the operation field of an ARP packet.
type ArpType uint16

const (
	ArpRequest ArpType = 1
	ArpReply   ArpType = 2
)

func (a ArpType) String() string {
	switch a {
	case ArpRequest:
		return "Request"
	case ArpReply:
		return "Reply"
	}
	return fmt.Sprintf("Operation %d", uint16(a))
}

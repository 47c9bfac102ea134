package model

import "time"

// InfoAddressPortPair accumulates the statistics of a single flow. It is
// created on the first packet of the flow and only mutated additively
// afterwards; it is never deleted during a capture session.
type InfoAddressPortPair struct {
	// Source and destination MAC addresses; empty for link types
	// without an Ethernet header.
	MacAddress1 string `json:"mac_address1,omitempty"`
	MacAddress2 string `json:"mac_address2,omitempty"`
	// Cumulative amount of data transmitted between the pair.
	TransmittedBytes   uint64 `json:"transmitted_bytes"`
	TransmittedPackets uint64 `json:"transmitted_packets"`
	// First and last occurrence of the pair as source or destination.
	InitialTimestamp time.Time `json:"initial_timestamp"`
	FinalTimestamp   time.Time `json:"final_timestamp"`
	// Upper-layer service, resolved once at the first packet.
	Service Service `json:"service"`
	// Direction of the flow, fixed at the first packet.
	TrafficDirection TrafficDirection `json:"traffic_direction"`
	// Histogram of ICMP message subtypes; populated only for ICMP flows.
	IcmpTypes map[IcmpType]uint64 `json:"-"`
	// Histogram of ARP operations; populated only for ARP flows.
	ArpTypes map[ArpType]uint64 `json:"-"`
}

// Refresh merges another accumulator for the same flow into this one.
func (i *InfoAddressPortPair) Refresh(other *InfoAddressPortPair) {
	i.TransmittedBytes += other.TransmittedBytes
	i.TransmittedPackets += other.TransmittedPackets
	i.FinalTimestamp = other.FinalTimestamp
	i.Service = other.Service
	i.TrafficDirection = other.TrafficDirection
	for t, n := range other.IcmpTypes {
		if i.IcmpTypes == nil {
			i.IcmpTypes = make(map[IcmpType]uint64)
		}
		i.IcmpTypes[t] += n
	}
	for t, n := range other.ArpTypes {
		if i.ArpTypes == nil {
			i.ArpTypes = make(map[ArpType]uint64)
		}
		i.ArpTypes[t] += n
	}
}

// TransmittedData returns the cumulative amount in the requested unit.
func (i *InfoAddressPortPair) TransmittedData(repr DataRepr) uint64 {
	switch repr {
	case Packets:
		return i.TransmittedPackets
	case Bits:
		return i.TransmittedBytes * 8
	}
	return i.TransmittedBytes
}

func (i *InfoAddressPortPair) clone() *InfoAddressPortPair {
	c := *i
	if i.IcmpTypes != nil {
		c.IcmpTypes = make(map[IcmpType]uint64, len(i.IcmpTypes))
		for t, n := range i.IcmpTypes {
			c.IcmpTypes[t] = n
		}
	}
	if i.ArpTypes != nil {
		c.ArpTypes = make(map[ArpType]uint64, len(i.ArpTypes))
		for t, n := range i.ArpTypes {
			c.ArpTypes[t] = n
		}
	}
	return &c
}

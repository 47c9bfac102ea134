// Package aggregate maintains the central traffic aggregate. All functions
// here must be called from the single capture goroutine that owns the
// model.InfoTraffic; the aggregate is deliberately lock-free.
package aggregate

import (
	"TrafficScope/internal/engine/classify"
	"TrafficScope/internal/model"
)

// ModifyOrInsert rolls one decoded packet into the flow map. On the first
// packet of a flow it computes the flow's direction and service, which stay
// fixed for the life of the flow; every later packet only updates counters,
// the final timestamp, and the ICMP/ARP histograms. The flow's direction
// and service are returned so the caller can feed the per-service and
// per-host aggregates for the same packet.
func ModifyOrInsert(traffic *model.InfoTraffic, pkt *model.PacketInfo, ifaceAddrs []model.IfaceAddr) (model.TrafficDirection, model.Service) {
	key := pkt.Key
	timestamp := traffic.LastPacketTimestamp

	if info, ok := traffic.Map[key]; ok {
		info.TransmittedBytes += pkt.ExchangedBytes
		info.TransmittedPackets++
		info.FinalTimestamp = timestamp
		switch key.Protocol {
		case model.ICMP:
			if info.IcmpTypes == nil {
				info.IcmpTypes = make(map[model.IcmpType]uint64)
			}
			info.IcmpTypes[pkt.IcmpType]++
		case model.ARP:
			if info.ArpTypes == nil {
				info.ArpTypes = make(map[model.ArpType]uint64)
			}
			info.ArpTypes[pkt.ArpType]++
		}
		return info.TrafficDirection, info.Service
	}

	// first occurrence of the key
	direction := classify.GetTrafficDirection(
		key.Address1, key.Address2, key.Port1, key.Port2, key.HasPorts, ifaceAddrs)
	service := classify.GetService(key, direction, ifaceAddrs)

	info := &model.InfoAddressPortPair{
		MacAddress1:        pkt.MacAddress1,
		MacAddress2:        pkt.MacAddress2,
		TransmittedBytes:   pkt.ExchangedBytes,
		TransmittedPackets: 1,
		InitialTimestamp:   timestamp,
		FinalTimestamp:     timestamp,
		Service:            service,
		TrafficDirection:   direction,
	}
	switch key.Protocol {
	case model.ICMP:
		info.IcmpTypes = map[model.IcmpType]uint64{pkt.IcmpType: 1}
	case model.ARP:
		info.ArpTypes = map[model.ArpType]uint64{pkt.ArpType: 1}
	}
	traffic.Map[key] = info

	return direction, service
}

// AddToService rolls a packet into the per-service aggregate.
func AddToService(traffic *model.InfoTraffic, service model.Service, bytes uint64, direction model.TrafficDirection) {
	if data, ok := traffic.Services[service]; ok {
		data.AddPacket(bytes, direction)
		return
	}
	data := model.NewDataInfoWithFirstPacket(bytes, direction)
	traffic.Services[service] = &data
}

// AddToHost rolls a packet into the per-host aggregate. Derived host flags
// are computed only when the host entry is first created.
func AddToHost(traffic *model.InfoTraffic, host model.Host, pkt *model.PacketInfo, direction model.TrafficDirection, ifaceAddrs []model.IfaceAddr) {
	lookup := classify.AddressToLookup(pkt.Key, direction)
	if data, ok := traffic.Hosts[host]; ok {
		data.DataInfo.AddPacket(pkt.ExchangedBytes, direction)
		return
	}
	_, bogon := classify.IsBogon(lookup)
	traffic.Hosts[host] = &model.DataInfoHost{
		DataInfo:    model.NewDataInfoWithFirstPacket(pkt.ExchangedBytes, direction),
		IsLoopback:  lookup.IsLoopback(),
		IsLocal:     classify.IsLocalConnection(lookup, ifaceAddrs),
		IsBogon:     bogon,
		TrafficType: classify.GetTrafficType(lookup, ifaceAddrs, direction),
	}
}

// MergeResolvedHost folds a HostMessage produced by a resolution task into
// the per-host aggregate.
func MergeResolvedHost(traffic *model.InfoTraffic, msg model.HostMessage) {
	if data, ok := traffic.Hosts[msg.Host]; ok {
		data.DataInfo.Refresh(msg.Data.DataInfo)
		return
	}
	data := msg.Data
	traffic.Hosts[msg.Host] = &data
}

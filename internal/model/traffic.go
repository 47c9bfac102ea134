package model

import "time"

// InfoTraffic is the aggregate of everything observed during a capture
// session. It is owned by the capture goroutine and must not be shared;
// consumers only ever see copies produced by Snapshot or
// TakeButLeaveSomething.
type InfoTraffic struct {
	// Map holds one accumulator per flow.
	Map map[AddressPortPair]*InfoAddressPortPair
	// Services holds the per-service aggregate.
	Services map[Service]*DataInfo
	// Hosts holds the per-resolved-host aggregate.
	Hosts map[Host]*DataInfoHost
	// TotData sums all successfully decoded traffic.
	TotData DataInfo
	// DroppedPackets is the capture source's own drop counter.
	DroppedPackets uint32
	// LastPacketTimestamp is the capture timestamp of the latest packet.
	LastPacketTimestamp time.Time
}

func NewInfoTraffic() *InfoTraffic {
	return &InfoTraffic{
		Map:      make(map[AddressPortPair]*InfoAddressPortPair),
		Services: make(map[Service]*DataInfo),
		Hosts:    make(map[Host]*DataInfoHost),
	}
}

// Snapshot returns a deep copy that shares no mutable state with the
// receiver.
func (t *InfoTraffic) Snapshot() *InfoTraffic {
	out := &InfoTraffic{
		Map:                 make(map[AddressPortPair]*InfoAddressPortPair, len(t.Map)),
		Services:            make(map[Service]*DataInfo, len(t.Services)),
		Hosts:               make(map[Host]*DataInfoHost, len(t.Hosts)),
		TotData:             t.TotData,
		DroppedPackets:      t.DroppedPackets,
		LastPacketTimestamp: t.LastPacketTimestamp,
	}
	for k, v := range t.Map {
		out.Map[k] = v.clone()
	}
	for k, v := range t.Services {
		d := *v
		out.Services[k] = &d
	}
	for k, v := range t.Hosts {
		d := *v
		out.Hosts[k] = &d
	}
	return out
}

// TakeButLeaveSomething hands the accumulated interval to the caller and
// drains the receiver's counters without dropping its entries: every flow,
// service, and host stays in the maps with zeroed counters and its static
// fields intact, so consumers that display the aggregate keep a baseline
// row set between updates. The returned value is owned by the caller.
func (t *InfoTraffic) TakeButLeaveSomething() *InfoTraffic {
	out := &InfoTraffic{
		Map:                 t.Map,
		Services:            t.Services,
		Hosts:               t.Hosts,
		TotData:             t.TotData,
		DroppedPackets:      t.DroppedPackets,
		LastPacketTimestamp: t.LastPacketTimestamp,
	}

	t.Map = make(map[AddressPortPair]*InfoAddressPortPair, len(out.Map))
	for k, v := range out.Map {
		left := &InfoAddressPortPair{
			MacAddress1:      v.MacAddress1,
			MacAddress2:      v.MacAddress2,
			InitialTimestamp: v.InitialTimestamp,
			FinalTimestamp:   v.FinalTimestamp,
			Service:          v.Service,
			TrafficDirection: v.TrafficDirection,
		}
		t.Map[k] = left
	}
	t.Services = make(map[Service]*DataInfo, len(out.Services))
	for k := range out.Services {
		t.Services[k] = &DataInfo{}
	}
	t.Hosts = make(map[Host]*DataInfoHost, len(out.Hosts))
	for k, v := range out.Hosts {
		left := *v
		left.DataInfo = DataInfo{}
		t.Hosts[k] = &left
	}
	t.TotData = DataInfo{}

	return out
}

// Refresh merges an interval produced by TakeButLeaveSomething into a
// cumulative view of the session.
func (t *InfoTraffic) Refresh(other *InfoTraffic) {
	for k, v := range other.Map {
		if existing, ok := t.Map[k]; ok {
			existing.Refresh(v)
		} else {
			t.Map[k] = v.clone()
		}
	}
	for k, v := range other.Services {
		if existing, ok := t.Services[k]; ok {
			existing.Refresh(*v)
		} else {
			d := *v
			t.Services[k] = &d
		}
	}
	for k, v := range other.Hosts {
		if existing, ok := t.Hosts[k]; ok {
			existing.DataInfo.Refresh(v.DataInfo)
		} else {
			d := *v
			t.Hosts[k] = &d
		}
	}
	t.TotData.Refresh(other.TotData)
	t.DroppedPackets = other.DroppedPackets
	if other.LastPacketTimestamp.After(t.LastPacketTimestamp) {
		t.LastPacketTimestamp = other.LastPacketTimestamp
	}
}

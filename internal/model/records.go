package model

import (
	"sort"
	"time"
)

// FlowRecord is the flattened, serialization-friendly form of one flow map
// entry. Map keys like AddressPortPair cannot key a JSON object, so every
// external surface (HTTP API, NATS events, ClickHouse rows, reports) works
// on records instead.
type FlowRecord struct {
	Address1           string    `json:"address1"`
	Address2           string    `json:"address2"`
	Port1              *uint16   `json:"port1,omitempty"`
	Port2              *uint16   `json:"port2,omitempty"`
	Protocol           string    `json:"protocol"`
	MacAddress1        string    `json:"mac_address1,omitempty"`
	MacAddress2        string    `json:"mac_address2,omitempty"`
	TransmittedBytes   uint64    `json:"transmitted_bytes"`
	TransmittedPackets uint64    `json:"transmitted_packets"`
	InitialTimestamp   time.Time `json:"initial_timestamp"`
	FinalTimestamp     time.Time `json:"final_timestamp"`
	Service            string    `json:"service"`
	TrafficDirection   string    `json:"traffic_direction"`
}

// ServiceRecord is the flattened form of one per-service aggregate entry.
type ServiceRecord struct {
	Service string   `json:"service"`
	Data    DataInfo `json:"data"`
}

// HostRecord is the flattened form of one per-host aggregate entry.
type HostRecord struct {
	Domain      string   `json:"domain"`
	AsnCode     string   `json:"asn_code,omitempty"`
	AsnName     string   `json:"asn_name,omitempty"`
	Country     string   `json:"country,omitempty"`
	Data        DataInfo `json:"data"`
	IsLoopback  bool     `json:"is_loopback"`
	IsLocal     bool     `json:"is_local"`
	IsBogon     bool     `json:"is_bogon"`
	TrafficType string   `json:"traffic_type"`
}

// FlowRecords flattens the flow map, sorted by transmitted bytes
// descending (ties broken by the textual key for determinism).
func (t *InfoTraffic) FlowRecords() []FlowRecord {
	out := make([]FlowRecord, 0, len(t.Map))
	for k, v := range t.Map {
		rec := FlowRecord{
			Address1:           k.Address1.String(),
			Address2:           k.Address2.String(),
			Protocol:           k.Protocol.String(),
			MacAddress1:        v.MacAddress1,
			MacAddress2:        v.MacAddress2,
			TransmittedBytes:   v.TransmittedBytes,
			TransmittedPackets: v.TransmittedPackets,
			InitialTimestamp:   v.InitialTimestamp,
			FinalTimestamp:     v.FinalTimestamp,
			Service:            v.Service.String(),
			TrafficDirection:   v.TrafficDirection.String(),
		}
		if k.HasPorts {
			p1, p2 := k.Port1, k.Port2
			rec.Port1, rec.Port2 = &p1, &p2
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TransmittedBytes != out[j].TransmittedBytes {
			return out[i].TransmittedBytes > out[j].TransmittedBytes
		}
		if out[i].Address1 != out[j].Address1 {
			return out[i].Address1 < out[j].Address1
		}
		return out[i].Address2 < out[j].Address2
	})
	return out
}

// ServiceRecords flattens the per-service aggregate, sorted by total bytes
// descending.
func (t *InfoTraffic) ServiceRecords() []ServiceRecord {
	out := make([]ServiceRecord, 0, len(t.Services))
	for k, v := range t.Services {
		out = append(out, ServiceRecord{Service: k.String(), Data: *v})
	}
	sort.Slice(out, func(i, j int) bool {
		bi, bj := out[i].Data.TotData(Bytes), out[j].Data.TotData(Bytes)
		if bi != bj {
			return bi > bj
		}
		return out[i].Service < out[j].Service
	})
	return out
}

// HostRecords flattens the per-host aggregate, sorted by total bytes
// descending.
func (t *InfoTraffic) HostRecords() []HostRecord {
	out := make([]HostRecord, 0, len(t.Hosts))
	for k, v := range t.Hosts {
		out = append(out, HostRecord{
			Domain:      k.Domain,
			AsnCode:     k.Asn.Code,
			AsnName:     k.Asn.Name,
			Country:     k.Country,
			Data:        v.DataInfo,
			IsLoopback:  v.IsLoopback,
			IsLocal:     v.IsLocal,
			IsBogon:     v.IsBogon,
			TrafficType: v.TrafficType.String(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		bi, bj := out[i].Data.TotData(Bytes), out[j].Data.TotData(Bytes)
		if bi != bj {
			return bi > bj
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

package model

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTraffic(t *testing.T) (*InfoTraffic, AddressPortPair) {
	t.Helper()
	traffic := NewInfoTraffic()

	key := NewAddressPortPair(
		netip.MustParseAddr("192.168.1.10"), netip.MustParseAddr("1.1.1.1"),
		54000, 443, TCP)
	traffic.Map[key] = &InfoAddressPortPair{
		MacAddress1:        "aa:bb:cc:dd:ee:ff",
		MacAddress2:        "11:22:33:44:55:66",
		TransmittedBytes:   1000,
		TransmittedPackets: 4,
		InitialTimestamp:   time.Unix(100, 0),
		FinalTimestamp:     time.Unix(110, 0),
		Service:            NamedService("https"),
		TrafficDirection:   Outgoing,
	}
	traffic.Services[NamedService("https")] = &DataInfo{OutgoingPackets: 4, OutgoingBytes: 1000}
	traffic.Hosts[Host{Domain: "one.one.one.one", Country: "US"}] = &DataInfoHost{
		DataInfo:    DataInfo{OutgoingPackets: 4, OutgoingBytes: 1000},
		TrafficType: Unicast,
	}
	traffic.TotData = DataInfo{OutgoingPackets: 4, OutgoingBytes: 1000}
	traffic.LastPacketTimestamp = time.Unix(110, 0)
	return traffic, key
}

func TestTakeButLeaveSomething(t *testing.T) {
	traffic, key := sampleTraffic(t)

	taken := traffic.TakeButLeaveSomething()

	// The caller gets the accumulated interval.
	require.Contains(t, taken.Map, key)
	assert.Equal(t, uint64(1000), taken.Map[key].TransmittedBytes)
	assert.Equal(t, uint64(1000), taken.TotData.OutgoingBytes)

	// The receiver keeps every key with zeroed counters.
	require.Contains(t, traffic.Map, key)
	left := traffic.Map[key]
	assert.Zero(t, left.TransmittedBytes)
	assert.Zero(t, left.TransmittedPackets)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", left.MacAddress1)
	assert.Equal(t, NamedService("https"), left.Service)
	assert.Equal(t, Outgoing, left.TrafficDirection)
	assert.Equal(t, time.Unix(100, 0), left.InitialTimestamp)

	require.Contains(t, traffic.Services, NamedService("https"))
	assert.Zero(t, traffic.Services[NamedService("https")].OutgoingBytes)

	host := Host{Domain: "one.one.one.one", Country: "US"}
	require.Contains(t, traffic.Hosts, host)
	assert.Zero(t, traffic.Hosts[host].DataInfo.OutgoingBytes)
	assert.Equal(t, Unicast, traffic.Hosts[host].TrafficType)

	assert.Zero(t, traffic.TotData.OutgoingBytes)
	assert.Equal(t, time.Unix(110, 0), traffic.LastPacketTimestamp)

	// Mutating the receiver afterwards must not affect the taken copy.
	left.TransmittedBytes = 7777
	assert.Equal(t, uint64(1000), taken.Map[key].TransmittedBytes)
}

func TestRefreshMergesIntervals(t *testing.T) {
	traffic, key := sampleTraffic(t)
	view := NewInfoTraffic()

	first := traffic.TakeButLeaveSomething()
	view.Refresh(first)

	// Accumulate a second interval on the same flow.
	traffic.Map[key].TransmittedBytes += 500
	traffic.Map[key].TransmittedPackets += 2
	traffic.Services[NamedService("https")].AddPacket(500, Outgoing)
	traffic.TotData.AddPacket(500, Outgoing)
	second := traffic.TakeButLeaveSomething()
	view.Refresh(second)

	require.Contains(t, view.Map, key)
	assert.Equal(t, uint64(1500), view.Map[key].TransmittedBytes)
	assert.Equal(t, uint64(6), view.Map[key].TransmittedPackets)
	assert.Equal(t, uint64(1500), view.TotData.OutgoingBytes)
	assert.Equal(t, uint64(1500), view.Services[NamedService("https")].OutgoingBytes)
	assert.Equal(t, uint64(5), view.Services[NamedService("https")].OutgoingPackets)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	traffic, key := sampleTraffic(t)
	snap := traffic.Snapshot()

	traffic.Map[key].TransmittedBytes = 1
	traffic.TotData.AddPacket(99, Incoming)

	assert.Equal(t, uint64(1000), snap.Map[key].TransmittedBytes)
	assert.Zero(t, snap.TotData.IncomingBytes)
}

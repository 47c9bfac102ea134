package aggregate

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrafficScope/internal/model"
)

func addr(s string) netip.Addr { return netip.MustParseAddr(s) }

var ifaceAddrs = []model.IfaceAddr{{
	Addr:      addr("192.168.1.10"),
	Netmask:   addr("255.255.255.0"),
	Broadcast: addr("192.168.1.255"),
}}

func tcpPacket(src, dst string, sport, dport uint16, bytes uint64) *model.PacketInfo {
	return &model.PacketInfo{
		Key:            model.NewAddressPortPair(addr(src), addr(dst), sport, dport, model.TCP),
		MacAddress1:    "aa:aa:aa:aa:aa:aa",
		MacAddress2:    "bb:bb:bb:bb:bb:bb",
		ExchangedBytes: bytes,
		Timestamp:      time.Unix(1000, 0),
	}
}

func TestModifyOrInsert(t *testing.T) {
	traffic := model.NewInfoTraffic()
	traffic.LastPacketTimestamp = time.Unix(1000, 0)

	pkt := tcpPacket("192.168.1.10", "1.1.1.1", 54000, 443, 500)
	direction, service := ModifyOrInsert(traffic, pkt, ifaceAddrs)
	assert.Equal(t, model.Outgoing, direction)
	assert.Equal(t, model.NamedService("https"), service)

	require.Len(t, traffic.Map, 1)
	info := traffic.Map[pkt.Key]
	assert.Equal(t, uint64(500), info.TransmittedBytes)
	assert.Equal(t, uint64(1), info.TransmittedPackets)
	assert.Equal(t, time.Unix(1000, 0), info.InitialTimestamp)

	// A later packet with the same key only updates the counters; the
	// direction and service stay as computed on the first packet.
	traffic.LastPacketTimestamp = time.Unix(1010, 0)
	direction2, service2 := ModifyOrInsert(traffic, tcpPacket("192.168.1.10", "1.1.1.1", 54000, 443, 300), ifaceAddrs)
	assert.Equal(t, direction, direction2)
	assert.Equal(t, service, service2)
	assert.Len(t, traffic.Map, 1)
	assert.Equal(t, uint64(800), info.TransmittedBytes)
	assert.Equal(t, uint64(2), info.TransmittedPackets)
	assert.Equal(t, time.Unix(1000, 0), info.InitialTimestamp)
	assert.Equal(t, time.Unix(1010, 0), info.FinalTimestamp)
}

func TestModifyOrInsertPacketCountProperty(t *testing.T) {
	traffic := model.NewInfoTraffic()
	packets := []*model.PacketInfo{
		tcpPacket("192.168.1.10", "1.1.1.1", 54000, 443, 100),
		tcpPacket("192.168.1.10", "1.1.1.1", 54000, 443, 100),
		tcpPacket("1.1.1.1", "192.168.1.10", 443, 54000, 100),
		tcpPacket("192.168.1.10", "8.8.8.8", 54001, 53, 100),
	}
	for _, pkt := range packets {
		traffic.LastPacketTimestamp = pkt.Timestamp
		direction, _ := ModifyOrInsert(traffic, pkt, ifaceAddrs)
		traffic.TotData.AddPacket(pkt.ExchangedBytes, direction)
	}

	var perFlow uint64
	for _, info := range traffic.Map {
		perFlow += info.TransmittedPackets
	}
	assert.Equal(t, uint64(len(packets)), perFlow)
	assert.Equal(t, uint64(len(packets)), traffic.TotData.TotData(model.Packets))
	assert.Len(t, traffic.Map, 3)
}

func TestModifyOrInsertIcmpHistogram(t *testing.T) {
	traffic := model.NewInfoTraffic()
	pkt := &model.PacketInfo{
		Key:            model.NewPortlessPair(addr("192.168.1.10"), addr("8.8.8.8"), model.ICMP),
		ExchangedBytes: 84,
		IcmpType:       model.IcmpType{Type: 8},
	}
	ModifyOrInsert(traffic, pkt, ifaceAddrs)
	ModifyOrInsert(traffic, pkt, ifaceAddrs)
	reply := *pkt
	reply.IcmpType = model.IcmpType{Type: 0}
	ModifyOrInsert(traffic, &reply, ifaceAddrs)

	info := traffic.Map[pkt.Key]
	assert.Equal(t, uint64(2), info.IcmpTypes[model.IcmpType{Type: 8}])
	assert.Equal(t, uint64(1), info.IcmpTypes[model.IcmpType{Type: 0}])
	assert.Equal(t, model.ServiceNotApplicable, info.Service)
}

func TestModifyOrInsertAfterDrain(t *testing.T) {
	traffic := model.NewInfoTraffic()
	pkt := &model.PacketInfo{
		Key:            model.NewPortlessPair(addr("192.168.1.10"), addr("8.8.8.8"), model.ICMP),
		ExchangedBytes: 84,
		IcmpType:       model.IcmpType{Type: 8},
	}
	ModifyOrInsert(traffic, pkt, ifaceAddrs)
	traffic.TakeButLeaveSomething()

	// The drained entry survives with nil histograms; the next packet
	// must not panic and must rebuild them.
	ModifyOrInsert(traffic, pkt, ifaceAddrs)
	info := traffic.Map[pkt.Key]
	assert.Equal(t, uint64(1), info.IcmpTypes[model.IcmpType{Type: 8}])
	assert.Equal(t, uint64(1), info.TransmittedPackets)
}

func TestReplayDeterminism(t *testing.T) {
	packets := []*model.PacketInfo{
		tcpPacket("192.168.1.10", "1.1.1.1", 54000, 443, 100),
		tcpPacket("1.1.1.1", "192.168.1.10", 443, 54000, 2000),
		tcpPacket("192.168.1.10", "8.8.8.8", 54001, 53, 60),
		tcpPacket("192.168.1.10", "8.8.8.8", 54001, 53, 60),
	}
	run := func() *model.InfoTraffic {
		traffic := model.NewInfoTraffic()
		for _, pkt := range packets {
			traffic.LastPacketTimestamp = pkt.Timestamp
			direction, service := ModifyOrInsert(traffic, pkt, ifaceAddrs)
			traffic.TotData.AddPacket(pkt.ExchangedBytes, direction)
			AddToService(traffic, service, pkt.ExchangedBytes, direction)
		}
		return traffic
	}

	a, b := run(), run()
	assert.Equal(t, a.TotData.TotData(model.Bytes), b.TotData.TotData(model.Bytes))
	assert.Equal(t, a.TotData.TotData(model.Packets), b.TotData.TotData(model.Packets))
	assert.Equal(t, a.FlowRecords(), b.FlowRecords())

	sa, sb := a.ServiceRecords(), b.ServiceRecords()
	require.Len(t, sb, len(sa))
	for i := range sa {
		assert.Equal(t, sa[i].Service, sb[i].Service)
		assert.Equal(t, sa[i].Data.TotData(model.Bytes), sb[i].Data.TotData(model.Bytes))
	}
}

func TestAddToService(t *testing.T) {
	traffic := model.NewInfoTraffic()
	AddToService(traffic, model.NamedService("https"), 100, model.Outgoing)
	AddToService(traffic, model.NamedService("https"), 50, model.Incoming)
	AddToService(traffic, model.ServiceUnknown, 10, model.Outgoing)

	require.Len(t, traffic.Services, 2)
	data := traffic.Services[model.NamedService("https")]
	assert.Equal(t, uint64(100), data.OutgoingBytes)
	assert.Equal(t, uint64(50), data.IncomingBytes)
	assert.Equal(t, uint64(2), data.TotData(model.Packets))
}

func TestAddToHost(t *testing.T) {
	traffic := model.NewInfoTraffic()
	host := model.Host{Domain: "dns.google", Country: "US"}
	pkt := tcpPacket("192.168.1.10", "8.8.8.8", 54001, 53, 60)

	AddToHost(traffic, host, pkt, model.Outgoing, ifaceAddrs)
	AddToHost(traffic, host, pkt, model.Outgoing, ifaceAddrs)

	require.Len(t, traffic.Hosts, 1)
	data := traffic.Hosts[host]
	assert.Equal(t, uint64(120), data.DataInfo.OutgoingBytes)
	assert.False(t, data.IsBogon)
	assert.False(t, data.IsLocal)
	assert.Equal(t, model.Unicast, data.TrafficType)
}

func TestMergeResolvedHost(t *testing.T) {
	traffic := model.NewInfoTraffic()
	msg := model.HostMessage{
		Host:    model.Host{Domain: "dns.google"},
		Data:    model.DataInfoHost{DataInfo: model.DataInfo{OutgoingBytes: 500, OutgoingPackets: 3}},
		Address: addr("8.8.8.8"),
		Rdns:    "dns.google.",
	}
	MergeResolvedHost(traffic, msg)
	MergeResolvedHost(traffic, msg)

	data := traffic.Hosts[msg.Host]
	assert.Equal(t, uint64(1000), data.DataInfo.OutgoingBytes)
	assert.Equal(t, uint64(6), data.DataInfo.OutgoingPackets)
}

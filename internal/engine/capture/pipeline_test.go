package capture

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrafficScope/internal/engine/resolve"
	"TrafficScope/internal/model"
)

// stubSource replays a fixed list of packets and then reports EOF, like
// a capture file.
type stubSource struct {
	packets []stubPacket
	next    int
}

type stubPacket struct {
	data []byte
	ts   time.Time
}

func (s *stubSource) Name() string                 { return "stub" }
func (s *stubSource) LinkType() layers.LinkType    { return layers.LinkTypeEthernet }
func (s *stubSource) Addresses() []model.IfaceAddr { return nil }
func (s *stubSource) RefreshAddresses()            {}
func (s *stubSource) IsFile() bool                 { return true }
func (s *stubSource) DroppedPackets() uint32       { return 0 }
func (s *stubSource) Close()                       {}

func (s *stubSource) NextPacket() ([]byte, gopacket.CaptureInfo, error) {
	if s.next >= len(s.packets) {
		return nil, gopacket.CaptureInfo{}, io.EOF
	}
	p := s.packets[s.next]
	s.next++
	ci := gopacket.CaptureInfo{Timestamp: p.ts, CaptureLength: len(p.data), Length: len(p.data)}
	return p.data, ci, nil
}

func tcpFrame(t *testing.T, src, dst string, sport, dport uint16) []byte {
	t.Helper()
	ip := &layers.IPv4{
		Version: 4, TTL: 64, Protocol: layers.IPProtocolTCP,
		SrcIP: net.ParseIP(src).To4(), DstIP: net.ParseIP(dst).To4(),
	}
	tcp := &layers.TCP{SrcPort: layers.TCPPort(sport), DstPort: layers.TCPPort(dport)}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts,
		&layers.Ethernet{
			SrcMAC:       net.HardwareAddr{1, 2, 3, 4, 5, 6},
			DstMAC:       net.HardwareAddr{6, 5, 4, 3, 2, 1},
			EthernetType: layers.EthernetTypeIPv4,
		},
		ip, tcp, gopacket.Payload([]byte("payload"))))
	return buf.Bytes()
}

func silentResolver() *resolve.Resolver {
	return resolve.New(nil, resolve.WithLookup(
		func(ctx context.Context, addr string) ([]string, error) {
			return []string{"host.example.org."}, nil
		}))
}

func TestPipelineOfflineReplay(t *testing.T) {
	base := time.Unix(5000, 0)
	src := &stubSource{packets: []stubPacket{
		{tcpFrame(t, "10.0.0.5", "1.1.1.1", 50000, 443), base},
		{tcpFrame(t, "10.0.0.5", "1.1.1.1", 50000, 443), base.Add(200 * time.Millisecond)},
		// crossing a second boundary triggers an update
		{tcpFrame(t, "1.1.1.1", "10.0.0.5", 443, 50000), base.Add(1200 * time.Millisecond)},
	}}

	var updates []*model.TrafficUpdate
	var gaps []time.Duration
	p := &pipeline{
		source:   src,
		resolver: silentResolver(),
		traffic:  model.NewInfoTraffic(),
		interval: time.Second,
		emit:     func(u *model.TrafficUpdate) { updates = append(updates, u) },
		emitGap:  func(d time.Duration) { gaps = append(gaps, d) },
	}
	p.run(context.Background())

	// One timed update plus the two final flushes.
	require.GreaterOrEqual(t, len(updates), 3)
	assert.False(t, updates[0].IsFinal)
	assert.True(t, updates[len(updates)-2].IsFinal)
	assert.True(t, updates[len(updates)-1].IsFinal)
	assert.Empty(t, gaps)

	var packets uint64
	for _, u := range updates {
		packets += u.Traffic.TotData.TotData(model.Packets)
	}
	assert.Equal(t, uint64(3), packets)

	// Every resolved host message comes out exactly once.
	var hosts int
	for _, u := range updates {
		hosts += len(u.NewHosts)
	}
	assert.Equal(t, 1, hosts)
}

func TestPipelineReportsGaps(t *testing.T) {
	base := time.Unix(9000, 0)
	src := &stubSource{packets: []stubPacket{
		{tcpFrame(t, "10.0.0.5", "1.1.1.1", 50000, 443), base},
		{tcpFrame(t, "10.0.0.5", "1.1.1.1", 50000, 443), base.Add(10 * time.Second)},
	}}

	var gaps []time.Duration
	p := &pipeline{
		source:   src,
		resolver: silentResolver(),
		traffic:  model.NewInfoTraffic(),
		interval: time.Second,
		emit:     func(*model.TrafficUpdate) {},
		emitGap:  func(d time.Duration) { gaps = append(gaps, d) },
	}
	p.run(context.Background())

	require.Len(t, gaps, 1)
	assert.Equal(t, 9*time.Second, gaps[0])
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(Config{}, nil)
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
	assert.False(t, s.Running())
	s.Wait()

	snap := s.Snapshot()
	assert.Empty(t, snap.Map)

	domains, asns, countries := s.HostLists()
	assert.Empty(t, domains)
	assert.Empty(t, asns)
	assert.Empty(t, countries)
}

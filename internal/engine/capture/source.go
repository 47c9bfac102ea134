// Package capture orchestrates the analysis pipeline against a sequential
// packet source and owns the capture session lifecycle.
package capture

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"TrafficScope/internal/model"
)

const (
	snapshotLen = 1600
	promiscuous = true
	// readTimeout bounds the blocking read so the pipeline can observe
	// stop requests and fire timed emissions between packets.
	readTimeout = 150 * time.Millisecond
)

// Source is a sequential packet source: a live device or a capture file.
type Source interface {
	// Name of the device or file backing the source.
	Name() string
	// LinkType of the capture, driving link-layer decoding.
	LinkType() layers.LinkType
	// Addresses assigned to the capturing interface; empty for files.
	Addresses() []model.IfaceAddr
	// RefreshAddresses re-reads the interface address set (live only).
	RefreshAddresses()
	// NextPacket blocks for the next packet, bounded by the read
	// timeout. It returns pcap.NextErrorTimeoutExpired when no packet
	// arrived and io.EOF at the end of a capture file.
	NextPacket() ([]byte, gopacket.CaptureInfo, error)
	// DroppedPackets is the source's own cumulative drop counter.
	DroppedPackets() uint32
	// IsFile reports whether the source is an offline capture file.
	IsFile() bool
	Close()
}

// DeviceSource captures live from a network interface.
type DeviceSource struct {
	name   string
	handle *pcap.Handle
	addrs  []model.IfaceAddr
}

// NewDeviceSource opens a live capture on the named interface. The
// interface must exist; enumeration or open failures are returned before
// any capture state is created.
func NewDeviceSource(name string) (*DeviceSource, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate capture devices: %w", err)
	}
	var found *pcap.Interface
	for i := range devices {
		if devices[i].Name == name {
			found = &devices[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("capture interface %q not found", name)
	}

	handle, err := pcap.OpenLive(name, snapshotLen, promiscuous, readTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open device %q: %w", name, err)
	}
	return &DeviceSource{
		name:   name,
		handle: handle,
		addrs:  ifaceAddrs(found.Addresses),
	}, nil
}

func (s *DeviceSource) Name() string                 { return s.name }
func (s *DeviceSource) LinkType() layers.LinkType    { return s.handle.LinkType() }
func (s *DeviceSource) Addresses() []model.IfaceAddr { return s.addrs }
func (s *DeviceSource) IsFile() bool                 { return false }

// RefreshAddresses re-reads the device's address list; addresses can
// change mid-capture (DHCP renewal, interface reconfiguration).
func (s *DeviceSource) RefreshAddresses() {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return
	}
	for i := range devices {
		if devices[i].Name == s.name {
			s.addrs = ifaceAddrs(devices[i].Addresses)
			return
		}
	}
}

func (s *DeviceSource) NextPacket() ([]byte, gopacket.CaptureInfo, error) {
	return s.handle.ReadPacketData()
}

func (s *DeviceSource) DroppedPackets() uint32 {
	stats, err := s.handle.Stats()
	if err != nil {
		return 0
	}
	return uint32(stats.PacketsDropped)
}

func (s *DeviceSource) Close() { s.handle.Close() }

// FileSource replays packets from a capture file.
type FileSource struct {
	path   string
	handle *pcap.Handle
}

// NewFileSource opens a capture file for offline replay.
func NewFileSource(path string) (*FileSource, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %q: %w", path, err)
	}
	return &FileSource{path: path, handle: handle}, nil
}

func (s *FileSource) Name() string                 { return s.path }
func (s *FileSource) LinkType() layers.LinkType    { return s.handle.LinkType() }
func (s *FileSource) Addresses() []model.IfaceAddr { return nil }
func (s *FileSource) RefreshAddresses()            {}
func (s *FileSource) IsFile() bool                 { return true }
func (s *FileSource) DroppedPackets() uint32       { return 0 }

func (s *FileSource) NextPacket() ([]byte, gopacket.CaptureInfo, error) {
	return s.handle.ReadPacketData()
}

func (s *FileSource) Close() { s.handle.Close() }

// ListInterfaces enumerates the capturable interfaces of the machine.
func ListInterfaces() ([]model.Interface, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate capture devices: %w", err)
	}
	out := make([]model.Interface, 0, len(devices))
	for _, dev := range devices {
		out = append(out, model.Interface{
			Name:        dev.Name,
			Description: dev.Description,
			Addresses:   ifaceAddrs(dev.Addresses),
		})
	}
	return out, nil
}

func ifaceAddrs(addrs []pcap.InterfaceAddress) []model.IfaceAddr {
	out := make([]model.IfaceAddr, 0, len(addrs))
	for _, a := range addrs {
		addr, ok := netip.AddrFromSlice(a.IP)
		if !ok {
			continue
		}
		entry := model.IfaceAddr{Addr: addr.Unmap()}
		if mask, ok := netip.AddrFromSlice(a.Netmask); ok {
			entry.Netmask = mask.Unmap()
		}
		if bcast, ok := netip.AddrFromSlice(a.Broadaddr); ok {
			entry.Broadcast = bcast.Unmap()
		}
		out = append(out, entry)
	}
	return out
}

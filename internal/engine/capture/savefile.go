package capture

import (
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// saveSink re-writes analyzed packets to a pcap file. Only packets that
// produced a flow key are saved, so the output mirrors what the session
// accounted for.
type saveSink struct {
	file   *os.File
	writer *pcapgo.Writer
}

func newSaveSink(path string, linkType layers.LinkType) (*saveSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create savefile %q: %w", path, err)
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(snapshotLen, linkType); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write savefile header: %w", err)
	}
	return &saveSink{file: f, writer: w}, nil
}

func (s *saveSink) WritePacket(ci gopacket.CaptureInfo, data []byte) error {
	return s.writer.WritePacket(ci, data)
}

func (s *saveSink) Close() error {
	return s.file.Close()
}

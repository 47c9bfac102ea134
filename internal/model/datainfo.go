package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DataInfo is the amount of data (packets and bytes) exchanged in both
// directions, with the instant of the latest occurrence. It backs the
// per-service, per-host, and total aggregates.
type DataInfo struct {
	IncomingPackets uint64    `json:"incoming_packets"`
	OutgoingPackets uint64    `json:"outgoing_packets"`
	IncomingBytes   uint64    `json:"incoming_bytes"`
	OutgoingBytes   uint64    `json:"outgoing_bytes"`
	FinalInstant    time.Time `json:"-"`
}

// NewDataInfoWithFirstPacket seeds a DataInfo from the first packet of
// whatever entity it is accounting.
func NewDataInfoWithFirstPacket(bytes uint64, direction TrafficDirection) DataInfo {
	d := DataInfo{FinalInstant: time.Now()}
	if direction == Outgoing {
		d.OutgoingPackets = 1
		d.OutgoingBytes = bytes
	} else {
		d.IncomingPackets = 1
		d.IncomingBytes = bytes
	}
	return d
}

// AddPacket accounts one more packet of the given size and direction.
func (d *DataInfo) AddPacket(bytes uint64, direction TrafficDirection) {
	if direction == Outgoing {
		d.OutgoingPackets++
		d.OutgoingBytes += bytes
	} else {
		d.IncomingPackets++
		d.IncomingBytes += bytes
	}
	d.FinalInstant = time.Now()
}

// Refresh merges another DataInfo additively into this one.
func (d *DataInfo) Refresh(other DataInfo) {
	d.IncomingPackets += other.IncomingPackets
	d.OutgoingPackets += other.OutgoingPackets
	d.IncomingBytes += other.IncomingBytes
	d.OutgoingBytes += other.OutgoingBytes
	if other.FinalInstant.After(d.FinalInstant) {
		d.FinalInstant = other.FinalInstant
	}
}

func (d DataInfo) IncomingData(repr DataRepr) uint64 {
	switch repr {
	case Packets:
		return d.IncomingPackets
	case Bits:
		return d.IncomingBytes * 8
	}
	return d.IncomingBytes
}

func (d DataInfo) OutgoingData(repr DataRepr) uint64 {
	switch repr {
	case Packets:
		return d.OutgoingPackets
	case Bits:
		return d.OutgoingBytes * 8
	}
	return d.OutgoingBytes
}

func (d DataInfo) TotData(repr DataRepr) uint64 {
	return d.IncomingData(repr) + d.OutgoingData(repr)
}

// DataRepr selects the unit a traffic amount is expressed in.
type DataRepr uint8

const (
	Bytes DataRepr = iota
	Packets
	Bits
)

// byteMultiple is a base-1000 magnitude for human-readable amounts.
type byteMultiple uint8

const (
	multB byteMultiple = iota
	multK
	multM
	multG
	multT
	multP
)

func (m byteMultiple) multiplier() uint64 {
	v := uint64(1)
	for i := byteMultiple(0); i < m; i++ {
		v *= 1000
	}
	return v
}

func (m byteMultiple) letter() string {
	return [...]string{"", "K", "M", "G", "T", "P"}[m]
}

func multipleFromAmount(amount uint64) byteMultiple {
	m := multB
	for m < multP && amount >= (m+1).multiplier() {
		m++
	}
	return m
}

// FormattedString renders an amount with the proper base-1000 multiple and
// three significant digits. The value is clamped so that e.g. 999_999 bytes
// shows as "999 KB" rather than rolling over to "1.00 MB".
func (r DataRepr) FormattedString(amount uint64) string {
	if r == Packets {
		return strconv.FormatUint(amount, 10)
	}

	multiple := multipleFromAmount(amount)
	n := float64(amount) / float64(multiple.multiplier())
	if n > 999.0 && multiple != multP {
		n = 999.0
	}

	precision := 0
	switch {
	case multiple != multB && n <= 9.95:
		precision = 2
	case multiple != multB && n <= 99.95:
		precision = 1
	}

	unit := "B"
	if r == Bits {
		unit = "b"
	}
	return strings.TrimSpace(fmt.Sprintf("%.*f %s%s", precision, n, multiple.letter(), unit))
}

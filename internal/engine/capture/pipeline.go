package capture

import (
	"context"
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/engine/aggregate"
	"TrafficScope/internal/engine/decode"
	"TrafficScope/internal/engine/resolve"
	"TrafficScope/internal/model"
	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// pipeline runs the per-packet analysis loop over a single source. It is
// the sole writer of its InfoTraffic; snapshots leave it only through
// the emit callbacks.
type pipeline struct {
	source   Source
	resolver *resolve.Resolver
	traffic  *model.InfoTraffic
	save     *saveSink
	interval time.Duration

	emit    func(*model.TrafficUpdate)
	emitGap func(time.Duration)

	// nextEmit is the wall-clock deadline of the next live emission.
	// It stays zero until the first packet arrives.
	nextEmit time.Time
}

func (p *pipeline) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if p.source.IsFile() {
				p.finalize()
			} else {
				p.stop()
			}
			return
		default:
		}

		data, ci, err := p.source.NextPacket()
		if !p.source.IsFile() {
			p.maybeEmitLive(time.Now())
		}
		switch {
		case err == nil:
			p.process(data, ci)
		case errors.Is(err, pcap.NextErrorTimeoutExpired):
			continue
		case errors.Is(err, io.EOF):
			p.finalize()
			return
		default:
			if p.source.IsFile() {
				log.Warnf("capture: read error on %q, stopping replay: %v", p.source.Name(), err)
				p.finalize()
				return
			}
			log.Debugf("capture: read error on %q: %v", p.source.Name(), err)
		}
	}
}

func (p *pipeline) process(data []byte, ci gopacket.CaptureInfo) {
	pkt := decode.Analyze(data, p.source.LinkType(), ci.Timestamp)
	if pkt == nil {
		return
	}

	if p.source.IsFile() {
		p.maybeEmitOffline(pkt.Timestamp)
	} else if p.nextEmit.IsZero() {
		p.nextEmit = time.Now().Add(p.interval)
	}
	p.traffic.LastPacketTimestamp = pkt.Timestamp

	if p.save != nil {
		if err := p.save.WritePacket(ci, data); err != nil {
			log.Warnf("capture: savefile write failed, disabling: %v", err)
			p.save.Close()
			p.save = nil
		}
	}

	addrs := p.source.Addresses()
	direction, service := aggregate.ModifyOrInsert(p.traffic, pkt, addrs)
	p.traffic.TotData.AddPacket(pkt.ExchangedBytes, direction)
	aggregate.AddToService(p.traffic, service, pkt.ExchangedBytes, direction)
	p.resolver.Account(p.traffic, pkt, direction, addrs)
	p.traffic.DroppedPackets = p.source.DroppedPackets()
}

// maybeEmitLive fires a periodic update once the interval since the
// previous emission has elapsed. The deadline advances by a fixed step
// so a slow consumer does not skew the cadence.
func (p *pipeline) maybeEmitLive(now time.Time) {
	if p.nextEmit.IsZero() || now.Before(p.nextEmit) {
		return
	}
	p.emitUpdate(false)
	p.nextEmit = p.nextEmit.Add(p.interval)
	p.source.RefreshAddresses()
}

// maybeEmitOffline advances replay time from packet timestamps. Every
// time the capture crosses a second boundary an update goes out, and a
// jump of more than one second is additionally reported as a gap.
func (p *pipeline) maybeEmitOffline(next time.Time) {
	last := p.traffic.LastPacketTimestamp
	if last.IsZero() {
		return
	}
	diff := next.Unix() - last.Unix()
	if diff <= 0 {
		return
	}
	p.emitUpdate(false)
	if diff > 1 {
		p.emitGap(time.Duration(diff-1) * time.Second)
	}
}

// emitUpdate merges freshly resolved hosts into the traffic state, then
// hands off the counters accumulated since the previous emission.
func (p *pipeline) emitUpdate(final bool) {
	newHosts := p.resolver.DrainNewHosts()
	for _, msg := range newHosts {
		aggregate.MergeResolvedHost(p.traffic, msg)
	}
	p.emit(&model.TrafficUpdate{
		Traffic:  p.traffic.TakeButLeaveSomething(),
		NewHosts: newHosts,
		IsFinal:  final,
	})
}

// finalize flushes the tail of an offline replay: the last partial
// interval, then whatever the resolver still had in flight.
func (p *pipeline) finalize() {
	p.emitUpdate(true)
	p.resolver.Wait()
	p.emitUpdate(true)
	p.closeSave()
}

// stop ends a live capture without waiting on the resolver: whatever is
// still accumulated goes out as the final update.
func (p *pipeline) stop() {
	p.emitUpdate(true)
	p.closeSave()
}

func (p *pipeline) closeSave() {
	if p.save == nil {
		return
	}
	if err := p.save.Close(); err != nil {
		log.Warnf("capture: failed to close savefile: %v", err)
	}
	p.save = nil
}

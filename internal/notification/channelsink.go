package notification

import (
	"time"

	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/model"
)

// ChannelSink hands traffic updates to an in-process consumer over
// buffered channels. When the consumer lags behind, the oldest buffered
// update is dropped in favor of the new one; gaps are dropped outright.
type ChannelSink struct {
	updates chan *model.TrafficUpdate
	gaps    chan time.Duration
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{
		updates: make(chan *model.TrafficUpdate, buffer),
		gaps:    make(chan time.Duration, buffer),
	}
}

func (s *ChannelSink) OnTrafficUpdate(update *model.TrafficUpdate) {
	for {
		select {
		case s.updates <- update:
			return
		default:
		}
		select {
		case stale := <-s.updates:
			log.Debugf("channel sink consumer lagging, dropped an update with %d flows", len(stale.Traffic.Map))
		default:
		}
	}
}

func (s *ChannelSink) OnGap(d time.Duration) {
	select {
	case s.gaps <- d:
	default:
	}
}

// Updates is the consumer side of the sink.
func (s *ChannelSink) Updates() <-chan *model.TrafficUpdate {
	return s.updates
}

// Gaps delivers replay gap notifications.
func (s *ChannelSink) Gaps() <-chan time.Duration {
	return s.gaps
}

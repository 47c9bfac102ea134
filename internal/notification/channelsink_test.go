package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrafficScope/internal/model"
)

func TestChannelSinkDeliversInOrder(t *testing.T) {
	sink := NewChannelSink(4)
	a := &model.TrafficUpdate{Traffic: model.NewInfoTraffic()}
	b := &model.TrafficUpdate{Traffic: model.NewInfoTraffic(), IsFinal: true}

	sink.OnTrafficUpdate(a)
	sink.OnTrafficUpdate(b)

	assert.Same(t, a, <-sink.Updates())
	assert.Same(t, b, <-sink.Updates())
}

func TestChannelSinkDropsOldestWhenFull(t *testing.T) {
	sink := NewChannelSink(1)
	old := &model.TrafficUpdate{Traffic: model.NewInfoTraffic()}
	fresh := &model.TrafficUpdate{Traffic: model.NewInfoTraffic(), IsFinal: true}

	sink.OnTrafficUpdate(old)
	sink.OnTrafficUpdate(fresh)

	require.Len(t, sink.Updates(), 1)
	assert.Same(t, fresh, <-sink.Updates())
}

func TestChannelSinkGaps(t *testing.T) {
	sink := NewChannelSink(1)
	sink.OnGap(3 * time.Second)
	// A second gap with a full buffer is dropped, not blocked on.
	sink.OnGap(5 * time.Second)

	assert.Equal(t, 3*time.Second, <-sink.Gaps())
	assert.Empty(t, sink.Gaps())
}

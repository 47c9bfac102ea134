package model

import "time"

// TrafficUpdate is one periodic emission of the capture pipeline: the
// drained interval aggregate plus the hosts resolved since the previous
// emission. IsFinal marks the last update of an offline replay.
type TrafficUpdate struct {
	Traffic  *InfoTraffic
	NewHosts []HostMessage
	IsFinal  bool
}

// EventSink receives the pipeline's periodic emissions. Implementations
// must not retain the update's maps beyond the call unless they copy them;
// OnTrafficUpdate is always invoked from the capture goroutine.
type EventSink interface {
	// OnTrafficUpdate delivers a periodic (or final) aggregate update.
	OnTrafficUpdate(update *TrafficUpdate)
	// OnGap signals an idle interval detected during offline replay.
	OnGap(duration time.Duration)
}

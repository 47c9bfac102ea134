package notification

import (
	"time"

	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/model"
)

// LogSink is an event sink that summarizes each traffic update on the
// application log.
type LogSink struct{}

func NewLogSink() *LogSink { return &LogSink{} }

func (s *LogSink) OnTrafficUpdate(update *model.TrafficUpdate) {
	t := update.Traffic
	log.WithFields(log.Fields{
		"flows":    len(t.Map),
		"services": len(t.Services),
		"hosts":    len(t.Hosts),
		"in":       model.Bytes.FormattedString(t.TotData.IncomingBytes),
		"out":      model.Bytes.FormattedString(t.TotData.OutgoingBytes),
		"dropped":  t.DroppedPackets,
		"final":    update.IsFinal,
	}).Info("traffic update")
}

func (s *LogSink) OnGap(d time.Duration) {
	log.Infof("replay gap of %s in capture file", d)
}

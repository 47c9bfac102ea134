// Package notification publishes traffic updates to external consumers
// over NATS.
package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/config"
	"TrafficScope/internal/model"
)

// updateEvent is the wire form of one traffic update.
type updateEvent struct {
	Timestamp      time.Time             `json:"timestamp"`
	IsFinal        bool                  `json:"is_final"`
	TotData        model.DataInfo        `json:"tot_data"`
	DroppedPackets uint32                `json:"dropped_packets"`
	Flows          []model.FlowRecord    `json:"flows"`
	Services       []model.ServiceRecord `json:"services"`
	Hosts          []model.HostRecord    `json:"hosts"`
	NewHosts       []model.HostMessage   `json:"new_hosts,omitempty"`
}

type gapEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	GapSeconds int64     `json:"gap_seconds"`
}

// Publisher is an event sink that serializes each traffic update to JSON
// and publishes it to a NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher connects to the NATS server from the config.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}
	log.Infof("Connected to NATS server at %s", cfg.URL)
	subject := cfg.Subject
	if subject == "" {
		subject = "trafficscope.updates"
	}
	return &Publisher{nc: nc, subject: subject}, nil
}

// OnTrafficUpdate publishes one update. Publish failures are logged and
// dropped so a broker outage cannot stall the capture loop.
func (p *Publisher) OnTrafficUpdate(update *model.TrafficUpdate) {
	event := updateEvent{
		Timestamp:      time.Now(),
		IsFinal:        update.IsFinal,
		TotData:        update.Traffic.TotData,
		DroppedPackets: update.Traffic.DroppedPackets,
		Flows:          update.Traffic.FlowRecords(),
		Services:       update.Traffic.ServiceRecords(),
		Hosts:          update.Traffic.HostRecords(),
		NewHosts:       update.NewHosts,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Failed to marshal traffic update: %v", err)
		return
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		log.Errorf("Failed to publish traffic update: %v", err)
	}
}

// OnGap publishes a replay time gap on a dedicated subject suffix.
func (p *Publisher) OnGap(d time.Duration) {
	data, err := json.Marshal(gapEvent{Timestamp: time.Now(), GapSeconds: int64(d.Seconds())})
	if err != nil {
		return
	}
	if err := p.nc.Publish(p.subject+".gaps", data); err != nil {
		log.Errorf("Failed to publish gap event: %v", err)
	}
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Info("NATS connection drained and closed.")
	}
}

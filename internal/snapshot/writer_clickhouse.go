// Package snapshot persists periodic traffic snapshots to ClickHouse.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/config"
	"TrafficScope/internal/model"
)

const createFlowsTableStatement = `
CREATE TABLE IF NOT EXISTS traffic_flows (
    Timestamp   DateTime,
    Address1    String,
    Address2    String,
    Port1       Nullable(UInt16),
    Port2       Nullable(UInt16),
    Protocol    String,
    Service     String,
    Direction   String,
    Bytes       UInt64,
    Packets     UInt64,
    FirstSeen   DateTime,
    LastSeen    DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Timestamp, Address1, Address2);
`

const createHostsTableStatement = `
CREATE TABLE IF NOT EXISTS traffic_hosts (
    Timestamp       DateTime,
    Domain          String,
    AsnCode         String,
    AsnName         String,
    Country         String,
    IncomingBytes   UInt64,
    OutgoingBytes   UInt64,
    IncomingPackets UInt64,
    OutgoingPackets UInt64,
    IsLocal         UInt8,
    IsBogon         UInt8
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Timestamp, Domain);
`

// ClickHouseWriter is an event sink that batches each traffic update
// into the traffic_flows and traffic_hosts tables.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter connects to ClickHouse and ensures the tables exist.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (*ClickHouseWriter, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	for _, stmt := range []string{createFlowsTableStatement, createHostsTableStatement} {
		if err := conn.Exec(context.Background(), stmt); err != nil {
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}
	log.Info("Successfully connected to ClickHouse and ensured tables exist.")
	return &ClickHouseWriter{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}
	return conn, nil
}

// OnTrafficUpdate writes the flows and hosts of one update. Errors are
// logged and dropped so a database outage cannot stall the capture loop.
func (w *ClickHouseWriter) OnTrafficUpdate(update *model.TrafficUpdate) {
	now := time.Now()
	if err := w.writeFlows(now, update.Traffic.FlowRecords()); err != nil {
		log.Errorf("Failed to write flows to ClickHouse: %v", err)
	}
	if err := w.writeHosts(now, update.Traffic.HostRecords()); err != nil {
		log.Errorf("Failed to write hosts to ClickHouse: %v", err)
	}
}

// OnGap is a no-op; replay gaps carry no rows.
func (w *ClickHouseWriter) OnGap(time.Duration) {}

func (w *ClickHouseWriter) writeFlows(ts time.Time, flows []model.FlowRecord) error {
	if len(flows) == 0 {
		return nil
	}
	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO traffic_flows")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}
	for _, f := range flows {
		err = batch.Append(
			ts,
			f.Address1,
			f.Address2,
			f.Port1,
			f.Port2,
			f.Protocol,
			f.Service,
			f.TrafficDirection,
			f.TransmittedBytes,
			f.TransmittedPackets,
			f.InitialTimestamp,
			f.FinalTimestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to append flow to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	log.Debugf("Wrote %d flows to ClickHouse", len(flows))
	return nil
}

func (w *ClickHouseWriter) writeHosts(ts time.Time, hosts []model.HostRecord) error {
	if len(hosts) == 0 {
		return nil
	}
	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO traffic_hosts")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}
	for _, h := range hosts {
		err = batch.Append(
			ts,
			h.Domain,
			h.AsnCode,
			h.AsnName,
			h.Country,
			h.Data.IncomingBytes,
			h.Data.OutgoingBytes,
			h.Data.IncomingPackets,
			h.Data.OutgoingPackets,
			boolToUInt8(h.IsLocal),
			boolToUInt8(h.IsBogon),
		)
		if err != nil {
			return fmt.Errorf("failed to append host to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	log.Debugf("Wrote %d hosts to ClickHouse", len(hosts))
	return nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Close releases the ClickHouse connection.
func (w *ClickHouseWriter) Close() error {
	return w.conn.Close()
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
capture:
  interface: "eth0"
  snapshot_interval: "2s"
  save_path: "/tmp/out.pcap"
resolver:
  workers: 32
  lookup_timeout: "1500ms"
mmdb:
  country_path: "/var/lib/mmdb/country.mmdb"
  asn_path: "/var/lib/mmdb/asn.mmdb"
api:
  enabled: true
  listen_addr: ":8090"
nats:
  enabled: true
  url: "nats://localhost:4222"
  subject: "traffic.updates"
clickhouse:
  enabled: false
  addr: "localhost:9000"
  database: "traffic"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "eth0", cfg.Capture.Interface)
	assert.Equal(t, 2*time.Second, cfg.Capture.SnapshotIntervalDuration())
	assert.Equal(t, "/tmp/out.pcap", cfg.Capture.SavePath)
	assert.Equal(t, 32, cfg.Resolver.Workers)
	assert.Equal(t, 1500*time.Millisecond, cfg.Resolver.LookupTimeoutDuration())
	assert.True(t, cfg.API.Enabled)
	assert.Equal(t, ":8090", cfg.API.ListenAddr)
	assert.True(t, cfg.NATS.Enabled)
	assert.Equal(t, "traffic.updates", cfg.NATS.Subject)
	assert.False(t, cfg.ClickHouse.Enabled)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "capture: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Capture.SnapshotIntervalDuration())
	assert.Equal(t, 4*time.Second, cfg.Resolver.LookupTimeoutDuration())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "capture: ["))
	assert.Error(t, err)
}

func TestParseDurationRejectsNonPositive(t *testing.T) {
	c := CaptureConfig{SnapshotInterval: "-5s"}
	assert.Equal(t, time.Second, c.SnapshotIntervalDuration())
	c.SnapshotInterval = "garbage"
	assert.Equal(t, time.Second, c.SnapshotIntervalDuration())
}

package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/api"
	"TrafficScope/internal/config"
	"TrafficScope/internal/engine/capture"
	"TrafficScope/internal/mmdb"
	"TrafficScope/internal/model"
	"TrafficScope/internal/notification"
	"TrafficScope/internal/snapshot"
)

func main() {
	configFile := flag.String("config", "configs/config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	readers := mmdb.Open(cfg.Mmdb.CountryPath, cfg.Mmdb.AsnPath)
	defer readers.Close()

	sinks := []model.EventSink{notification.NewLogSink()}

	if cfg.NATS.Enabled {
		publisher, err := notification.NewPublisher(cfg.NATS)
		if err != nil {
			log.Fatalf("Failed to create NATS publisher: %v", err)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	if cfg.ClickHouse.Enabled {
		writer, err := snapshot.NewClickHouseWriter(cfg.ClickHouse)
		if err != nil {
			log.Fatalf("Failed to create ClickHouse writer: %v", err)
		}
		defer writer.Close()
		sinks = append(sinks, writer)
	}

	session := capture.NewSession(capture.Config{
		SnapshotInterval: cfg.Capture.SnapshotIntervalDuration(),
		ResolverWorkers:  cfg.Resolver.Workers,
		ResolverTimeout:  cfg.Resolver.LookupTimeoutDuration(),
		SavePath:         cfg.Capture.SavePath,
	}, readers, sinks...)

	if cfg.Capture.Interface != "" {
		if err := session.Start(cfg.Capture.Interface); err != nil {
			log.Fatalf("Failed to start capture on %q: %v", cfg.Capture.Interface, err)
		}
	} else {
		log.Info("No capture interface configured, waiting for API start request")
	}

	var server *api.Server
	if cfg.API.Enabled {
		server = api.NewServer(cfg.API.ListenAddr, session)
		server.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	if server != nil {
		if err := server.Shutdown(); err != nil {
			log.Errorf("API server forced to shutdown: %v", err)
		}
	}
	if err := session.Stop(); err != nil && err != capture.ErrNotRunning {
		log.Errorf("Failed to stop capture: %v", err)
	}
	log.Info("Engine exited.")
}

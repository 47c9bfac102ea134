package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/engine/resolve"
	"TrafficScope/internal/mmdb"
	"TrafficScope/internal/model"
)

var (
	ErrAlreadyRunning = errors.New("a capture is already running")
	ErrNotRunning     = errors.New("no capture is running")
)

// Config holds the per-session tunables.
type Config struct {
	// SnapshotInterval is the cadence of live traffic updates.
	SnapshotInterval time.Duration
	// ResolverWorkers bounds concurrent host resolutions.
	ResolverWorkers int
	// ResolverTimeout bounds each reverse DNS lookup.
	ResolverTimeout time.Duration
	// SavePath, when set, re-saves analyzed packets to a pcap file.
	SavePath string
}

// Session owns at most one running capture at a time and keeps the
// cumulative view of everything the capture has emitted so far.
type Session struct {
	cfg     Config
	readers *mmdb.Readers
	sinks   []model.EventSink

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	viewMu   sync.RWMutex
	view     *model.InfoTraffic
	hostData *model.HostData
}

// NewSession builds an idle session. Updates from captures started on it
// are merged into the cumulative view and fanned out to the sinks in
// order.
func NewSession(cfg Config, readers *mmdb.Readers, sinks ...model.EventSink) *Session {
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = time.Second
	}
	return &Session{
		cfg:      cfg,
		readers:  readers,
		sinks:    sinks,
		view:     model.NewInfoTraffic(),
		hostData: model.NewHostData(),
	}
}

// Start begins a live capture on the named interface.
func (s *Session) Start(iface string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	src, err := NewDeviceSource(iface)
	if err != nil {
		return err
	}
	return s.start(src)
}

// StartFile begins an offline replay of a capture file.
func (s *Session) StartFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	src, err := NewFileSource(path)
	if err != nil {
		return err
	}
	return s.start(src)
}

// start spawns the pipeline goroutine. Caller holds s.mu.
func (s *Session) start(src Source) error {
	var save *saveSink
	if s.cfg.SavePath != "" {
		var err error
		save, err = newSaveSink(s.cfg.SavePath, src.LinkType())
		if err != nil {
			src.Close()
			return err
		}
	}

	resolver := resolve.New(s.readers,
		resolve.WithWorkers(s.cfg.ResolverWorkers),
		resolve.WithTimeout(s.cfg.ResolverTimeout),
	)
	p := &pipeline{
		source:   src,
		resolver: resolver,
		traffic:  model.NewInfoTraffic(),
		save:     save,
		interval: s.cfg.SnapshotInterval,
		emit:     s.apply,
		emitGap:  s.applyGap,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.running = true
	s.cancel = cancel
	s.done = done

	s.viewMu.Lock()
	s.view = model.NewInfoTraffic()
	s.viewMu.Unlock()

	log.Infof("capture: starting on %q (interval %s)", src.Name(), s.cfg.SnapshotInterval)
	go func() {
		defer close(done)
		defer src.Close()
		p.run(ctx)

		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()
		log.Infof("capture: finished on %q", src.Name())
	}()
	return nil
}

// Stop cancels the running capture and waits for the pipeline to drain.
func (s *Session) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
	return nil
}

// Wait blocks until the current capture ends on its own; it returns
// immediately when nothing is running. Offline replays end at EOF.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running reports whether a capture is in progress.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// apply folds one pipeline update into the cumulative view and fans it
// out to the sinks.
func (s *Session) apply(update *model.TrafficUpdate) {
	s.viewMu.Lock()
	s.view.Refresh(update.Traffic)
	for _, msg := range update.NewHosts {
		s.hostData.Update(msg.Host)
	}
	s.viewMu.Unlock()

	for _, sink := range s.sinks {
		sink.OnTrafficUpdate(update)
	}
}

func (s *Session) applyGap(d time.Duration) {
	for _, sink := range s.sinks {
		sink.OnGap(d)
	}
}

// ListInterfaces enumerates the capturable interfaces.
func (s *Session) ListInterfaces() ([]model.Interface, error) {
	return ListInterfaces()
}

// Snapshot returns a deep copy of the cumulative traffic view.
func (s *Session) Snapshot() *model.InfoTraffic {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.view.Snapshot()
}

// HostLists returns the sorted domains, ASNs and countries observed
// among resolved hosts.
func (s *Session) HostLists() (domains, asns, countries []string) {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.hostData.Domains(), s.hostData.Asns(), s.hostData.Countries()
}

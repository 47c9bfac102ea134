// Package resolve implements the concurrent host-resolution subsystem:
// reverse-DNS plus geo/ASN enrichment, deduplicated so that each address is
// resolved at most once per capture session.
package resolve

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/engine/aggregate"
	"TrafficScope/internal/engine/classify"
	"TrafficScope/internal/mmdb"
	"TrafficScope/internal/model"
)

const defaultWorkers = 64

// LookupFunc performs a reverse-DNS lookup. It matches the signature of
// net.Resolver.LookupAddr and is injectable for tests.
type LookupFunc func(ctx context.Context, addr string) ([]string, error)

// Resolver drives the per-address resolution state machine. Account is
// only ever called from the capture goroutine; resolution tasks run on a
// bounded pool and share nothing with the capture goroutine but the ledger
// and the pending-host buffer, each guarded by its own mutex.
type Resolver struct {
	mu     sync.Mutex
	ledger *ledger

	pendingMu sync.Mutex
	pending   []model.HostMessage

	sem     chan struct{}
	wg      sync.WaitGroup
	lookup  LookupFunc
	timeout time.Duration
	readers *mmdb.Readers
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookup replaces the reverse-DNS lookup function.
func WithLookup(fn LookupFunc) Option {
	return func(r *Resolver) { r.lookup = fn }
}

// WithWorkers bounds the number of concurrently running resolution tasks.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.sem = make(chan struct{}, n)
		}
	}
}

// WithTimeout bounds the reverse-DNS lookup duration.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// New creates a Resolver using the given enrichment readers.
func New(readers *mmdb.Readers, opts ...Option) *Resolver {
	if readers == nil {
		readers = &mmdb.Readers{}
	}
	resolver := &net.Resolver{}
	r := &Resolver{
		ledger:  newLedger(),
		sem:     make(chan struct{}, defaultWorkers),
		lookup:  resolver.LookupAddr,
		timeout: 4 * time.Second,
		readers: readers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Account drives the state machine for the packet's remote address and
// updates the per-host aggregate of traffic when the address is already
// resolved. Must be called from the capture goroutine.
func (r *Resolver) Account(traffic *model.InfoTraffic, pkt *model.PacketInfo, direction model.TrafficDirection, ifaceAddrs []model.IfaceAddr) {
	addr := classify.AddressToLookup(pkt.Key, direction)

	r.mu.Lock()
	if host, resolved := r.ledger.addressesResolved[addr]; resolved {
		r.mu.Unlock()
		aggregate.AddToHost(traffic, host, pkt, direction, ifaceAddrs)
		return
	}
	if waiting, ok := r.ledger.addressesWaitingResolution[addr]; ok {
		// a task for this address is already in flight
		waiting.AddPacket(pkt.ExchangedBytes, direction)
		r.mu.Unlock()
		return
	}
	// first sight of this address: enter Waiting before dispatching, so
	// no second task can ever be spawned for it
	seed := model.NewDataInfoWithFirstPacket(pkt.ExchangedBytes, direction)
	r.ledger.addressesWaitingResolution[addr] = &seed
	r.mu.Unlock()

	addrsCopy := make([]model.IfaceAddr, len(ifaceAddrs))
	copy(addrsCopy, ifaceAddrs)

	r.wg.Add(1)
	go r.resolveTask(addr, direction, addrsCopy)
}

// resolveTask is the body of one resolution task. It blocks on network
// lookups without holding any lock; the ledger lock is taken only for the
// final waiting -> resolved transition.
func (r *Resolver) resolveTask(addr netip.Addr, direction model.TrafficDirection, ifaceAddrs []model.IfaceAddr) {
	defer r.wg.Done()
	r.sem <- struct{}{}
	defer func() { <-r.sem }()

	rdns := r.reverseLookup(addr)

	_, bogon := classify.IsBogon(addr)
	host := model.Host{
		Domain:  DomainFromRdns(rdns),
		Asn:     r.readers.Asn(addr),
		Country: r.readers.Country(addr),
	}
	flags := model.DataInfoHost{
		IsLoopback:  addr.IsLoopback(),
		IsLocal:     classify.IsLocalConnection(addr, ifaceAddrs),
		IsBogon:     bogon,
		TrafficType: classify.GetTrafficType(addr, ifaceAddrs, direction),
	}

	r.mu.Lock()
	if data, ok := r.ledger.addressesWaitingResolution[addr]; ok {
		flags.DataInfo = *data
		delete(r.ledger.addressesWaitingResolution, addr)
	}
	r.ledger.addressesResolved[addr] = host
	r.mu.Unlock()

	msg := model.HostMessage{
		Host:    host,
		Data:    flags,
		Address: addr,
		Rdns:    rdns,
	}

	r.pendingMu.Lock()
	r.pending = append(r.pending, msg)
	r.pendingMu.Unlock()
}

// reverseLookup resolves the address to a name, falling back to the
// textual address on error or empty result.
func (r *Resolver) reverseLookup(addr netip.Addr) string {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	names, err := r.lookup(ctx, addr.String())
	if err != nil || len(names) == 0 || names[0] == "" {
		if err != nil {
			log.Debugf("rDNS lookup for %s failed: %v", addr, err)
		}
		return addr.String()
	}
	return strings.TrimSuffix(names[0], ".")
}

// DrainNewHosts hands back the hosts resolved since the previous call.
func (r *Resolver) DrainNewHosts() []model.HostMessage {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// Wait blocks until every in-flight resolution task has completed. Used at
// the end of an offline replay to drain stragglers.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// Resolved returns the host an address resolved to, if any.
func (r *Resolver) Resolved(addr netip.Addr) (model.Host, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	host, ok := r.ledger.addressesResolved[addr]
	return host, ok
}

// Waiting reports whether an address is currently awaiting resolution.
func (r *Resolver) Waiting(addr netip.Addr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ledger.addressesWaitingResolution[addr]
	return ok
}

// DomainFromRdns reduces a reverse-DNS name to its registrable suffix:
// the last two labels. Names that are actually textual IP addresses (the
// lookup fallback) are kept whole.
func DomainFromRdns(rdns string) string {
	if _, err := netip.ParseAddr(rdns); err == nil {
		return rdns
	}
	labels := strings.Split(rdns, ".")
	if len(labels) <= 2 {
		return rdns
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

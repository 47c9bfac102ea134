package resolve

import (
	"net/netip"

	"TrafficScope/internal/model"
)

// ledger is the deduplication state of the resolution subsystem. A given
// address lives in at most one of the two maps at any time, and only ever
// moves waiting -> resolved. The Waiting entry is created before the
// resolution task is dispatched, under the resolver's lock, which is what
// guarantees at most one task in flight per address.
type ledger struct {
	// addressesWaitingResolution accumulates the data exchanged by an
	// address while its resolution task is still running.
	addressesWaitingResolution map[netip.Addr]*model.DataInfo
	// addressesResolved maps an address to its resolved host.
	addressesResolved map[netip.Addr]model.Host
}

func newLedger() *ledger {
	return &ledger{
		addressesWaitingResolution: make(map[netip.Addr]*model.DataInfo),
		addressesResolved:          make(map[netip.Addr]model.Host),
	}
}

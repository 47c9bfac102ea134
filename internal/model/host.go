package model

import (
	"net/netip"
	"sort"
)

// Asn is the Autonomous System announcing an address.
type Asn struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

// Host identifies a remote network host. It is immutable once built and
// comparable, so it can key the per-host aggregate.
type Host struct {
	// Domain is the reverse-DNS name, or the textual address when the
	// lookup failed or returned nothing.
	Domain  string `json:"domain"`
	Asn     Asn    `json:"asn"`
	Country string `json:"country,omitempty"`
}

// DataInfoHost couples the per-host counters with host properties derived
// once, at the moment the host was first resolved.
type DataInfoHost struct {
	DataInfo    DataInfo    `json:"data_info"`
	IsFavorite  bool        `json:"is_favorite"`
	IsLoopback  bool        `json:"is_loopback"`
	IsLocal     bool        `json:"is_local"`
	IsBogon     bool        `json:"is_bogon"`
	TrafficType TrafficType `json:"traffic_type"`
}

// HostMessage carries a freshly resolved host from a resolution task back
// to the capture pipeline.
type HostMessage struct {
	Host    Host         `json:"host"`
	Data    DataInfoHost `json:"data"`
	Address netip.Addr   `json:"address"`
	Rdns    string       `json:"rdns"`
}

// HostData collects the distinct domains, AS names, and countries observed
// among resolved hosts. It backs search/filter lists in consumers.
type HostData struct {
	domains   map[string]struct{}
	asns      map[string]struct{}
	countries map[string]struct{}
}

func NewHostData() *HostData {
	return &HostData{
		domains:   make(map[string]struct{}),
		asns:      make(map[string]struct{}),
		countries: make(map[string]struct{}),
	}
}

// Update records the sets entries of a newly observed host. Textual
// addresses standing in for a failed rDNS are not treated as domains.
func (h *HostData) Update(host Host) {
	if host.Domain != "" {
		if _, err := netip.ParseAddr(host.Domain); err != nil {
			h.domains[host.Domain] = struct{}{}
		}
	}
	if host.Asn.Name != "" {
		h.asns[host.Asn.Name] = struct{}{}
	}
	if host.Country != "" {
		h.countries[host.Country] = struct{}{}
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (h *HostData) Domains() []string   { return sortedKeys(h.domains) }
func (h *HostData) Asns() []string      { return sortedKeys(h.asns) }
func (h *HostData) Countries() []string { return sortedKeys(h.countries) }

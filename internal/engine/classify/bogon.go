// Package classify holds the pure classification rules of the engine:
// bogon/address analysis, traffic direction and type, and upper-layer
// service identification.
package classify

import "net/netip"

type bogonRange struct {
	prefix      netip.Prefix
	description string
}

// Reserved and special-use ranges that should never appear on the public
// internet, per the relevant IANA registries.
var bogons = []bogonRange{
	// IPv4
	{netip.MustParsePrefix("0.0.0.0/8"), `"this" network`},
	{netip.MustParsePrefix("10.0.0.0/8"), "private-use"},
	{netip.MustParsePrefix("100.64.0.0/10"), "carrier-grade NAT"},
	{netip.MustParsePrefix("127.0.0.0/8"), "loopback"},
	{netip.MustParsePrefix("169.254.0.0/16"), "link local"},
	{netip.MustParsePrefix("172.16.0.0/12"), "private-use"},
	{netip.MustParsePrefix("192.0.0.0/24"), "IETF protocol assignments"},
	{netip.MustParsePrefix("192.0.2.0/24"), "TEST-NET-1"},
	{netip.MustParsePrefix("192.168.0.0/16"), "private-use"},
	{netip.MustParsePrefix("198.18.0.0/15"), "network interconnect device benchmark testing"},
	{netip.MustParsePrefix("198.51.100.0/24"), "TEST-NET-2"},
	{netip.MustParsePrefix("203.0.113.0/24"), "TEST-NET-3"},
	{netip.MustParsePrefix("224.0.0.0/4"), "multicast"},
	{netip.MustParsePrefix("240.0.0.0/4"), "future use"},
	// IPv6
	{netip.MustParsePrefix("::/128"), "unspecified"},
	{netip.MustParsePrefix("::1/128"), "loopback"},
	{netip.MustParsePrefix("::ffff:0:0/96"), "IPv4-mapped"},
	{netip.MustParsePrefix("100::/64"), "discard-only"},
	{netip.MustParsePrefix("2001:db8::/32"), "documentation"},
	{netip.MustParsePrefix("2002::/16"), "6to4"},
	{netip.MustParsePrefix("fc00::/7"), "unique local"},
	{netip.MustParsePrefix("fe80::/10"), "link local"},
	{netip.MustParsePrefix("ff00::/8"), "multicast"},
}

// IsBogon returns the description of the reserved range containing addr,
// if any.
func IsBogon(addr netip.Addr) (string, bool) {
	addr = addr.Unmap()
	for _, b := range bogons {
		if b.prefix.Contains(addr) {
			return b.description, true
		}
	}
	return "", false
}

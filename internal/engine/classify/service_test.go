package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"TrafficScope/internal/model"
)

func tcpKey(a1, a2 string, p1, p2 uint16) model.AddressPortPair {
	return model.NewAddressPortPair(addr(a1), addr(a2), p1, p2, model.TCP)
}

func TestGetService(t *testing.T) {
	t.Run("well-known destination beats ephemeral source", func(t *testing.T) {
		key := tcpKey("192.168.1.10", "1.1.1.1", 50000, 80)
		svc := GetService(key, model.Outgoing, testIfaceAddrs)
		assert.Equal(t, model.NamedService("http"), svc)
	})

	t.Run("well-known source on incoming traffic", func(t *testing.T) {
		key := tcpKey("1.1.1.1", "192.168.1.10", 443, 50000)
		svc := GetService(key, model.Incoming, testIfaceAddrs)
		assert.Equal(t, model.NamedService("https"), svc)
	})

	t.Run("both named, bonus side wins", func(t *testing.T) {
		// 80 and 443 are both well known; the direction bonus decides.
		key := tcpKey("192.168.1.10", "1.1.1.1", 80, 443)
		assert.Equal(t, model.NamedService("https"), GetService(key, model.Outgoing, testIfaceAddrs))
		assert.Equal(t, model.NamedService("http"), GetService(key, model.Incoming, testIfaceAddrs))
	})

	t.Run("registered port loses to well-known port", func(t *testing.T) {
		// 8080 scores 1 as a registered port, 443 scores 3.
		key := tcpKey("192.168.1.10", "1.1.1.1", 443, 8080)
		assert.Equal(t, model.NamedService("https"), GetService(key, model.Outgoing, testIfaceAddrs))
	})

	t.Run("tie favors destination", func(t *testing.T) {
		key := tcpKey("192.168.1.10", "1.1.1.1", 50000, 50001)
		assert.Equal(t, model.ServiceUnknown, GetService(key, model.Outgoing, testIfaceAddrs))
	})

	t.Run("multicast destination gets the bonus", func(t *testing.T) {
		key := model.NewAddressPortPair(addr("1.2.3.4"), addr("224.0.0.251"), 5353, 5353, model.UDP)
		svc := GetService(key, model.Incoming, testIfaceAddrs)
		assert.Equal(t, model.NamedService("mdns"), svc)
	})

	t.Run("icmp and arp are not applicable", func(t *testing.T) {
		key := model.NewPortlessPair(addr("1.1.1.1"), addr("192.168.1.10"), model.ICMP)
		assert.Equal(t, model.ServiceNotApplicable, GetService(key, model.Incoming, testIfaceAddrs))
	})
}

// TestServiceTableHygiene enforces the registry distillation rules on
// the static table.
func TestServiceTableHygiene(t *testing.T) {
	assert.NotEmpty(t, serviceNames)
	for q, name := range serviceNames {
		assert.NotEmpty(t, name, "port %d", q.Port)
		assert.True(t, q.Protocol == model.TCP || q.Protocol == model.UDP,
			"service %q keyed by non-transport protocol", name)
		assert.False(t, strings.ContainsAny(name, " \t#?"), "service %q", name)
		assert.NotEqual(t, "unknown", name)
		for _, r := range name {
			assert.True(t, r > 0x20 && r < 0x7f, "service %q has non-ASCII rune", name)
		}
	}
}

package classify

import "TrafficScope/internal/model"

// ServiceQuery is the lookup key of the static service table.
type ServiceQuery struct {
	Port     uint16
	Protocol model.Protocol
}

// GetService maps a flow to its upper-layer service.
//
// Both ports of the flow are candidates; the one whose table entry scores
// higher wins:
//
//	score = is_named * (well_known + bonus)
//	well_known = 3 if port < 1024 else 1
//
// The bonus goes to the port considered the remote side: the destination
// port for outgoing traffic (or when the destination is multicast or
// broadcast), the source port otherwise. Ties favor the destination-side
// service.
func GetService(key model.AddressPortPair, direction model.TrafficDirection, ifaceAddrs []model.IfaceAddr) model.Service {
	if key.Protocol == model.ICMP || key.Protocol == model.ARP {
		return model.ServiceNotApplicable
	}
	if !key.HasPorts {
		return model.ServiceNotApplicable
	}

	service1 := lookupService(key.Port1, key.Protocol)
	service2 := lookupService(key.Port2, key.Protocol)

	bonusDest := direction == model.Outgoing ||
		key.Address2.IsMulticast() ||
		IsBroadcastAddress(key.Address2, ifaceAddrs)

	score1 := serviceScore(service1, key.Port1, !bonusDest)
	score2 := serviceScore(service2, key.Port2, bonusDest)

	if score1 > score2 {
		return service1
	}
	return service2
}

func lookupService(port uint16, protocol model.Protocol) model.Service {
	if name, ok := serviceNames[ServiceQuery{port, protocol}]; ok {
		return model.NamedService(name)
	}
	return model.ServiceUnknown
}

func serviceScore(service model.Service, port uint16, bonus bool) int {
	if !service.IsNamed() {
		return 0
	}
	score := 1
	if port < 1024 {
		score = 3
	}
	if bonus {
		score++
	}
	return score
}

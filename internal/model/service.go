package model

// Service is the upper-layer service carried by a flow. The zero value is
// the "unknown" service. The struct is comparable and usable as a map key.
type Service struct {
	// Name of the identified service; empty unless known.
	Name string `json:"name,omitempty"`
	// NotApplicable is set for protocols without a service concept
	// (ICMP, ARP) and for flows missing a port.
	NotApplicable bool `json:"not_applicable,omitempty"`
}

var (
	ServiceUnknown       = Service{}
	ServiceNotApplicable = Service{NotApplicable: true}
)

// NamedService wraps a known service name from the static table.
func NamedService(name string) Service {
	return Service{Name: name}
}

// IsNamed reports whether the service was identified.
func (s Service) IsNamed() bool {
	return s.Name != ""
}

func (s Service) String() string {
	switch {
	case s.IsNamed():
		return s.Name
	case s.NotApplicable:
		return "-"
	}
	return "?"
}

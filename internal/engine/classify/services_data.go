package classify

import "TrafficScope/internal/model"

// serviceNames is the static (port, protocol) -> service table, distilled
// from the IANA service-name registry. The table's hygiene rules (ASCII
// names, no whitespace, no '#'/'?', no placeholders) are enforced by
// TestServiceTableHygiene.
var serviceNames = map[ServiceQuery]string{
	{7, model.TCP}:     "echo",
	{7, model.UDP}:     "echo",
	{9, model.TCP}:     "discard",
	{9, model.UDP}:     "discard",
	{13, model.TCP}:    "daytime",
	{13, model.UDP}:    "daytime",
	{17, model.TCP}:    "qotd",
	{17, model.UDP}:    "qotd",
	{19, model.TCP}:    "chargen",
	{19, model.UDP}:    "chargen",
	{20, model.TCP}:    "ftp-data",
	{21, model.TCP}:    "ftp",
	{22, model.TCP}:    "ssh",
	{22, model.UDP}:    "ssh",
	{23, model.TCP}:    "telnet",
	{25, model.TCP}:    "smtp",
	{37, model.TCP}:    "time",
	{37, model.UDP}:    "time",
	{43, model.TCP}:    "whois",
	{49, model.TCP}:    "tacacs",
	{49, model.UDP}:    "tacacs",
	{53, model.TCP}:    "domain",
	{53, model.UDP}:    "domain",
	{67, model.UDP}:    "dhcps",
	{68, model.UDP}:    "dhcpc",
	{69, model.UDP}:    "tftp",
	{70, model.TCP}:    "gopher",
	{79, model.TCP}:    "finger",
	{80, model.TCP}:    "http",
	{80, model.UDP}:    "http",
	{88, model.TCP}:    "kerberos",
	{88, model.UDP}:    "kerberos",
	{110, model.TCP}:   "pop3",
	{111, model.TCP}:   "sunrpc",
	{111, model.UDP}:   "sunrpc",
	{113, model.TCP}:   "ident",
	{119, model.TCP}:   "nntp",
	{123, model.UDP}:   "ntp",
	{135, model.TCP}:   "msrpc",
	{135, model.UDP}:   "msrpc",
	{137, model.TCP}:   "netbios-ns",
	{137, model.UDP}:   "netbios-ns",
	{138, model.UDP}:   "netbios-dgm",
	{139, model.TCP}:   "netbios-ssn",
	{143, model.TCP}:   "imap",
	{161, model.UDP}:   "snmp",
	{162, model.UDP}:   "snmptrap",
	{179, model.TCP}:   "bgp",
	{194, model.TCP}:   "irc",
	{389, model.TCP}:   "ldap",
	{389, model.UDP}:   "ldap",
	{427, model.TCP}:   "svrloc",
	{427, model.UDP}:   "svrloc",
	{443, model.TCP}:   "https",
	{443, model.UDP}:   "https",
	{445, model.TCP}:   "microsoft-ds",
	{464, model.TCP}:   "kpasswd",
	{464, model.UDP}:   "kpasswd",
	{465, model.TCP}:   "submissions",
	{500, model.UDP}:   "isakmp",
	{514, model.TCP}:   "shell",
	{514, model.UDP}:   "syslog",
	{515, model.TCP}:   "printer",
	{520, model.UDP}:   "route",
	{546, model.UDP}:   "dhcpv6-client",
	{547, model.UDP}:   "dhcpv6-server",
	{548, model.TCP}:   "afpovertcp",
	{554, model.TCP}:   "rtsp",
	{554, model.UDP}:   "rtsp",
	{587, model.TCP}:   "submission",
	{631, model.TCP}:   "ipp",
	{631, model.UDP}:   "ipp",
	{636, model.TCP}:   "ldaps",
	{853, model.TCP}:   "domain-s",
	{853, model.UDP}:   "domain-s",
	{873, model.TCP}:   "rsync",
	{902, model.TCP}:   "vmware-auth",
	{989, model.TCP}:   "ftps-data",
	{990, model.TCP}:   "ftps",
	{993, model.TCP}:   "imaps",
	{995, model.TCP}:   "pop3s",
	{1080, model.TCP}:  "socks",
	{1194, model.TCP}:  "openvpn",
	{1194, model.UDP}:  "openvpn",
	{1433, model.TCP}:  "ms-sql-s",
	{1521, model.TCP}:  "oracle",
	{1701, model.UDP}:  "l2tp",
	{1716, model.TCP}:  "xmsg",
	{1723, model.TCP}:  "pptp",
	{1883, model.TCP}:  "mqtt",
	{1900, model.UDP}:  "ssdp",
	{2049, model.TCP}:  "nfs",
	{2049, model.UDP}:  "nfs",
	{2181, model.TCP}:  "zookeeper",
	{2375, model.TCP}:  "docker",
	{2376, model.TCP}:  "docker-s",
	{3000, model.TCP}:  "remoteware-cl",
	{3128, model.TCP}:  "squid-http",
	{3268, model.TCP}:  "msft-gc",
	{3306, model.TCP}:  "mysql",
	{3389, model.TCP}:  "ms-wbt-server",
	{3389, model.UDP}:  "ms-wbt-server",
	{3478, model.TCP}:  "stun",
	{3478, model.UDP}:  "stun",
	{4369, model.TCP}:  "epmd",
	{4789, model.UDP}:  "vxlan",
	{5004, model.UDP}:  "rtp",
	{5005, model.UDP}:  "rtcp",
	{5060, model.TCP}:  "sip",
	{5060, model.UDP}:  "sip",
	{5061, model.TCP}:  "sips",
	{5222, model.TCP}:  "xmpp-client",
	{5269, model.TCP}:  "xmpp-server",
	{5353, model.UDP}:  "mdns",
	{5355, model.TCP}:  "llmnr",
	{5355, model.UDP}:  "llmnr",
	{5432, model.TCP}:  "postgresql",
	{5671, model.TCP}:  "amqps",
	{5672, model.TCP}:  "amqp",
	{5683, model.UDP}:  "coap",
	{5900, model.TCP}:  "vnc",
	{6379, model.TCP}:  "redis",
	{6443, model.TCP}:  "sun-sr-https",
	{6514, model.TCP}:  "syslog-tls",
	{6881, model.TCP}:  "bittorrent",
	{6881, model.UDP}:  "bittorrent",
	{7070, model.TCP}:  "arcp",
	{8080, model.TCP}:  "http-proxy",
	{8333, model.TCP}:  "bitcoin",
	{8443, model.TCP}:  "https-alt",
	{8883, model.TCP}:  "secure-mqtt",
	{9000, model.TCP}:  "cslistener",
	{9092, model.TCP}:  "kafka",
	{9100, model.TCP}:  "jetdirect",
	{9200, model.TCP}:  "wap-wsp",
	{9418, model.TCP}:  "git",
	{11211, model.TCP}: "memcache",
	{11211, model.UDP}: "memcache",
	{25565, model.TCP}: "minecraft",
	{27017, model.TCP}: "mongodb",
	{33434, model.UDP}: "traceroute",
	{51820, model.UDP}: "wireguard",
}

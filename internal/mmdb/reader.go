// Package mmdb wraps MaxMind-format database lookups for country and ASN
// enrichment. A missing or unloadable database degrades to empty results;
// enrichment is always best-effort and never fails the caller.
package mmdb

import (
	"net"
	"net/netip"
	"strconv"

	"github.com/oschwald/maxminddb-golang"
	log "github.com/sirupsen/logrus"

	"TrafficScope/internal/model"
)

// Readers holds the optional country and ASN databases. The zero value is
// valid and performs no enrichment.
type Readers struct {
	country *maxminddb.Reader
	asn     *maxminddb.Reader
}

// Open loads the databases found at the given paths. An empty path skips
// that database; a path that fails to load is logged and skipped, so a
// broken or absent file never prevents a capture from starting.
func Open(countryPath, asnPath string) *Readers {
	r := &Readers{}
	r.country = open(countryPath, "country")
	r.asn = open(asnPath, "ASN")
	return r
}

func open(path, kind string) *maxminddb.Reader {
	if path == "" {
		return nil
	}
	reader, err := maxminddb.Open(path)
	if err != nil {
		log.Warnf("Could not open %s database %q: %v (continuing without %s enrichment)", kind, path, err, kind)
		return nil
	}
	log.Infof("Loaded %s database from %s", kind, path)
	return reader
}

// Close releases the underlying databases.
func (r *Readers) Close() {
	if r.country != nil {
		_ = r.country.Close()
	}
	if r.asn != nil {
		_ = r.asn.Close()
	}
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

type asnRecord struct {
	Number uint   `maxminddb:"autonomous_system_number"`
	Name   string `maxminddb:"autonomous_system_organization"`
}

// Country returns the ISO country code of the address, or "" when unknown.
func (r *Readers) Country(addr netip.Addr) string {
	if r.country == nil {
		return ""
	}
	var rec countryRecord
	if err := r.country.Lookup(net.IP(addr.AsSlice()), &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Asn returns the Autonomous System of the address; fields are empty when
// unknown.
func (r *Readers) Asn(addr netip.Addr) model.Asn {
	if r.asn == nil {
		return model.Asn{}
	}
	var rec asnRecord
	if err := r.asn.Lookup(net.IP(addr.AsSlice()), &rec); err != nil {
		return model.Asn{}
	}
	if rec.Number == 0 && rec.Name == "" {
		return model.Asn{}
	}
	return model.Asn{
		Code: "AS" + strconv.FormatUint(uint64(rec.Number), 10),
		Name: rec.Name,
	}
}

package geoip

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when no database is loaded.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Resolver maps client IPs to ISO country codes for locale and region hints.
type Resolver struct {
	reader *geoip2.Reader
}

// Open loads the MaxMind database at path. An empty path yields a disabled
// resolver.
func Open(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return &Resolver{}, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

func (r *Resolver) Enabled() bool {
	return r != nil && r.reader != nil
}

// CountryCode returns the upper-case ISO country code for ip, which may carry
// a port. Addresses that never leave a private network resolve to "".
func (r *Resolver) CountryCode(ip string) (string, error) {
	if !r.Enabled() {
		return "", ErrUnavailable
	}
	addr, err := parseClientAddr(ip)
	if err != nil {
		return "", err
	}
	if !routable(addr) {
		return "", nil
	}
	record, err := r.reader.Country(net.IP(addr.AsSlice()))
	if err != nil {
		return "", fmt.Errorf("geoip: lookup %s: %w", addr, err)
	}
	return strings.ToUpper(record.Country.IsoCode), nil
}

func (r *Resolver) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.reader.Close()
}

func parseClientAddr(raw string) (netip.Addr, error) {
	raw = strings.TrimSpace(raw)
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().Unmap(), nil
	}
	addr, err := netip.ParseAddr(strings.Trim(raw, "[]"))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("geoip: invalid ip %q", raw)
	}
	return addr.WithZone("").Unmap(), nil
}

func routable(addr netip.Addr) bool {
	return addr.IsValid() &&
		!addr.IsPrivate() &&
		!addr.IsLoopback() &&
		!addr.IsUnspecified() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsMulticast()
}

package reputation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Resolver is the part of net.Resolver used for blocklist lookups
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// DNSBLSource looks a domain up under a DNS blocklist zone.
// A domain is listed when <domain>.<zone> resolves into 127.0.0.0/8.
type DNSBLSource struct {
	zone     string
	resolver Resolver
}

// NewDNSBLSource creates a source for one blocklist zone.
// A nil resolver uses net.DefaultResolver.
func NewDNSBLSource(zone string, resolver Resolver) *DNSBLSource {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &DNSBLSource{
		zone:     strings.Trim(zone, "."),
		resolver: resolver,
	}
}

// Name identifies the source in reports
func (s *DNSBLSource) Name() string {
	return "dnsbl:" + s.zone
}

// Check resolves the target's host under the zone. NXDOMAIN means not listed.
func (s *DNSBLSource) Check(ctx context.Context, targetURL string) (bool, string, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false, "", fmt.Errorf("parse target: %w", err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return false, "", errors.New("target has no host")
	}
	if net.ParseIP(host) != nil {
		return false, "IP targets are not checked", nil
	}

	addrs, err := s.resolver.LookupIPAddr(ctx, host+"."+s.zone)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return false, "not listed", nil
		}
		return false, "", fmt.Errorf("lookup %s: %w", host, err)
	}

	for _, a := range addrs {
		if ip4 := a.IP.To4(); ip4 != nil && ip4[0] == 127 {
			return true, "listed with code " + ip4.String(), nil
		}
	}
	return false, "not listed", nil
}

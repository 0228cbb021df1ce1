package utils

import (
	"net"
	"net/http"
	"strings"
)

// ParseCIDRs parses the allowlist once. Invalid entries are returned
// separately so the caller can report them.
func ParseCIDRs(cidrs []string) (nets []*net.IPNet, invalid []string) {
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			invalid = append(invalid, cidr)
			continue
		}
		nets = append(nets, block)
	}
	return nets, invalid
}

// IsAllowedIP reports whether ip falls inside one of the allowed networks.
func IsAllowedIP(ip string, allowed []*net.IPNet) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, block := range allowed {
		if block.Contains(parsed) {
			return true
		}
	}
	return false
}

// RemoteIP strips the port from r.RemoteAddr.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

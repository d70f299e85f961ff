package risk

import (
	"net"
)

// ReputationOracle answers whether an IP address belongs to a VPN, proxy, or
// other anonymizing network. Implementations must be pure with respect to
// their inputs so Assess stays deterministic.
type ReputationOracle interface {
	IsAnonymized(ip string) bool
}

// ReputationOracleFunc adapts a function to the ReputationOracle interface.
type ReputationOracleFunc func(ip string) bool

func (f ReputationOracleFunc) IsAnonymized(ip string) bool { return f(ip) }

// HeuristicOracle flags addresses inside a static set of CIDR ranges known
// to host anonymizing exits. It performs no network I/O and is deterministic,
// which makes it the default oracle for scoring.
type HeuristicOracle struct {
	ranges []*net.IPNet
}

// Default anonymizer ranges: documentation/test ranges plus a few blocks
// commonly assigned to commercial VPN exits. Swap the oracle for a real
// reputation feed in production.
var defaultAnonymizerCIDRs = []string{
	"10.8.0.0/16",     // common OpenVPN default
	"100.64.0.0/10",   // CGNAT, frequently fronting VPN egress
	"185.220.100.0/22", // known Tor exit block
	"198.18.0.0/15",   // benchmark range abused by tunnels
}

// NewHeuristicOracle creates an oracle over the given CIDR ranges, falling
// back to the built-in anonymizer list when none are provided.
func NewHeuristicOracle(cidrs ...string) *HeuristicOracle {
	if len(cidrs) == 0 {
		cidrs = defaultAnonymizerCIDRs
	}

	o := &HeuristicOracle{}
	for _, cidr := range cidrs {
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			o.ranges = append(o.ranges, ipNet)
		}
	}
	return o
}

// IsAnonymized reports whether the IP falls inside a flagged range.
// Unparseable addresses are not flagged here; malformed input is rejected
// earlier by fingerprint validation.
func (o *HeuristicOracle) IsAnonymized(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, ipNet := range o.ranges {
		if ipNet.Contains(parsed) {
			return true
		}
	}
	return false
}

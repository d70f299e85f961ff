package fingerprint

import (
	"context"
	"net"
)

// GeoResolver is the pluggable geolocation oracle keyed by IP address.
// Implementations may perform I/O and must honor the context.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) (Location, error)
}

// GeoResolverFunc adapts a function to the GeoResolver interface.
type GeoResolverFunc func(ctx context.Context, ip string) (Location, error)

func (f GeoResolverFunc) Resolve(ctx context.Context, ip string) (Location, error) {
	return f(ctx, ip)
}

// StubResolver is a deterministic in-process resolver. Private, loopback and
// link-local ranges resolve to a local placeholder; anything else resolves
// through a static table, falling back to an unknown location.
type StubResolver struct {
	table map[string]Location
}

// NewStubResolver creates a StubResolver with an optional static table
// mapping IP strings to locations.
func NewStubResolver(table ...map[string]Location) *StubResolver {
	r := &StubResolver{}
	if len(table) > 0 {
		r.table = table[0]
	}
	return r
}

// Resolve implements GeoResolver without any I/O.
func (r *StubResolver) Resolve(_ context.Context, ip string) (Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, ErrInvalidIP
	}

	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() {
		return Location{Country: "Local", City: "Private Network"}, nil
	}

	if loc, ok := r.table[parsed.String()]; ok {
		return loc, nil
	}

	return Location{Country: "Unknown"}, nil
}

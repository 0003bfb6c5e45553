package geoip

import "context"

// Source is a backing geolocation lookup for public addresses. The resolver
// serializes calls, so implementations do not need internal locking.
type Source interface {
	// Lookup resolves ip to a Record. Transport failures and not-found
	// conditions surface as errors; the resolver degrades them to Unknown.
	Lookup(ctx context.Context, ip string) (Record, error)
}

package geoip

import (
	"context"
	"net"

	"github.com/vaibhaw-/TriagR/internal/triagr/logger"
)

// Stats counts resolver activity for run summaries.
type Stats struct {
	Resolves      int `json:"resolves"`
	StaticHits    int `json:"static_hits"`
	PrivateHits   int `json:"private_hits"`
	CacheHits     int `json:"cache_hits"`
	SourceLookups int `json:"source_lookups"`
	SourceErrors  int `json:"source_errors"`
}

// Resolver applies the tiered lookup order: static table, local sentinel,
// per-run cache, backing source. Lookup results are cached even on failure,
// so a bad address costs at most one source call per run.
type Resolver struct {
	static map[string]Record
	source Source
	cache  map[string]Record
	stats  Stats
}

// NewResolver builds a resolver over a static table and an optional backing
// source. A nil source degrades every public address to Unknown.
func NewResolver(static map[string]Record, source Source) *Resolver {
	if static == nil {
		static = map[string]Record{}
	}
	return &Resolver{
		static: static,
		source: source,
		cache:  make(map[string]Record),
	}
}

// Resolve maps one client address to a Record. Not safe for concurrent use.
func (r *Resolver) Resolve(ctx context.Context, ip string) Record {
	r.stats.Resolves++
	if rec, ok := r.static[ip]; ok {
		r.stats.StaticHits++
		return rec
	}
	if ip == NoIP {
		r.stats.PrivateHits++
		return LocalRecord()
	}
	host := hostOnly(ip)
	if !isPublicAddress(host) {
		r.stats.PrivateHits++
		return LocalRecord()
	}
	if rec, ok := r.cache[ip]; ok {
		r.stats.CacheHits++
		return rec
	}
	rec := r.lookup(ctx, host)
	r.cache[ip] = rec
	return rec
}

func (r *Resolver) lookup(ctx context.Context, host string) Record {
	if r.source == nil {
		return UnknownRecord()
	}
	r.stats.SourceLookups++
	rec, err := r.source.Lookup(ctx, host)
	if err != nil {
		r.stats.SourceErrors++
		logger.L().Debugw("Geo lookup failed", "ip", host, "error", err)
		return UnknownRecord()
	}
	return rec.withDefaults()
}

// Stats returns a copy of the counters accumulated so far.
func (r *Resolver) Stats() Stats {
	return r.stats
}

// CacheSize reports how many distinct public addresses were looked up.
func (r *Resolver) CacheSize() int {
	return len(r.cache)
}

// hostOnly strips a trailing port from host:port shaped values; some
// exports carry the client port. Bare IPv6 addresses pass through intact.
func hostOnly(ip string) string {
	host, _, err := net.SplitHostPort(ip)
	if err != nil || host == "" {
		return ip
	}
	return host
}

// isPublicAddress reports whether ip parses as a routable unicast address.
// Private, loopback, link-local and unspecified addresses short-circuit to
// the Local sentinel without touching a backing source.
func isPublicAddress(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	if parsed.IsPrivate() || parsed.IsLoopback() ||
		parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast() ||
		parsed.IsUnspecified() {
		return false
	}
	return true
}

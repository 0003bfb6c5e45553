package geoip

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MMDBSource resolves addresses against a local MaxMind-format city
// database. Lookups are offline and cheap, so it is the preferred backend
// for large exports.
type MMDBSource struct {
	reader *geoip2.Reader
}

// NewMMDBSource opens the database at path.
func NewMMDBSource(path string) (*MMDBSource, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geo database %s: %w", path, err)
	}
	return &MMDBSource{reader: reader}, nil
}

// Lookup implements Source.
func (s *MMDBSource) Lookup(_ context.Context, ip string) (Record, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Record{}, fmt.Errorf("invalid ip %q", ip)
	}
	city, err := s.reader.City(parsed)
	if err != nil {
		return Record{}, fmt.Errorf("mmdb lookup %s: %w", ip, err)
	}
	rec := Record{
		Country:   city.Country.IsoCode,
		City:      city.City.Names["en"],
		Latitude:  city.Location.Latitude,
		Longitude: city.Location.Longitude,
	}
	// The last subdivision is the most specific one.
	if n := len(city.Subdivisions); n > 0 {
		rec.Region = city.Subdivisions[n-1].Names["en"]
	}
	return rec, nil
}

// Close releases the underlying database handle.
func (s *MMDBSource) Close() error {
	return s.reader.Close()
}

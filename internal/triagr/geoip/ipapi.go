package geoip

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const defaultIPAPIBaseURL = "http://ip-api.com/json"

// ipAPIResponse mirrors the subset of ip-api.com fields the pipeline uses.
// countryCode and regionName line up with the ISO-code country and full
// subdivision name the rules expect.
type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// IPAPISource queries the ip-api.com JSON endpoint. The free tier is rate
// limited to 45 requests a minute; the resolver's per-run cache keeps
// traffic to one request per distinct address.
type IPAPISource struct {
	baseURL string
	client  *http.Client
}

// NewIPAPISource builds a client for baseURL. Empty or zero arguments fall
// back to the public endpoint and a 5s timeout.
func NewIPAPISource(baseURL string, timeout time.Duration) *IPAPISource {
	if baseURL == "" {
		baseURL = defaultIPAPIBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IPAPISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup implements Source.
func (s *IPAPISource) Lookup(ctx context.Context, ip string) (Record, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=status,message,countryCode,regionName,city,lat,lon",
		s.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Record{}, fmt.Errorf("build geo request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("geo request for %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Record{}, fmt.Errorf("geo request for %s: unexpected status %d", ip, resp.StatusCode)
	}
	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Record{}, fmt.Errorf("decode geo response for %s: %w", ip, err)
	}
	if body.Status != "success" {
		return Record{}, fmt.Errorf("geo lookup for %s failed: %s", ip, body.Message)
	}
	return Record{
		Country:   body.CountryCode,
		Region:    body.RegionName,
		City:      body.City,
		Latitude:  body.Lat,
		Longitude: body.Lon,
	}, nil
}

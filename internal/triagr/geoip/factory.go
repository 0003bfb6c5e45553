package geoip

import (
	"fmt"
	"time"

	"github.com/vaibhaw-/TriagR/internal/triagr/config"
)

// NewSource returns the backing Source for the configured provider, or nil
// for "none" (static and sentinel tiers still apply). Callers should close
// sources that implement io.Closer once the run finishes.
func NewSource(cfg config.GeoCfg) (Source, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "mmdb", "maxmind":
		if cfg.MMDBPath == "" {
			return nil, fmt.Errorf("geo provider %s requires geo.mmdb_path", cfg.Provider)
		}
		src, err := NewMMDBSource(cfg.MMDBPath)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "ipapi", "ip-api":
		return NewIPAPISource(cfg.IPAPI.BaseURL, time.Duration(cfg.IPAPI.TimeoutMS)*time.Millisecond), nil
	default:
		return nil, fmt.Errorf("unsupported geo provider: %s", cfg.Provider)
	}
}

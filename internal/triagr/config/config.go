package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type LoggingCfg struct {
	Level        string `mapstructure:"level"`
	ConsoleLevel string `mapstructure:"console_level"`
	DebugFile    string `mapstructure:"debug_file"`
	InfoFile     string `mapstructure:"info_file"`
	Development  bool   `mapstructure:"development"`
	RunLog       string `mapstructure:"run_log"`
}

type InputCfg struct {
	FilePath string `mapstructure:"file_path"`
	Format   string `mapstructure:"format"`
}

type OutputCfg struct {
	FilePath   string `mapstructure:"file_path"`
	RejectFile string `mapstructure:"reject_file"`
}

// LocationCfg is a statically configured geolocation record.
type LocationCfg struct {
	Country   string  `mapstructure:"country"`
	Region    string  `mapstructure:"region"`
	City      string  `mapstructure:"city"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

type IPAPICfg struct {
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// GeoCfg selects and configures the geolocation backing source.
// Provider is one of "none", "mmdb", "ipapi".
type GeoCfg struct {
	Provider          string      `mapstructure:"provider"`
	MMDBPath          string      `mapstructure:"mmdb_path"`
	IPAPI             IPAPICfg    `mapstructure:"ipapi"`
	ReferenceIP       string      `mapstructure:"reference_ip"`
	ReferenceLocation LocationCfg `mapstructure:"reference_location"`
	KnownIPsFile      string      `mapstructure:"known_ips_file"`
}

// RulesCfg holds the expected-location baseline used by anomaly detection.
// Matching is exact, not fuzzy.
type RulesCfg struct {
	ExpectedCountry string `mapstructure:"expected_country"`
	ExpectedRegion  string `mapstructure:"expected_region"`
}

type Config struct {
	Version string     `mapstructure:"version"`
	Input   InputCfg   `mapstructure:"input"`
	Output  OutputCfg  `mapstructure:"output"`
	Geo     GeoCfg     `mapstructure:"geo"`
	Rules   RulesCfg   `mapstructure:"rules"`
	Logging LoggingCfg `mapstructure:"logging"`
}

var cfg *Config

// Load populates global config from a viper instance
func Load(v *viper.Viper) error {
	// set defaults
	v.SetDefault("version", "0.1")
	v.SetDefault("input.format", "auto")
	v.SetDefault("geo.provider", "none")
	v.SetDefault("geo.ipapi.base_url", "http://ip-api.com/json")
	v.SetDefault("geo.ipapi.timeout_ms", 5000)
	v.SetDefault("geo.reference_ip", "192.168.1.160")
	v.SetDefault("geo.reference_location.country", "US")
	v.SetDefault("geo.reference_location.region", "Massachusetts")
	v.SetDefault("geo.reference_location.city", "Boston")
	v.SetDefault("geo.reference_location.latitude", 42.3601)
	v.SetDefault("geo.reference_location.longitude", -71.0589)
	v.SetDefault("rules.expected_country", "US")
	v.SetDefault("rules.expected_region", "Massachusetts")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console_level", "warn")

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	cfg = &c
	return nil
}

func Get() *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg
}

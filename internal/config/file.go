package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/content-gate/internal/store"
	"github.com/rohmanhakim/content-gate/pkg/fileutil"
	"gopkg.in/yaml.v3"
)

// configDTO is the on-disk shape shared by the JSON and YAML formats.
// Durations use time.ParseDuration syntax and eligibleAt uses RFC 3339.
type configDTO struct {
	TargetURL           string `json:"targetUrl" yaml:"targetUrl"`
	CacheKey            string `json:"cacheKey,omitempty" yaml:"cacheKey,omitempty"`
	EligibleAt          string `json:"eligibleAt,omitempty" yaml:"eligibleAt,omitempty"`
	DeviceCheck         *bool  `json:"deviceCheck,omitempty" yaml:"deviceCheck,omitempty"`
	ExcludedDeviceClass string `json:"excludedDeviceClass,omitempty" yaml:"excludedDeviceClass,omitempty"`
	DeviceClass         string `json:"deviceClass,omitempty" yaml:"deviceClass,omitempty"`
	Timeout             string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	ProbeTimeout        string `json:"probeTimeout,omitempty" yaml:"probeTimeout,omitempty"`
	ProbeAddress        string `json:"probeAddress,omitempty" yaml:"probeAddress,omitempty"`
	UserAgent           string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	StoreBackend        string `json:"storeBackend,omitempty" yaml:"storeBackend,omitempty"`
	DataDir             string `json:"dataDir,omitempty" yaml:"dataDir,omitempty"`
}

// LoadFile reads a JSON or YAML config file on top of the defaults. The
// result is not validated so later sources can still fill in missing
// fields before Build.
func LoadFile(path string) (*Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	cfgDTO := configDTO{}
	switch ext := fileutil.GetFileExtension(path); ext {
	case "json":
		err = json.Unmarshal(configContent, &cfgDTO)
	case "yaml", "yml":
		err = yaml.Unmarshal(configContent, &cfgDTO)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithConfigFile loads path and builds it without further overrides.
func WithConfigFile(path string) (Config, error) {
	c, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	return c.Build()
}

func newConfigFromDTO(dto configDTO) (*Config, error) {
	cfg := WithDefault(dto.TargetURL)

	// Only override if a value is provided
	if dto.CacheKey != "" {
		cfg.WithCacheKey(dto.CacheKey)
	}
	if dto.EligibleAt != "" {
		at, err := time.Parse(time.RFC3339, dto.EligibleAt)
		if err != nil {
			return nil, fmt.Errorf("%w: eligibleAt: %s", ErrConfigParsingFail, err.Error())
		}
		cfg.WithEligibleAt(at)
	}
	// deviceCheck defaults to true, so an explicit false must be told apart from absence
	if dto.DeviceCheck != nil {
		cfg.WithDeviceCheck(*dto.DeviceCheck)
	}
	if dto.ExcludedDeviceClass != "" {
		cfg.WithExcludedDeviceClass(dto.ExcludedDeviceClass)
	}
	if dto.DeviceClass != "" {
		cfg.WithDeviceClass(dto.DeviceClass)
	}
	if dto.Timeout != "" {
		d, err := time.ParseDuration(dto.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: timeout: %s", ErrConfigParsingFail, err.Error())
		}
		cfg.WithTimeout(d)
	}
	if dto.ProbeTimeout != "" {
		d, err := time.ParseDuration(dto.ProbeTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: probeTimeout: %s", ErrConfigParsingFail, err.Error())
		}
		cfg.WithProbeTimeout(d)
	}
	if dto.ProbeAddress != "" {
		cfg.WithProbeAddress(dto.ProbeAddress)
	}
	if dto.UserAgent != "" {
		cfg.WithUserAgent(dto.UserAgent)
	}
	if dto.StoreBackend != "" {
		cfg.WithStoreBackend(store.Backend(dto.StoreBackend))
	}
	if dto.DataDir != "" {
		cfg.WithDataDir(dto.DataDir)
	}

	return cfg, nil
}

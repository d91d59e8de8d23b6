package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/content-gate/internal/device"
	"github.com/rohmanhakim/content-gate/internal/store"
)

type Config struct {
	//===============
	// Target
	//===============
	// Content origin probed by the gate. Required.
	targetURL string
	// Scope of the durable decision. Empty means targetURL.
	cacheKey string

	//===============
	// Eligibility
	//===============
	// Instant from which external content may be shown. Zero means now.
	eligibleAt time.Time
	// Whether the excluded device class is rejected
	deviceCheck bool
	// Device class rejected when deviceCheck is on
	excludedDeviceClass string
	// Class reported for the device this process runs on
	deviceClass string

	//===============
	// Network
	//===============
	// Bound of each HTTP request made by one check
	timeout time.Duration
	// Bound of the connectivity probe, independent of timeout
	probeTimeout time.Duration
	// host:port dialled by the connectivity probe. Empty derives it from targetURL.
	probeAddress string
	// User agent sent with every request
	userAgent string

	//===============
	// Storage
	//===============
	// Backend holding decisions, path identifiers and the push identity
	storeBackend store.Backend
	// Root directory of the persisted stores
	dataDir string
}

// WithDefault creates a new Config for targetURL with default values for all
// other fields. targetURL is mandatory; Build fails when it is still empty.
func WithDefault(targetURL string) *Config {
	defaultConfig := Config{
		targetURL:           targetURL,
		cacheKey:            "",
		eligibleAt:          time.Time{},
		deviceCheck:         true,
		excludedDeviceClass: device.ClassTablet,
		deviceClass:         device.ClassPhone,
		timeout:             10 * time.Second,
		probeTimeout:        2 * time.Second,
		probeAddress:        "",
		userAgent:           "content-gate/1.0",
		storeBackend:        store.BackendLevelDB,
		dataDir:             "./data",
	}
	return &defaultConfig
}

func (c *Config) WithTargetURL(targetURL string) *Config {
	c.targetURL = targetURL
	return c
}

func (c *Config) WithCacheKey(cacheKey string) *Config {
	c.cacheKey = cacheKey
	return c
}

func (c *Config) WithEligibleAt(at time.Time) *Config {
	c.eligibleAt = at
	return c
}

func (c *Config) WithDeviceCheck(enabled bool) *Config {
	c.deviceCheck = enabled
	return c
}

func (c *Config) WithExcludedDeviceClass(class string) *Config {
	c.excludedDeviceClass = device.Normalize(class)
	return c
}

func (c *Config) WithDeviceClass(class string) *Config {
	c.deviceClass = device.Normalize(class)
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithProbeTimeout(timeout time.Duration) *Config {
	c.probeTimeout = timeout
	return c
}

func (c *Config) WithProbeAddress(address string) *Config {
	c.probeAddress = address
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithStoreBackend(backend store.Backend) *Config {
	c.storeBackend = backend
	return c
}

func (c *Config) WithDataDir(dataDir string) *Config {
	c.dataDir = dataDir
	return c
}

// ValidateStorage checks only the storage settings. Commands that never
// contact the target use it instead of Build.
func (c *Config) ValidateStorage() error {
	if !c.storeBackend.Valid() {
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.storeBackend)
	}
	if c.storeBackend != store.BackendMemory && c.dataDir == "" {
		return fmt.Errorf("%w: dataDir cannot be empty", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) Build() (Config, error) {
	if c.targetURL == "" {
		return Config{}, fmt.Errorf("%w: targetUrl cannot be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.targetURL)
	if err != nil {
		return Config{}, fmt.Errorf("%w: targetUrl: %s", ErrInvalidConfig, err.Error())
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("%w: targetUrl must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.targetURL)
	}
	if c.timeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.probeTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: probeTimeout must be positive", ErrInvalidConfig)
	}
	if err := c.ValidateStorage(); err != nil {
		return Config{}, err
	}

	return *c, nil
}

func (c Config) TargetURL() string {
	return c.targetURL
}

func (c Config) CacheKey() string {
	return c.cacheKey
}

func (c Config) EligibleAt() time.Time {
	return c.eligibleAt
}

func (c Config) DeviceCheck() bool {
	return c.deviceCheck
}

func (c Config) ExcludedDeviceClass() string {
	return c.excludedDeviceClass
}

func (c Config) DeviceClass() string {
	return c.deviceClass
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) ProbeTimeout() time.Duration {
	return c.probeTimeout
}

func (c Config) ProbeAddress() string {
	return c.probeAddress
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) StoreBackend() store.Backend {
	return c.storeBackend
}

func (c Config) DataDir() string {
	return c.dataDir
}

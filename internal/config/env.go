package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rohmanhakim/content-gate/internal/store"
)

// envOverrides lists the variables read by ApplyEnv. Unset variables leave
// the current value alone.
type envOverrides struct {
	TargetURL           string        `env:"CONTENT_GATE_TARGET_URL"`
	CacheKey            string        `env:"CONTENT_GATE_CACHE_KEY"`
	EligibleAt          time.Time     `env:"CONTENT_GATE_ELIGIBLE_AT"`
	DeviceCheck         *bool         `env:"CONTENT_GATE_DEVICE_CHECK"`
	ExcludedDeviceClass string        `env:"CONTENT_GATE_EXCLUDED_DEVICE_CLASS"`
	DeviceClass         string        `env:"CONTENT_GATE_DEVICE_CLASS"`
	Timeout             time.Duration `env:"CONTENT_GATE_TIMEOUT"`
	ProbeTimeout        time.Duration `env:"CONTENT_GATE_PROBE_TIMEOUT"`
	ProbeAddress        string        `env:"CONTENT_GATE_PROBE_ADDRESS"`
	UserAgent           string        `env:"CONTENT_GATE_USER_AGENT"`
	StoreBackend        string        `env:"CONTENT_GATE_STORE_BACKEND"`
	DataDir             string        `env:"CONTENT_GATE_DATA_DIR"`
}

// ApplyEnv overrides c with the CONTENT_GATE_* environment variables.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("%w: %s", ErrEnvParsingFail, err.Error())
	}

	if o.TargetURL != "" {
		c.WithTargetURL(o.TargetURL)
	}
	if o.CacheKey != "" {
		c.WithCacheKey(o.CacheKey)
	}
	if !o.EligibleAt.IsZero() {
		c.WithEligibleAt(o.EligibleAt)
	}
	if o.DeviceCheck != nil {
		c.WithDeviceCheck(*o.DeviceCheck)
	}
	if o.ExcludedDeviceClass != "" {
		c.WithExcludedDeviceClass(o.ExcludedDeviceClass)
	}
	if o.DeviceClass != "" {
		c.WithDeviceClass(o.DeviceClass)
	}
	if o.Timeout != 0 {
		c.WithTimeout(o.Timeout)
	}
	if o.ProbeTimeout != 0 {
		c.WithProbeTimeout(o.ProbeTimeout)
	}
	if o.ProbeAddress != "" {
		c.WithProbeAddress(o.ProbeAddress)
	}
	if o.UserAgent != "" {
		c.WithUserAgent(o.UserAgent)
	}
	if o.StoreBackend != "" {
		c.WithStoreBackend(store.Backend(o.StoreBackend))
	}
	if o.DataDir != "" {
		c.WithDataDir(o.DataDir)
	}
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rohmanhakim/content-gate/internal/config"
	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgFile             string
	targetURL           string
	cacheKey            string
	eligibleAt          string
	deviceCheck         bool
	deviceCheckSet      bool
	deviceClass         string
	excludedDeviceClass string
	timeout             time.Duration
	probeTimeout        time.Duration
	probeAddress        string
	userAgent           string
	storeBackend        string
	dataDir             string
	verbose             bool
	jsonOutput          bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "content-gate",
	Short: "Decides once whether a campaign shows external content.",
	Long: `content-gate evaluates whether a client should be shown external
campaign content or the local fallback, and remembers that decision.

The first check for a cache key runs connectivity, eligibility date, device
class and server checks in order; any failure permanently selects the
fallback. Once external content was approved, later checks only revalidate
and, when needed, recover the content URL.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, .json or .yaml (e.g., /etc/content-gate/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store-backend", "", "decision store backend: leveldb, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the persisted decision store")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "write logfmt diagnostics to stderr")

	rootCmd.AddCommand(checkCmd, inspectCmd, identityCmd, versionCmd)
}

// loadConfigBuilder layers defaults, the config file and the environment.
// CLI flags are applied on top by the caller.
func loadConfigBuilder() (*config.Config, error) {
	builder := config.WithDefault("")
	if cfgFile != "" {
		fromFile, err := config.LoadFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("error initializing config from file: %w", err)
		}
		builder = fromFile
	}
	if err := builder.ApplyEnv(); err != nil {
		return nil, err
	}
	return builder, nil
}

// applyFlags overrides builder with every flag that was provided.
func applyFlags(builder *config.Config) (*config.Config, error) {
	if targetURL != "" {
		builder = builder.WithTargetURL(targetURL)
	}
	if cacheKey != "" {
		builder = builder.WithCacheKey(cacheKey)
	}
	if eligibleAt != "" {
		at, err := time.Parse(time.RFC3339, eligibleAt)
		if err != nil {
			return nil, fmt.Errorf("%w: --eligible-at must be RFC 3339: %s", config.ErrInvalidConfig, err.Error())
		}
		builder = builder.WithEligibleAt(at)
	}
	if deviceCheckSet {
		builder = builder.WithDeviceCheck(deviceCheck)
	}
	if deviceClass != "" {
		builder = builder.WithDeviceClass(deviceClass)
	}
	if excludedDeviceClass != "" {
		builder = builder.WithExcludedDeviceClass(excludedDeviceClass)
	}
	if timeout > 0 {
		builder = builder.WithTimeout(timeout)
	}
	if probeTimeout > 0 {
		builder = builder.WithProbeTimeout(probeTimeout)
	}
	if probeAddress != "" {
		builder = builder.WithProbeAddress(probeAddress)
	}
	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if storeBackend != "" {
		builder = builder.WithStoreBackend(store.Backend(storeBackend))
	}
	if dataDir != "" {
		builder = builder.WithDataDir(dataDir)
	}
	return builder, nil
}

// InitConfigWithError resolves the configuration from defaults, config
// file, environment and flags, in increasing precedence.
func InitConfigWithError() (config.Config, error) {
	builder, err := loadConfigBuilder()
	if err != nil {
		return config.Config{}, err
	}
	builder, err = applyFlags(builder)
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := builder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newSink returns a logfmt Recorder on w when --verbose is set.
func newSink(w io.Writer) metadata.MetadataSink {
	if verbose {
		return metadata.NewRecorder(w)
	}
	return &metadata.NoopSink{}
}

func ResetFlags() {
	cfgFile = ""
	targetURL = ""
	cacheKey = ""
	eligibleAt = ""
	deviceCheck = false
	deviceCheckSet = false
	deviceClass = ""
	excludedDeviceClass = ""
	timeout = 0
	probeTimeout = 0
	probeAddress = ""
	userAgent = ""
	storeBackend = ""
	dataDir = ""
	verbose = false
	jsonOutput = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetTargetURLForTest(u string) {
	targetURL = u
}

func SetCacheKeyForTest(key string) {
	cacheKey = key
}

func SetEligibleAtForTest(at string) {
	eligibleAt = at
}

func SetDeviceCheckForTest(enabled bool) {
	deviceCheck = enabled
	deviceCheckSet = true
}

func SetDeviceClassForTest(class string) {
	deviceClass = class
}

func SetExcludedDeviceClassForTest(class string) {
	excludedDeviceClass = class
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetProbeTimeoutForTest(t time.Duration) {
	probeTimeout = t
}

func SetProbeAddressForTest(address string) {
	probeAddress = address
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetStoreBackendForTest(backend string) {
	storeBackend = backend
}

func SetDataDirForTest(dir string) {
	dataDir = dir
}

func SetVerboseForTest(v bool) {
	verbose = v
}

func SetJSONOutputForTest(j bool) {
	jsonOutput = j
}

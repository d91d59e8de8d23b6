package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rohmanhakim/content-gate/internal/config"
	"github.com/rohmanhakim/content-gate/internal/connectivity"
	"github.com/rohmanhakim/content-gate/internal/decision"
	"github.com/rohmanhakim/content-gate/internal/device"
	"github.com/rohmanhakim/content-gate/internal/fetcher"
	"github.com/rohmanhakim/content-gate/internal/gate"
	"github.com/rohmanhakim/content-gate/internal/identity"
	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/internal/store"
	"github.com/rohmanhakim/content-gate/pkg/timeutil"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate the gate once for a target URL",
	PreRun: func(cmd *cobra.Command, args []string) {
		deviceCheckSet = cmd.Flags().Changed("device-check")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		return RunCheck(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	checkCmd.Flags().StringVar(&targetURL, "url", "", "content origin to check (required unless set in config or env)")
	checkCmd.Flags().StringVar(&cacheKey, "cache-key", "", "scope of the stored decision (defaults to the URL)")
	checkCmd.Flags().StringVar(&eligibleAt, "eligible-at", "", "RFC 3339 instant from which external content may be shown")
	checkCmd.Flags().BoolVar(&deviceCheck, "device-check", true, "reject the excluded device class")
	checkCmd.Flags().StringVar(&deviceClass, "device-class", "", "class of this device: phone, tablet, desktop or tv")
	checkCmd.Flags().StringVar(&excludedDeviceClass, "excluded-device-class", "", "device class rejected by the device check")
	checkCmd.Flags().DurationVar(&timeout, "timeout", 0, "bound of each HTTP request")
	checkCmd.Flags().DurationVar(&probeTimeout, "probe-timeout", 0, "bound of the connectivity probe")
	checkCmd.Flags().StringVar(&probeAddress, "probe-address", "", "host:port dialled by the connectivity probe (defaults to the URL's host)")
	checkCmd.Flags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
}

// RunCheck wires the gate from cfg, evaluates it once and prints the
// result to out. Diagnostics go to errOut when --verbose is set.
func RunCheck(ctx context.Context, cfg config.Config, out io.Writer, errOut io.Writer) error {
	sink := newSink(errOut)

	s, err := store.Open(cfg.StoreBackend(), cfg.DataDir())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreBackend(), err)
	}
	defer s.Close()

	g, err := newGate(cfg, s, sink)
	if err != nil {
		return err
	}

	result := g.Check(ctx, gate.CheckRequest{
		URL:         cfg.TargetURL(),
		EligibleAt:  cfg.EligibleAt(),
		DeviceCheck: cfg.DeviceCheck(),
		Timeout:     cfg.Timeout(),
		CacheKey:    cfg.CacheKey(),
	})
	return printCheckResult(out, result)
}

func newGate(cfg config.Config, s store.Store, sink metadata.MetadataSink) (*gate.Gate, error) {
	address := cfg.ProbeAddress()
	if address == "" {
		derived, err := connectivity.AddressFor(cfg.TargetURL())
		if err != nil {
			return nil, err
		}
		address = derived
	}

	return gate.NewGate(gate.Deps{
		Cache:        decision.NewCache(s),
		Fetcher:      fetcher.NewRedirectFetcher(sink, cfg.UserAgent()),
		Probe:        connectivity.NewDialProbe(sink, address),
		Identity:     identity.NewStoreProvider(s, sink),
		Device:       device.NewStaticClassifier(cfg.DeviceClass()),
		Clock:        timeutil.SystemClock{},
		MetadataSink: sink,
	}, gate.Options{
		ProbeTimeout:        cfg.ProbeTimeout(),
		DefaultTimeout:      cfg.Timeout(),
		ExcludedDeviceClass: cfg.ExcludedDeviceClass(),
	}), nil
}

func printCheckResult(out io.Writer, result gate.CheckResult) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	content := "app"
	if result.ShouldShowExternalContent {
		content = "external"
	}
	_, err := fmt.Fprintf(out, "Content: %s\nFinal URL: %s\nReason: %s\n", content, result.FinalURL, result.Reason)
	return err
}

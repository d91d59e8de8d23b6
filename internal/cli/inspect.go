package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rohmanhakim/content-gate/internal/config"
	"github.com/rohmanhakim/content-gate/internal/decision"
	"github.com/rohmanhakim/content-gate/internal/store"
	"github.com/spf13/cobra"
)

// Inspection is the stored state for one cache key and target URL.
type Inspection struct {
	CacheKey string          `json:"cacheKey"`
	Record   decision.Record `json:"record"`
	PathID   string          `json:"pathId,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the stored decision without running any check",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		return RunInspect(cfg, cmd.OutOrStdout())
	},
}

func init() {
	inspectCmd.Flags().StringVar(&targetURL, "url", "", "content origin the decision was made for")
	inspectCmd.Flags().StringVar(&cacheKey, "cache-key", "", "scope of the stored decision (defaults to the URL)")
	inspectCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the stored state as JSON")
}

func RunInspect(cfg config.Config, out io.Writer) error {
	s, err := store.Open(cfg.StoreBackend(), cfg.DataDir())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreBackend(), err)
	}
	defer s.Close()

	key := cfg.CacheKey()
	if key == "" {
		key = cfg.TargetURL()
	}

	cache := decision.NewCache(s)
	rec, rerr := cache.Record(key)
	if rerr != nil {
		return rerr
	}
	pathID, _, perr := cache.PathID(cfg.TargetURL())
	if perr != nil {
		return perr
	}

	inspection := Inspection{CacheKey: key, Record: rec, PathID: pathID}
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(inspection)
	}

	_, err = fmt.Fprintf(out,
		"Cache Key: %s\nShown External: %t\nShown App: %t\nSaved URL: %s\nPath ID: %s\n",
		inspection.CacheKey,
		rec.HasShownExternal,
		rec.HasShownApp,
		rec.SavedURL,
		inspection.PathID,
	)
	return err
}

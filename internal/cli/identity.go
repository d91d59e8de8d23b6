package cmd

import (
	"fmt"
	"io"

	"github.com/rohmanhakim/content-gate/internal/identity"
	"github.com/rohmanhakim/content-gate/internal/store"
	"github.com/spf13/cobra"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Print the persisted push identity, creating it on first use",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunIdentity(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// RunIdentity resolves only the storage settings; no target URL is needed.
func RunIdentity(out io.Writer, errOut io.Writer) error {
	builder, err := loadConfigBuilder()
	if err != nil {
		return err
	}
	builder, err = applyFlags(builder)
	if err != nil {
		return err
	}
	if err := builder.ValidateStorage(); err != nil {
		return err
	}

	s, err := store.Open(builder.StoreBackend(), builder.DataDir())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", builder.StoreBackend(), err)
	}
	defer s.Close()

	provider := identity.NewStoreProvider(s, newSink(errOut))
	_, err = fmt.Fprintln(out, provider.ID())
	return err
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskshelf/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize taskshelf storage",
		Long: `Create config.yaml (recording --data-dir when given) and the task
database. Running init again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			var recorded string
			if a.flags.dataDir != "" {
				if recorded, err = paths.Expand(a.flags.dataDir); err != nil {
					return err
				}
			}
			if _, err := writeConfigIfMissing(configDir, recorded); err != nil {
				return err
			}

			backend, err := a.open()
			if err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			fmt.Fprintf(a.out(cmd), "taskshelf initialized in %s\n", backend.DataDir())
			return nil
		},
	}
}

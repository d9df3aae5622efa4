package firmscout

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update firmscout to the latest release",
		RunE: func(_ *cobra.Command, _ []string) error {
			if latest, newer, err := updateCheck(); err == nil && !newer {
				fmt.Fprintf(os.Stderr, "already up to date (v%s, latest %s)\n", version, latest)
				return nil
			}
			if err := selfUpdate(); err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			fmt.Fprintln(os.Stderr, "updated to latest release")
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

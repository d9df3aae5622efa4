package firmscout

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firmscout/firmscout/internal/classify"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List classification categories",
		Run: func(_ *cobra.Command, _ []string) {
			for _, id := range classify.IDs() {
				fmt.Printf("%-26s %s\n", id, classify.Describe(id))
			}
		},
	}
	rootCmd.AddCommand(cmd)
}

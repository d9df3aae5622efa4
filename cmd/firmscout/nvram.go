package firmscout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firmscout/firmscout/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "nvram [rootfs]",
		Short: "Map nvram key usage across a rootfs",
		Long:  "Finds the nvram binary, every key read via 'nvram get' in scripts and binaries, and files that look like the persisted store.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runNvram,
	}
	rootCmd.AddCommand(cmd)
	addTreeFlags(cmd)
}

func runNvram(cmd *cobra.Command, args []string) error {
	cfg, _, _ := resolveTreeConfig(cmd, args)

	maybeNotifyUpdate()
	if humanOutput() && !flagQuiet {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.Root)
	}

	u, err := engine.ScanNvram(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(u)
	}

	fmt.Println("=== NVRAM usage report ===")
	fmt.Printf("Root: %s\n\n", cfg.Root)

	if len(u.Binaries) > 0 {
		fmt.Println("nvram binaries:")
		for _, b := range u.Binaries {
			fmt.Printf("  %s\n", b)
		}
		fmt.Println()
	}
	if len(u.StorageCandidates) > 0 {
		fmt.Println("storage candidates (inspect in a hex viewer):")
		for _, s := range u.StorageCandidates {
			fmt.Printf("  %s\n", s)
		}
		fmt.Println()
	}

	cred := u.CredentialKeys()
	keys := u.SortedKeys()
	fmt.Printf("keys read via 'nvram get' (%d):\n", len(keys))
	for _, k := range keys {
		mark := ""
		if _, ok := cred[k]; ok {
			mark = "  [credential-like]"
		}
		fmt.Printf("  %-24s <- %s%s\n", k, strings.Join(u.FilesFor(k), ", "), mark)
	}
	if len(keys) == 0 {
		fmt.Println("  (none found)")
	}
	return nil
}

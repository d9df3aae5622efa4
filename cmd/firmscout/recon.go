package firmscout

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firmscout/firmscout/internal/engine"
	"github.com/firmscout/firmscout/internal/profile"
	"github.com/firmscout/firmscout/internal/report"
)

var (
	flagELFOnly    bool
	flagEmuProfile string
	flagEmuTarget  string
)

func init() {
	cmd := &cobra.Command{
		Use:   "recon [rootfs]",
		Short: "Statically recon every ELF in an extracted rootfs",
		Long:  "Walks the rootfs, recovers strings from each binary, and maps cloud endpoints, MQTT usage, device-identity fields, key material and SoC/sensor hints per file.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRecon,
	}
	rootCmd.AddCommand(cmd)

	addTreeFlags(cmd)
	cmd.Flags().BoolVar(&flagELFOnly, "elf-only", true, "only scan files with an ELF header")
	cmd.Flags().StringVar(&flagEmuProfile, "emu-profile", "", "write a skeleton emulation profile to this file")
	cmd.Flags().StringVar(&flagEmuTarget, "emu-target", "", "rootfs-relative daemon path for the emulation profile")
}

func runRecon(cmd *cobra.Command, args []string) error {
	cfg, lcfg, gcfg := resolveTreeConfig(cmd, args)
	cfg.ELFOnly = flagELFOnly
	if !cmd.Flags().Changed("elf-only") {
		if lcfg.ELFOnly != nil {
			cfg.ELFOnly = *lcfg.ELFOnly
		} else if gcfg.ELFOnly != nil {
			cfg.ELFOnly = *gcfg.ELFOnly
		}
	}

	profileOut := pickString(flagEmuProfile, lcfg.EmuProfile, gcfg.EmuProfile)
	profileTarget := pickString(flagEmuTarget, lcfg.EmuTarget, gcfg.EmuTarget)
	if profileOut != "" && profileTarget == "" {
		return errors.New("--emu-profile requires --emu-target (rootfs-relative daemon path)")
	}

	maybeNotifyUpdate()
	if humanOutput() && !flagQuiet {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.Root)
	}

	_, err := runTreeScan(cfg, engine.ModeRecon, func(r *report.Report) {
		if profileOut != "" {
			skel := profile.Build(cfg.Root, profileTarget)
			r.Profile = &skel
			if err := skel.WriteFile(profileOut); err != nil {
				fmt.Fprintln(os.Stderr, "emu profile warning:", err)
			} else if humanOutput() {
				fmt.Fprintf(os.Stderr, "emulation profile written to %s\n", profileOut)
			}
		}
		emitReport(r, func(r *report.Report) {
			report.PrintRecon(os.Stdout, r, printOpts())
		})
	})
	return err
}

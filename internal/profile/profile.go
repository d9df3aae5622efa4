// Package profile builds a starting-point emulation profile for the main
// device daemon spotted during recon. The profile is an inert descriptor for
// a third-party dynamic-emulation framework; nothing here is executed, and
// every hook is a hand-edit placeholder.
package profile

import (
	"encoding/json"
	"os"
)

// Skeleton describes the emulation starting point for one target binary
// inside a firmware rootfs.
type Skeleton struct {
	Description string            `json:"description"`
	Rootfs      string            `json:"rootfs"`
	Target      string            `json:"target"`
	Arch        string            `json:"arch"`
	OS          string            `json:"os"`
	EntryPoint  string            `json:"entry_point"`
	Env         map[string]string `json:"env"`
	Hooks       map[string]string `json:"hooks"`
	Notes       []string          `json:"notes"`
}

// Build returns a skeleton for a MIPS-LE Linux camera daemon, the common
// configuration for the RTS39xx targets this tool grew up on. Arch and env
// are starting points meant to be hand-edited.
func Build(rootfs, target string) Skeleton {
	return Skeleton{
		Description: "Skeleton emulation profile for " + target,
		Rootfs:      rootfs,
		Target:      target,
		Arch:        "mipsel",
		OS:          "linux",
		EntryPoint:  "auto",
		Env: map[string]string{
			"PATH":            "/usr/bin:/usr/sbin:/bin:/sbin:/opt/bin/:/opt/skyeye/bin/",
			"LD_LIBRARY_PATH": "./:/usr/local/lib:/usr/lib:/opt/lib",
		},
		Hooks: map[string]string{
			"ioctl":  "TODO: hook ioctl to emulate the SoC camera and wifi devices",
			"open":   "TODO: handle /dev/video*, /dev/ttyS*, /proc/* paths",
			"socket": "TODO: track MQTT / cloud traffic, stub connect",
		},
		Notes: []string{
			"platform init scripts poke /sys/devices/platform/*_soc_camera/loadfw",
			"stub the /sys/devices/platform entries the daemon probes at startup",
			"watchdog scripts expect /tmp and /etc status files plus nvram",
		},
	}
}

// WriteFile serializes the skeleton as indented JSON at path.
func (s Skeleton) WriteFile(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

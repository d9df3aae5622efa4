package firmscout

import "testing"

func TestTreeRootPrefersPositional(t *testing.T) {
	orig := flagPath
	defer func() { flagPath = orig }()

	flagPath = "/from-flag"
	if got := treeRoot([]string{"/fw/rootfs"}); got != "/fw/rootfs" {
		t.Fatalf("positional root must win: %q", got)
	}
	if got := treeRoot(nil); got != "/from-flag" {
		t.Fatalf("fallback to --path expected: %q", got)
	}
}

func TestTreeCommandsRejectExtraArgs(t *testing.T) {
	for _, name := range []string{"recon", "blobs", "nvram"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if err := cmd.Args(cmd, []string{"/fw"}); err != nil {
			t.Fatalf("%s must accept one positional root: %v", name, err)
		}
		if err := cmd.Args(cmd, []string{"/fw", "extra"}); err == nil {
			t.Fatalf("%s must reject a second positional arg", name)
		}
	}
}

package cmd

import (
	"strings"
	"testing"
)

func TestVersionCmd_PrintsVersionCommitAndBuildDate(t *testing.T) {
	out := captureStdout(t, func() {
		versionCmd.Run(versionCmd, nil)
	})

	if !strings.Contains(out, "rcl "+Version) {
		t.Errorf("version output %q missing version line", out)
	}
	if !strings.Contains(out, GitCommit) {
		t.Errorf("version output %q missing commit %q", out, GitCommit)
	}
	if !strings.Contains(out, BuildDate) {
		t.Errorf("version output %q missing build date %q", out, BuildDate)
	}
}

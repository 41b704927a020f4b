package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info should be initialized")
	}
}

func TestString(t *testing.T) {
	got := String()
	if !strings.HasPrefix(got, "docnav "+Version) {
		t.Errorf("String() = %q, want prefix %q", got, "docnav "+Version)
	}
	if !strings.Contains(got, GitCommit) {
		t.Errorf("String() = %q, missing commit", got)
	}
}

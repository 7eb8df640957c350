package version

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGetVersionInfoKeepsLinkerValues(t *testing.T) {
	old := [4]string{Version, Branch, Revision, BuiltAt}
	t.Cleanup(func() { Version, Branch, Revision, BuiltAt = old[0], old[1], old[2], old[3] })

	Version, Branch, Revision, BuiltAt = "v1.2.0", "main", "abc1234", "2026-01-15T10:30:00Z"
	info := GetVersionInfo()
	if info.Version != "v1.2.0" || info.Branch != "main" || info.Revision != "abc1234" || info.BuiltAt != "2026-01-15T10:30:00Z" {
		t.Fatalf("linker values overridden: %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestInfoFormats(t *testing.T) {
	info := Info{Version: "v1.0.0", Branch: "main", Revision: "abc", BuiltAt: "now", GoVersion: "go1.24"}
	if s := info.String(); !strings.Contains(s, "Version: v1.0.0") || !strings.Contains(s, "Go Version: go1.24") {
		t.Errorf("String() = %q", s)
	}
	out, err := info.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var back Info
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != info {
		t.Errorf("JSON round trip = %+v, want %+v", back, info)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortRevision = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("shortRevision = %q", got)
	}
}

package version

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "no vcs information",
			info: Info{Version: "dev", Commit: "unknown", Date: "unknown", GoVersion: "go1.25.1", Platform: "linux/amd64"},
			want: "swatch version dev (go1.25.1, linux/amd64)",
		},
		{
			name: "long commit is shortened",
			info: Info{Version: "1.2.0", Commit: "0123456789abcdef", Date: "2025-01-02T03:04:05Z", GoVersion: "go1.25.1", Platform: "linux/amd64"},
			want: "swatch version 1.2.0 (commit: 01234567, built: 2025-01-02T03:04:05Z, go1.25.1, linux/amd64)",
		},
		{
			name: "short commit is kept",
			info: Info{Version: "1.2.0", Commit: "abc", Date: "today", GoVersion: "go1.25.1", Platform: "darwin/arm64"},
			want: "swatch version 1.2.0 (commit: abc, built: today, go1.25.1, darwin/arm64)",
		},
		{
			name: "modified tree",
			info: Info{Version: "1.2.0", Commit: "0123456789abcdef", Date: "today", Modified: true, GoVersion: "go1.25.1", Platform: "linux/amd64"},
			want: "swatch version 1.2.0 (commit: 01234567-dirty, built: today, go1.25.1, linux/amd64)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := format(tt.info); got != tt.want {
				t.Errorf("format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version != Version {
		t.Errorf("GetInfo().Version = %q, want %q", info.Version, Version)
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("GetInfo().Platform = %q, want os/arch", info.Platform)
	}
	if !strings.HasPrefix(String(), "swatch version ") {
		t.Errorf("String() = %q, want swatch version prefix", String())
	}
}

package version

import (
	"strings"
	"testing"
)

func TestShortRevision(t *testing.T) {
	tests := []struct {
		name     string
		revision string
		modified bool
		want     string
	}{
		{"empty", "", false, ""},
		{"short", "abc", false, "abc"},
		{"long", "0123456789abcdef", false, "0123456"},
		{"dirty", "0123456789abcdef", true, "0123456-dirty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shortRevision(tt.revision, tt.modified); got != tt.want {
				t.Errorf("shortRevision() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "netcommander-go/") {
		t.Errorf("UserAgent() = %q, want netcommander-go/ prefix", ua)
	}
	if strings.HasSuffix(ua, "/") {
		t.Error("UserAgent() should include a version")
	}
}

func TestFull(t *testing.T) {
	if !strings.Contains(Full(), "commit: ") {
		t.Errorf("Full() = %q, missing commit", Full())
	}
}

package validation

import (
	"strings"
	"testing"
)

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"loopback ip", "http://127.0.0.1:8000", true, ""},
		{"localhost", "http://localhost:8000", true, ""},
		{"https with path", "https://classifier.internal/v1", true, ""},
		{"uppercase scheme", "HTTP://localhost:8000", true, ""},
		{"empty string", "", false, "Endpoint is required"},
		{"no scheme", "localhost:8000", false, "Endpoint must use http:// or https:// scheme"},
		{"ftp scheme", "ftp://example.com", false, "Endpoint must use http:// or https:// scheme"},
		{"scheme only", "http://", false, "Endpoint must have a valid host"},
		{"query", "http://localhost:8000?x=1", false, "Endpoint must not carry a query or fragment"},
		{"fragment", "http://localhost:8000#a", false, "Endpoint must not carry a query or fragment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateEndpoint(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateEndpoint(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateEndpoint(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestValidateTabURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"https page", "https://example.com/post/1", true},
		{"browser page", "chrome://extensions", true},
		{"file", "file:///tmp/a.html", true},
		{"blank", "   ", false},
		{"relative", "/path/only", false},
		{"bad escape", "https://example.com/%zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if valid, msg := ValidateTabURL(tt.url); valid != tt.valid {
				t.Errorf("ValidateTabURL(%q) = %v (%q), want %v", tt.url, valid, msg, tt.valid)
			}
		})
	}
}

func TestIsWebPage(t *testing.T) {
	tests := map[string]bool{
		"https://example.com":      true,
		"http://localhost:3000/x":  true,
		"HTTPS://EXAMPLE.COM":      true,
		"chrome://newtab":          false,
		"about:blank":              false,
		"file:///home/me/page.htm": false,
		"":                         false,
	}
	for url, want := range tests {
		if got := IsWebPage(url); got != want {
			t.Errorf("IsWebPage(%q) = %v, want %v", url, got, want)
		}
	}
}

func TestValidateSelection(t *testing.T) {
	text, ok, _ := ValidateSelection("  you are awful  ")
	if !ok || text != "you are awful" {
		t.Errorf("ValidateSelection trimmed = %q, %v", text, ok)
	}

	if _, ok, msg := ValidateSelection(" \n\t "); ok || msg != "Text is required" {
		t.Errorf("blank selection accepted: %v %q", ok, msg)
	}

	if _, ok, msg := ValidateSelection(strings.Repeat("ü", MaxSelectionRunes+1)); ok || msg != "Text is too long" {
		t.Errorf("oversized selection accepted: %v %q", ok, msg)
	}

	if _, ok, _ := ValidateSelection(strings.Repeat("ü", MaxSelectionRunes)); !ok {
		t.Error("selection at the limit rejected")
	}
}

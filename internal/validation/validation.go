package validation

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxSelectionRunes bounds text submitted for a one-off selection analysis.
const MaxSelectionRunes = 5000

// ValidateEndpoint checks that a classifier endpoint is an http(s) base URL.
// The client appends /analyze, so query strings and fragments are rejected.
func ValidateEndpoint(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "Endpoint is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid endpoint URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "Endpoint must use http:// or https:// scheme"
	}
	if u.Host == "" {
		return false, "Endpoint must have a valid host"
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return false, "Endpoint must not carry a query or fragment"
	}

	return true, ""
}

// ValidateTabURL checks the address reported for a tab. Any scheme is
// accepted since browsers show internal pages too.
func ValidateTabURL(urlStr string) (bool, string) {
	if strings.TrimSpace(urlStr) == "" {
		return false, "URL is required"
	}
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}
	if u.Scheme == "" {
		return false, "URL must be absolute"
	}
	return true, ""
}

// IsWebPage reports whether a tab URL is an http(s) page, the only kind an
// observer runs in.
func IsWebPage(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// ValidateSelection trims text and checks it is worth analyzing.
func ValidateSelection(text string) (string, bool, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false, "Text is required"
	}
	if utf8.RuneCountInString(text) > MaxSelectionRunes {
		return "", false, "Text is too long"
	}
	return text, true, ""
}

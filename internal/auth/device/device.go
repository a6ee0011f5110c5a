// Package device derives a human-readable device description from the
// User-Agent header, for display in session records.
package device

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// Describe parses a User-Agent string into a "Browser on OS" label.
// Unparseable agents still yield a non-empty label.
func Describe(rawUserAgent string) string {
	if strings.TrimSpace(rawUserAgent) == "" {
		return unknownDevice
	}

	ua := useragent.New(rawUserAgent)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	os := ua.OSInfo().FullName
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(fmt.Sprintf("%s on %s", browser, os))
}

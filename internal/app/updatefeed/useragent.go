package updatefeed

import "strings"

// platformFromUserAgent guesses a platform alias for browser downloads.
// This is best-effort sniffing, clients that know their platform should use
// the explicit download route instead.
func platformFromUserAgent(userAgent string) (string, bool) {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "windows"):
		return "exe", true
	case strings.Contains(ua, "mac os") || strings.Contains(ua, "macintosh") || strings.Contains(ua, "darwin"):
		return "dmg", true
	case strings.Contains(ua, "debian") || strings.Contains(ua, "ubuntu"):
		return "deb", true
	case strings.Contains(ua, "fedora") || strings.Contains(ua, "red hat"):
		return "rpm", true
	case strings.Contains(ua, "linux"):
		return "AppImage", true
	}
	return "", false
}

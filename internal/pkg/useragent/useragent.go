// Package useragent extracts the browser/OS metadata the session table
// displays from a raw User-Agent string. It recognizes the major engine
// markers only; anything else is reported as unknown rather than
// guessed.
package useragent

import "strings"

// Info is the parsed device metadata for a session row.
type Info struct {
	BrowserName    string
	BrowserVersion string
	OSName         string
	OSVersion      string
	IsMobile       bool
	DeviceInfo     string
}

// Parse extracts browser and OS metadata from a User-Agent header.
func Parse(ua string) Info {
	info := Info{}
	if strings.TrimSpace(ua) == "" {
		return info
	}

	info.BrowserName, info.BrowserVersion = parseBrowser(ua)
	info.OSName, info.OSVersion = parseOS(ua)
	info.IsMobile = strings.Contains(ua, "Mobile") ||
		strings.Contains(ua, "Android") ||
		strings.Contains(ua, "iPhone")

	switch {
	case info.BrowserName != "" && info.OSName != "":
		info.DeviceInfo = info.BrowserName + " on " + info.OSName
	case info.BrowserName != "":
		info.DeviceInfo = info.BrowserName
	case info.OSName != "":
		info.DeviceInfo = info.OSName
	}
	return info
}

// Order matters: Chrome-derived browsers keep a Chrome/ token, and
// Chrome itself keeps a Safari/ token.
func parseBrowser(ua string) (name, version string) {
	switch {
	case strings.Contains(ua, "Edg/"):
		return "Edge", versionAfter(ua, "Edg/")
	case strings.Contains(ua, "OPR/"):
		return "Opera", versionAfter(ua, "OPR/")
	case strings.Contains(ua, "Chrome/"):
		return "Chrome", versionAfter(ua, "Chrome/")
	case strings.Contains(ua, "Firefox/"):
		return "Firefox", versionAfter(ua, "Firefox/")
	case strings.Contains(ua, "Safari/") && strings.Contains(ua, "Version/"):
		return "Safari", versionAfter(ua, "Version/")
	case strings.Contains(ua, "MSIE "):
		return "Internet Explorer", versionAfter(ua, "MSIE ")
	case strings.Contains(ua, "Trident/"):
		return "Internet Explorer", versionAfter(ua, "rv:")
	}
	return "", ""
}

func parseOS(ua string) (name, version string) {
	switch {
	case strings.Contains(ua, "Windows NT "):
		nt := versionAfter(ua, "Windows NT ")
		return "Windows", windowsVersionName(nt)
	case strings.Contains(ua, "iPhone OS "):
		return "iOS", strings.ReplaceAll(versionAfter(ua, "iPhone OS "), "_", ".")
	case strings.Contains(ua, "iPad"):
		return "iPadOS", strings.ReplaceAll(versionAfter(ua, "CPU OS "), "_", ".")
	case strings.Contains(ua, "Mac OS X "):
		return "macOS", strings.ReplaceAll(versionAfter(ua, "Mac OS X "), "_", ".")
	case strings.Contains(ua, "Android "):
		return "Android", versionAfter(ua, "Android ")
	case strings.Contains(ua, "CrOS "):
		return "ChromeOS", ""
	case strings.Contains(ua, "Linux"):
		return "Linux", ""
	}
	return "", ""
}

// versionAfter returns the version token following marker, trimmed at
// the first separator.
func versionAfter(ua, marker string) string {
	idx := strings.Index(ua, marker)
	if idx < 0 {
		return ""
	}
	rest := ua[idx+len(marker):]
	end := strings.IndexFunc(rest, func(r rune) bool {
		switch r {
		case ' ', ';', ')', ',':
			return true
		}
		return false
	})
	if end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func windowsVersionName(nt string) string {
	switch nt {
	case "10.0":
		return "10"
	case "6.3":
		return "8.1"
	case "6.2":
		return "8"
	case "6.1":
		return "7"
	}
	return nt
}

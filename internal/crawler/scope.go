package crawler

import (
	"net/url"
	"path"
	"strings"
)

// skipExtensions lists path extensions that never hold page content:
// images, stylesheets, scripts, archives, fonts, media, and documents.
// Links ending in one of these are dropped before they reach the frontier.
var skipExtensions = map[string]bool{
	// Images
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".svg": true, ".webp": true, ".ico": true,

	// Styles and scripts
	".css": true, ".js": true,

	// Documents
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,

	// Archives
	".zip": true, ".rar": true, ".tar": true, ".gz": true,

	// Media
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".flv": true, ".wmv": true,

	// Fonts
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
}

// InScope reports whether candidate belongs in the frontier of a crawl
// whose root authority is domain.
//
// A candidate is in scope only if it parses, carries a scheme, its
// authority equals domain exactly (subdomains are out of scope), and its
// path does not end in a skip-listed extension. Any parse failure is
// treated as out of scope.
func InScope(candidate, domain string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}

	if u.Scheme == "" {
		return false
	}

	if skipExtensions[strings.ToLower(path.Ext(u.Path))] {
		return false
	}

	return u.Host == domain
}

package storage

import (
	"net/url"
	"path"
	"strings"
)

const (
	// DefaultExt is assumed for sources whose last path segment carries no
	// usable extension.
	DefaultExt   = "mp3"
	maxExtLength = 5
)

// URLExt returns the lowercased extension, without the dot, of the last
// path segment of rawURL. The host, query and fragment never contribute.
// Missing, overlong or non-alphanumeric extensions yield DefaultExt.
func URLExt(rawURL string) string {
	var p string
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else {
		p = rawURL
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(path.Base(p)), "."))
	if ext == "" || len(ext) > maxExtLength || !isAlnum(ext) {
		return DefaultExt
	}
	return ext
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

package refload

import (
	"net/url"
	"path/filepath"
	"strings"
)

// FileURL renders an absolute filesystem path as a file:// URL, the form the
// engine hands back to Load for relative references.
func FileURL(path string) string {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return (&url.URL{Scheme: "file", Path: slashed}).String()
}

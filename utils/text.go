package utils

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// spaceRegex collapses runs of any whitespace, including newlines that show
// up in scraped button labels.
var spaceRegex = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses all whitespace runs to single spaces and trims the
// result, so scraped labels compare stably between runs.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// CanonicalProductPath reduces a storefront product href to /products/<handle>.
// Links on collection pages often carry a trailing variant id segment and
// query parameters; both would make the same product look like many.
func CanonicalProductPath(href string) string {
	path := strings.SplitN(href, "?", 2)[0]
	parts := strings.Split(path, "/")
	// ["", "products", "<handle>", "<maybe-variant-id>", ...]
	if len(parts) >= 3 && parts[1] == "products" {
		return strings.Join(parts[:3], "/")
	}
	return path
}

// HandleFromURL extracts the product handle from a full product URL. Returns
// an empty string when the URL has no /products/<handle> segment.
func HandleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(u.Path, "/")
	for i, p := range parts {
		if p == "products" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// TitleFromHandle turns a product handle into a readable fallback title for
// pages where no usable title element renders.
func TitleFromHandle(handle string) string {
	return NormalizeSpace(strings.ReplaceAll(handle, "-", " "))
}

// SortedUnique returns the distinct members of slice in sorted order.
func SortedUnique(slice []string) []string {
	keys := make(map[string]bool, len(slice))
	unique := make([]string, 0, len(slice))
	for _, entry := range slice {
		if !keys[entry] {
			keys[entry] = true
			unique = append(unique, entry)
		}
	}
	sort.Strings(unique)
	return unique
}

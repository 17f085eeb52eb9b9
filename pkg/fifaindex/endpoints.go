package fifaindex

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	// DefaultListingURL is the first-level listing, pages are appended as /<n>/
	DefaultListingURL = "https://www.fifaindex.com/fr/players/"

	// DefaultSiteRoot resolves the relative image paths found in the listing
	DefaultSiteRoot = "https://www.fifaindex.com"
)

// PageURL returns the listing URL for a 1-based page number
func PageURL(listingURL string, page int) string {
	return fmt.Sprintf("%s/%d/", strings.TrimSuffix(listingURL, "/"), page)
}

// ResolveURL resolves ref against root. An empty ref yields "".
func ResolveURL(root, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	base, err := url.Parse(root)
	if err != nil {
		return root + ref
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return root + ref
	}
	return base.ResolveReference(rel).String()
}

// Basename returns the last path segment of a URL, ignoring any query
func Basename(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		rawURL = u.Path
	}
	if i := strings.LastIndexAny(rawURL, `/\`); i >= 0 {
		rawURL = rawURL[i+1:]
	}
	if rawURL == "" || rawURL == "." {
		return ""
	}
	return path.Clean(rawURL)
}

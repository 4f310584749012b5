// Package orgsvc implements the dedup/linkage layer (C4): URL
// normalization, fuzzy organization name matching, and profile↔organization
// edge upserts.
package orgsvc

import (
	"net/url"
	"strings"
)

// NormalizeURL computes the canonical dedup key for a profile or
// organization URL: lowercase scheme+host, strip "www.", strip trailing
// slash, drop query and fragment (§3, §4.4 step 1). It is idempotent —
// NormalizeURL(NormalizeURL(x)) == NormalizeURL(x) — satisfying the §8
// round-trip law.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Fall back to a best-effort normalization for inputs the url
		// package can't fully parse (e.g. missing scheme).
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return strings.ToLower(strings.TrimSuffix(raw, "/"))
		}
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimSuffix(u.Path, "/")

	normalized := scheme + "://" + host + path
	return normalized
}

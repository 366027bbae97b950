package crawl

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Query keys that carry tracking or session state and never change page
// content. Dropped during canonicalization so the visited set deduplicates
// share links against their clean form.
var trackingKeys = map[string]struct{}{
	"gclid":   {},
	"gbraid":  {},
	"wbraid":  {},
	"fbclid":  {},
	"msclkid": {},
	"_gl":     {},
	"_ga":     {},
	"_gid":    {},
	"mc_cid":  {},
	"mc_eid":  {},
	"ref":     {},
	"cid":     {},
	"source":  {},
	"bltgh":   {},
	"promo":   {},
}

func isTrackingKey(key string) bool {
	if _, ok := trackingKeys[key]; ok {
		return true
	}
	return strings.HasPrefix(key, "utm_")
}

// Canonicalize standardizes a URL so the frontier sees one form per page:
// lowercased scheme and host, default ports removed, fragment removed,
// trailing path slash trimmed, tracking query keys dropped, and the
// remaining query sorted by key.
// Idempotent: canonicalizing a canonical URL returns it unchanged.
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	u.Fragment = ""

	// One path form per page: no trailing slash except the bare root.
	u.Path = strings.TrimRight(u.Path, "/")
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawPath = ""

	u.RawQuery = cleanQuery(u.Query())
	return u.String(), nil
}

// cleanQuery drops tracking keys and renders the rest sorted by key. Empty
// values survive; some retailers use bare flags like "?sale".
func cleanQuery(q url.Values) string {
	keys := make([]string, 0, len(q))
	for key := range q {
		if isTrackingKey(strings.ToLower(key)) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		for _, value := range q[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			if value != "" {
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(value))
			}
		}
	}
	return b.String()
}

// Resolve joins a possibly relative href against the page it appeared on and
// canonicalizes the result.
func Resolve(baseURL, href string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parse href: %w", err)
	}
	return Canonicalize(base.ResolveReference(ref).String())
}

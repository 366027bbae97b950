package normalize

import (
	"net/url"
	"strings"
)

// CategoryURLPredicate reports whether a URL points at a genuine category
// page for the retailer. Used to reject crumbs that point back at the product
// itself or at utility pages such as price overviews.
type CategoryURLPredicate func(rawURL string) bool

// DefaultCategoryURL accepts path-bearing URLs that are not known utility
// pages. Retailer configs can replace it with a stricter shape (e.g. bol.com
// category URLs carry an "/l/" segment).
func DefaultCategoryURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, deny := range []string{"/prijsoverzicht/", "/klantenservice", "/checkout", "/account", "/login", "/basket"} {
		if strings.Contains(lower, deny) {
			return false
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Trim(u.Path, "/") != ""
}

// CategoryURLWithMarker builds a predicate requiring a path marker such as
// "/l/" on top of the default checks.
func CategoryURLWithMarker(marker string) CategoryURLPredicate {
	return func(rawURL string) bool {
		return DefaultCategoryURL(rawURL) && strings.Contains(strings.ToLower(rawURL), marker)
	}
}

// PseudoBreadcrumb derives a breadcrumb trail from the URL path segments when
// neither structured data nor markup provided one. The final segment (the
// product itself) is dropped.
func PseudoBreadcrumb(rawURL string) (names, urls []string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil
	}
	segments := splitPath(u.Path)
	if len(segments) <= 1 {
		return nil, nil
	}
	segments = segments[:len(segments)-1]
	for i, segment := range segments {
		label := slugToLabel(segment)
		if label == "" {
			continue
		}
		crumb := *u
		crumb.Path = "/" + strings.Join(segments[:i+1], "/")
		crumb.RawQuery = ""
		crumb.Fragment = ""
		names = append(names, label)
		urls = append(urls, crumb.String())
	}
	return names, urls
}

func splitPath(path string) []string {
	var out []string
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if n := len(out); n > 0 && strings.HasSuffix(out[n-1], ".html") {
		out = out[:n-1]
	}
	return out
}

func slugToLabel(slug string) string {
	label := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return strings.Join(strings.Fields(label), " ")
}

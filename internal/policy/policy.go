// Package policy holds the crawl and record vocabularies: which category
// terms mark priority work, which segments mark accessory pages to skip, and
// which hosts a run may touch.
package policy

import (
	"net/url"
	"strings"
)

// Vocabulary is the keyword policy applied to URLs, breadcrumbs and titles.
type Vocabulary struct {
	// Priority terms bump category links to the front of the frontier.
	Priority []string
	// Accessory terms mark segments and crumbs to exclude from the catalog.
	Accessory []string
}

// DefaultVocabulary targets microphone and studio-audio assortments on the
// Dutch retail sites this harvester was built for.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Priority: []string{
			"microfoon",
			"microfoons",
			"microphone",
			"condensator",
			"usb-microfoon",
			"studiomicrofoon",
			"zangmicrofoon",
			"draadloze-microfoon",
			"podcast",
		},
		Accessory: []string{
			"statief",
			"statieven",
			"plopkap",
			"popfilter",
			"windkap",
			"microfoonkabel",
			"kabel",
			"kabels",
			"klem",
			"shockmount",
			"flightcase",
			"tas",
			"hoes",
			"adapter",
			"accessoire",
			"accessoires",
			"accessory",
			"accessories",
			"onderdelen",
			"spare",
		},
	}
}

// IsPriority reports whether any priority term occurs in the text.
func (v Vocabulary) IsPriority(text string) bool {
	return containsAny(text, v.Priority)
}

// AccessoryTerm returns the first accessory term found in the text, empty
// when none match. Matching is done per URL-ish token so that "kabel" does
// not fire inside "kabelloos".
func (v Vocabulary) AccessoryTerm(text string) string {
	lower := strings.ToLower(text)
	for _, token := range splitTokens(lower) {
		for _, term := range v.Accessory {
			if token == term {
				return term
			}
		}
	}
	return ""
}

// AccessoryInURL checks only the path segments of a URL.
func (v Vocabulary) AccessoryInURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return v.AccessoryTerm(u.Path)
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		}
		return true
	})
}

// HostAllowlist restricts the frontier to the configured retail domains.
// A www. prefix on either side is ignored.
type HostAllowlist map[string]struct{}

// NewHostAllowlist normalizes and indexes the given hostnames.
func NewHostAllowlist(hosts []string) HostAllowlist {
	list := make(HostAllowlist, len(hosts))
	for _, h := range hosts {
		list[normalizeHost(h)] = struct{}{}
	}
	return list
}

// Allows reports whether the URL's host is on the list. An empty list allows
// nothing; the frontier always runs host-scoped.
func (a HostAllowlist) Allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	_, ok := a[normalizeHost(u.Hostname())]
	return ok
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
}

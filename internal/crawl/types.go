// Package crawl defines the core types and interfaces of the harvesting
// engine: pages, frontier entries, response classification, and the
// fetch/render/extract pipeline that drives a run.
package crawl

import (
	"net/http"
	"time"
)

// RenderTier says how a page body was obtained.
type RenderTier string

// Render tiers. Every URL starts at the direct tier; a blocked or empty
// response may escalate to the rendered tier exactly once.
const (
	TierDirect   RenderTier = "direct"
	TierRendered RenderTier = "rendered"
)

// PageClass is the quality verdict over a fetched response.
type PageClass string

// Page classes in the order the classifier checks them.
const (
	ClassBlocked PageClass = "blocked"
	ClassEmpty   PageClass = "empty"
	ClassUsable  PageClass = "usable"
)

// PageKind says what role a usable page plays in the crawl.
type PageKind string

// Page kinds. Listings yield links, products yield records, other pages
// yield neither.
const (
	KindListing PageKind = "listing"
	KindProduct PageKind = "product"
	KindOther   PageKind = "other"
)

// Page is a fetched response plus everything the pipeline learned about it.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Tier       RenderTier
	FetchedAt  time.Time
	Duration   time.Duration
}

// ContentLength returns the body size in bytes.
func (p Page) ContentLength() int { return len(p.Body) }

// Entry is one unit of frontier work.
type Entry struct {
	URL          string
	CanonicalURL string
	Depth        int
	Kind         PageKind
	Priority     bool
	Attempt      int
}

// Outcome summarizes what the pipeline did with one entry. Emitted to the
// progress log and counters.
type Outcome struct {
	Entry     Entry
	Class     PageClass
	Kind      PageKind
	Tier      RenderTier
	Links     int
	Emitted   bool
	Rejected  string
	FetchErr  error
	Duration  time.Duration
	FetchedAt time.Time
}

package crawl

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/odmbench/harvester/internal/extract"
	"github.com/odmbench/harvester/internal/normalize"
)

// Links is everything a listing page offers the frontier.
type Links struct {
	Products   []string
	Categories []string
	NextPage   string
}

// Total returns how many URLs the set carries.
func (l Links) Total() int {
	n := len(l.Products) + len(l.Categories)
	if l.NextPage != "" {
		n++
	}
	return n
}

// ExtractLinks harvests product, category, and next-page URLs from a listing
// page. Product URLs come from the richest source available: the ItemList
// structured data, then Product nodes, then tile anchors. Category URLs are
// anchors passing the category predicate; the page's own URL never counts.
func ExtractLinks(page *extract.PageDocument, canonicalSelf string, categoryOK normalize.CategoryURLPredicate) Links {
	if categoryOK == nil {
		categoryOK = normalize.DefaultCategoryURL
	}

	var links Links
	seen := map[string]struct{}{canonicalSelf: {}}

	addProduct := func(raw string) {
		canonical, err := Resolve(page.URL, raw)
		if err != nil {
			return
		}
		if _, dup := seen[canonical]; dup {
			return
		}
		seen[canonical] = struct{}{}
		links.Products = append(links.Products, canonical)
	}

	for _, raw := range extract.ItemListURLs(page.LinkedData, false) {
		addProduct(raw)
	}
	if len(links.Products) == 0 {
		for _, raw := range extract.ProductNodeURLs(page.LinkedData) {
			addProduct(raw)
		}
	}
	if len(links.Products) == 0 {
		for _, raw := range scriptProductURLs(page.Doc, page.URL) {
			addProduct(raw)
		}
	}
	if len(links.Products) == 0 {
		page.Doc.Find(productTileSelector).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			if href, ok := a.Attr("href"); ok {
				addProduct(href)
			}
		})
	}

	page.Doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		canonical, err := Resolve(page.URL, href)
		if err != nil {
			return
		}
		if _, dup := seen[canonical]; dup {
			return
		}
		if !categoryOK(canonical) {
			return
		}
		seen[canonical] = struct{}{}
		links.Categories = append(links.Categories, canonical)
	})

	links.NextPage = nextPageURL(page.Doc, page.URL, canonicalSelf)
	return links
}

var absoluteURLPattern = regexp.MustCompile(`https?://[^"'\\\s<>]+`)

// scriptProductURLs digs product URLs out of embedded state blobs (Next.js,
// Nuxt, bespoke window.__STATE__ scripts) when the structured data carried
// none. Only same-host URLs with a product-shaped path survive.
func scriptProductURLs(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var out []string
	doc.Find("script:not([type='application/ld+json'])").Each(func(_ int, s *goquery.Selection) {
		for _, raw := range absoluteURLPattern.FindAllString(s.Text(), -1) {
			u, err := url.Parse(raw)
			if err != nil || !strings.EqualFold(u.Hostname(), base.Hostname()) {
				continue
			}
			if !productishPath(u.Path) {
				continue
			}
			out = append(out, raw)
		}
	})
	return out
}

func productishPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.Contains(lower, "/p/") || strings.Contains(lower, "/product")
}

// nextPageURL prefers an explicit rel=next link; when only pagination
// controls are present it bumps the page query parameter instead.
func nextPageURL(doc *goquery.Document, baseURL, canonicalSelf string) string {
	for _, sel := range []string{"a[rel='next']", "link[rel='next']"} {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && href != "" {
			if canonical, err := Resolve(baseURL, href); err == nil && canonical != canonicalSelf {
				return canonical
			}
		}
	}
	if doc.Find(paginationSelector).Length() == 0 {
		return ""
	}
	return bumpPageParam(canonicalSelf)
}

// bumpPageParam returns the same URL with page=N+1, starting at page=2 when
// the parameter is absent.
func bumpPageParam(canonicalSelf string) string {
	u, err := url.Parse(canonicalSelf)
	if err != nil {
		return ""
	}
	q := u.Query()
	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ""
		}
		page = n
	}
	q.Set("page", strconv.Itoa(page+1))
	u.RawQuery = q.Encode()
	next, err := Canonicalize(u.String())
	if err != nil {
		return ""
	}
	return next
}

// PageNumber reads the page query parameter, defaulting to 1.
func PageNumber(canonicalURL string) int {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return 1
	}
	if v := strings.TrimSpace(u.Query().Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

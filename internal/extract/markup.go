package extract

import "github.com/PuerkitoBio/goquery"

// microdataExtractor covers the second tier: itemprop microdata, Open Graph
// and product meta tags, and the JSON-LD breadcrumb trail. It fires when the
// Product node was absent or sparse.
type microdataExtractor struct{}

func (microdataExtractor) Name() string { return "microdata" }

func (microdataExtractor) Extract(page *PageDocument, rec *RawRecord) {
	if title := page.MetaContent("og:title"); title != "" {
		rec.Set(FieldTitle, TierMicrodata, stripSiteSuffix(title))
	}
	rec.Set(FieldBrand, TierMicrodata, page.MetaContent("product:brand", "og:brand"))
	rec.Set(FieldImageURL, TierMicrodata, page.MetaContent("og:image"))
	rec.Set(FieldDescription, TierMicrodata, page.MetaContent("description", "og:description"))
	rec.Set(FieldPriceText, TierMicrodata, page.MetaContent("product:price:amount", "og:price:amount"))
	rec.Set(FieldCurrency, TierMicrodata, page.MetaContent("product:price:currency", "og:price:currency"))

	if !rec.Has(FieldPriceText) {
		price := page.Doc.Find(`[itemprop="price"]`).First()
		if v, ok := price.Attr("content"); ok {
			rec.Set(FieldPriceText, TierMicrodata, v)
		} else {
			rec.Set(FieldPriceText, TierMicrodata, price.Text())
		}
	}
	if avail, ok := page.Doc.Find(`[itemprop="availability"]`).First().Attr("href"); ok {
		rec.Set(FieldAvailability, TierMicrodata, avail)
	}

	names, urls := BreadcrumbTrail(page.LinkedData)
	setBreadcrumb(rec, TierMicrodata, names, urls, page.URL)
}

// setBreadcrumb records the deepest crumb that is not the page itself, plus
// its parent. Category-URL validation happens later in normalization; here we
// only drop self-referencing crumbs.
func setBreadcrumb(rec *RawRecord, tier Tier, names, urls []string, selfURL string) {
	var keptNames, keptURLs []string
	for i := range names {
		if i >= len(urls) || urls[i] == selfURL {
			continue
		}
		keptNames = append(keptNames, names[i])
		keptURLs = append(keptURLs, urls[i])
	}
	if len(keptNames) == 0 {
		return
	}
	last := len(keptNames) - 1
	if rec.Set(FieldBreadcrumbName, tier, keptNames[last]) {
		rec.Set(FieldBreadcrumbURL, tier, keptURLs[last])
		if last >= 1 {
			rec.Set(FieldBreadcrumbParent, tier, keptNames[last-1])
		}
	}
}

// MarkupBreadcrumbs pulls name/url pairs out of breadcrumb navigation markup.
// Shared with the heuristic tier and the normalizer's fallback path.
func MarkupBreadcrumbs(doc *goquery.Document) (names, urls []string) {
	sel := doc.Find(
		`nav[aria-label*="breadcrumb"] a[href], nav.breadcrumb a[href], ` +
			`ol.breadcrumb a[href], ul.breadcrumb a[href], a[data-test*="breadcrumb"][href]`)
	sel.Each(func(_ int, a *goquery.Selection) {
		name := CleanText(a.Text())
		href, _ := a.Attr("href")
		if name == "" || href == "" {
			return
		}
		names = append(names, name)
		urls = append(urls, href)
	})
	return names, urls
}

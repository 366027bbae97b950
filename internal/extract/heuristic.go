package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector groups for the heuristic tier. Deliberately scoped to likely
// regions instead of the whole page so unrelated prices and numbers in
// scripts or secondary offers are never picked up.
const (
	buyBlockSelector = `[data-test="buy-block"], [data-test="buybox"], [data-test*="buy"], ` +
		`[class*="buy-block"], [class*="buybox"], form[action*="cart"]`
	priceSelector  = `[data-test*="price"] , [class*="price"]`
	brandSelector  = `[data-test*="brand"], a[href*="/merk/"], a[href*="/brand/"]`
	ratingSelector = `[data-test*="rating"], a[href*="reviews"], a[href*="#review"]`
)

var priceLike = regexp.MustCompile(`\b\d+[,.]\d{2}\b|\b\d+,-`)

// heuristicExtractor is the third tier: scoped CSS selectors plus label/value
// spec tables.
type heuristicExtractor struct{}

func (heuristicExtractor) Name() string { return "heuristic" }

func (heuristicExtractor) Extract(page *PageDocument, rec *RawRecord) {
	doc := page.Doc

	if h1 := CleanText(doc.Find("h1").First().Text()); h1 != "" {
		rec.Set(FieldTitle, TierHeuristic, h1)
	} else {
		rec.Set(FieldTitle, TierHeuristic, stripSiteSuffix(page.Title()))
	}

	rec.Set(FieldBrand, TierHeuristic, CleanText(doc.Find(brandSelector).First().Text()))

	buyBlock := doc.Find(buyBlockSelector)
	if buyBlock.Length() > 0 {
		if price := firstPriceText(buyBlock.Find(priceSelector)); price != "" {
			rec.Set(FieldPriceText, TierHeuristic, price)
		}
		if base := strikethroughPrice(buyBlock); base != "" {
			rec.Set(FieldBasePriceText, TierHeuristic, base)
		}
		rec.Set(FieldStockText, TierHeuristic, CleanText(buyBlock.Text()))
	}

	if img, ok := doc.Find(`img.product-image-photo, img[class*="product-image"]`).First().Attr("src"); ok {
		rec.Set(FieldImageURL, TierHeuristic, img)
	}

	specs := SpecTable(doc)
	rec.Set(FieldBrand, TierHeuristic, findSpec(specs, "merk", "brand", "fabrikant"))
	rec.Set(FieldModel, TierHeuristic, findSpec(specs, "model", "modelnummer", "typenummer"))
	rec.Set(FieldSKU, TierHeuristic, findSpec(specs, "sku", "artikelcode"))
	rec.Set(FieldMPN, TierHeuristic, findSpec(specs, "mpn", "part number", "onderdeelnummer"))
	rec.Set(FieldGTIN, TierHeuristic, findSpec(specs, "ean", "gtin"))

	names, urls := MarkupBreadcrumbs(doc)
	setBreadcrumb(rec, TierHeuristic, names, urls, page.URL)

	ratingText := CleanText(doc.Find(ratingSelector).Text())
	if ratingText != "" {
		if m := ratingValuePattern.FindString(ratingText); m != "" {
			rec.Set(FieldRatingValue, TierHeuristic, strings.ReplaceAll(m, ",", "."))
		}
		if m := ratingCountPattern.FindString(ratingText); m != "" {
			rec.Set(FieldRatingCount, TierHeuristic, m)
		}
	}
}

var (
	ratingValuePattern = regexp.MustCompile(`\b\d(?:[.,]\d)?\b`)
	ratingCountPattern = regexp.MustCompile(`\b\d{1,6}\b`)
)

// firstPriceText returns the first node text that plausibly is a price.
func firstPriceText(sel *goquery.Selection) string {
	var found string
	sel.EachWithBreak(func(_ int, node *goquery.Selection) bool {
		text := CleanText(node.Text())
		if text == "" {
			return true
		}
		if strings.Contains(text, "€") || priceLike.MatchString(text) {
			found = text
			return false
		}
		return true
	})
	return found
}

// strikethroughPrice looks for a struck-out reference price inside the buy
// block. Whether it is usable as a base price is decided by the normalizer.
func strikethroughPrice(buyBlock *goquery.Selection) string {
	sel := buyBlock.Find(`del, s, [class*="strike"], [class*="old-price"], [class*="was-price"]`)
	return firstPriceText(sel)
}

// SpecTable harvests label/value pairs from tables, definition lists, and
// "Label: value" list items.
func SpecTable(doc *goquery.Document) map[string]string {
	specs := make(map[string]string)
	put := func(label, value string) {
		label = strings.ToLower(CleanText(label))
		value = CleanText(value)
		if label == "" || value == "" {
			return
		}
		if _, ok := specs[label]; !ok {
			specs[label] = value
		}
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		put(row.Find("th").Text(), row.Find("td").Text())
	})
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		defs := dl.Find("dd")
		n := terms.Length()
		if defs.Length() < n {
			n = defs.Length()
		}
		for i := 0; i < n; i++ {
			put(terms.Eq(i).Text(), defs.Eq(i).Text())
		}
	})
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := CleanText(li.Text())
		label, value, ok := strings.Cut(text, ":")
		if !ok {
			return
		}
		put(label, value)
	})
	return specs
}

func findSpec(specs map[string]string, keys ...string) string {
	labels := make([]string, 0, len(specs))
	for label := range specs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, key := range keys {
		for _, label := range labels {
			if strings.Contains(label, key) {
				return specs[label]
			}
		}
	}
	return ""
}

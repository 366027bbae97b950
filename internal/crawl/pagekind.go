package crawl

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/odmbench/harvester/internal/extract"
)

// Tile selectors that mark product cards on category pages.
const productTileSelector = "li.product-item, div.product-tile, article[data-test='product'], div[data-testid='product-card']"

// Pagination controls, both link-based and button-based.
const paginationSelector = "a[rel='next'], link[rel='next'], nav[aria-label*='agina'] a, ul.pagination a"

// ClassifyKind decides whether a usable page is a listing, a product page,
// or neither. Listing and product evidence are scored independently; a tie
// with any evidence goes to listing, since a mistaken listing costs one
// wasted link pass while a mistaken product yields a junk record.
func ClassifyKind(doc *goquery.Document, nodes []extract.LinkedData) PageKind {
	listing := listingEvidence(doc, nodes)
	product := productEvidence(doc, nodes)

	switch {
	case listing == 0 && product == 0:
		return KindOther
	case listing >= product:
		return KindListing
	default:
		return KindProduct
	}
}

func listingEvidence(doc *goquery.Document, nodes []extract.LinkedData) int {
	score := 0
	if len(extract.ItemListURLs(nodes, false)) >= 5 {
		score += 2
	}
	if doc.Find(productTileSelector).Length() >= 6 {
		score += 2
	}
	if doc.Find(paginationSelector).Length() > 0 {
		score++
	}
	if len(extract.NodesOfType(nodes, "Product")) > 1 {
		score++
	}
	return score
}

func productEvidence(doc *goquery.Document, nodes []extract.LinkedData) int {
	score := 0
	products := extract.NodesOfType(nodes, "Product")
	if len(products) == 1 {
		score += 2
		if _, ok := products[0]["offers"]; ok {
			score++
		}
	}
	if content, ok := doc.Find("meta[property='og:type']").Attr("content"); ok {
		if strings.Contains(strings.ToLower(content), "product") {
			score++
		}
	}
	if doc.Find("button[type='submit'][name*='cart'], button[data-test='add-to-cart'], form[action*='cart'] button").Length() > 0 {
		score++
	}
	return score
}

package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkedData is a decoded JSON-LD node. Nested @graph nodes are flattened by
// ParseLinkedData so callers can treat the page as a flat node list.
type LinkedData map[string]any

// ParseLinkedData decodes every <script type="application/ld+json"> block in
// the document and returns the flattened node list. Malformed blocks are
// skipped; retailers routinely ship at least one broken block.
func ParseLinkedData(doc *goquery.Document) []LinkedData {
	var nodes []LinkedData
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return
		}
		nodes = append(nodes, flattenLinkedData(decoded)...)
	})
	return nodes
}

func flattenLinkedData(v any) []LinkedData {
	var out []LinkedData
	switch node := v.(type) {
	case map[string]any:
		out = append(out, LinkedData(node))
		if graph, ok := node["@graph"].([]any); ok {
			for _, child := range graph {
				out = append(out, flattenLinkedData(child)...)
			}
		}
	case []any:
		for _, child := range node {
			out = append(out, flattenLinkedData(child)...)
		}
	}
	return out
}

// HasType reports whether the node's @type matches name. @type may be a
// string or a list of strings.
func (n LinkedData) HasType(name string) bool {
	switch t := n["@type"].(type) {
	case string:
		return t == name
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == name {
				return true
			}
		}
	}
	return false
}

func (n LinkedData) str(key string) string {
	switch v := n[key].(type) {
	case string:
		return CleanText(v)
	case float64:
		return CleanText(trimFloat(v))
	}
	return ""
}

// FirstOfType returns the first node with the given @type, nil when absent.
func FirstOfType(nodes []LinkedData, name string) LinkedData {
	for _, n := range nodes {
		if n.HasType(name) {
			return n
		}
	}
	return nil
}

// NodesOfType returns every node with the given @type.
func NodesOfType(nodes []LinkedData, name string) []LinkedData {
	var out []LinkedData
	for _, n := range nodes {
		if n.HasType(name) {
			out = append(out, n)
		}
	}
	return out
}

// gtinKeys in the order schema.org publishers tend to use them.
var gtinKeys = []string{"gtin13", "gtin14", "gtin12", "gtin8", "gtin"}

// structuredExtractor maps a JSON-LD Product node onto the raw record.
// Highest precedence tier.
type structuredExtractor struct{}

func (structuredExtractor) Name() string { return "jsonld" }

func (structuredExtractor) Extract(page *PageDocument, rec *RawRecord) {
	productNode := FirstOfType(page.LinkedData, "Product")
	if productNode == nil {
		return
	}

	rec.Set(FieldTitle, TierStructured, productNode.str("name"))
	rec.Set(FieldDescription, TierStructured, productNode.str("description"))
	rec.Set(FieldBrand, TierStructured, brandName(productNode["brand"]))
	rec.Set(FieldModel, TierStructured, modelName(productNode["model"]))
	rec.Set(FieldMPN, TierStructured, productNode.str("mpn"))
	rec.Set(FieldSKU, TierStructured, productNode.str("sku"))

	for _, key := range gtinKeys {
		if v := productNode.str(key); v != "" {
			rec.Set(FieldGTIN, TierStructured, v)
			break
		}
	}

	rec.Set(FieldImageURL, TierStructured, firstString(productNode["image"]))

	if offer := firstOffer(productNode["offers"]); offer != nil {
		rec.Set(FieldPriceText, TierStructured, offer.str("price"))
		rec.Set(FieldCurrency, TierStructured, offer.str("priceCurrency"))
		if avail := offer.str("availability"); avail != "" {
			rec.Set(FieldAvailability, TierStructured, avail)
		}
	}

	if agg, ok := productNode["aggregateRating"].(map[string]any); ok {
		node := LinkedData(agg)
		rec.Set(FieldRatingValue, TierStructured, node.str("ratingValue"))
		count := node.str("reviewCount")
		if count == "" {
			count = node.str("ratingCount")
		}
		rec.Set(FieldRatingCount, TierStructured, count)
	}
}

func brandName(v any) string {
	switch brand := v.(type) {
	case string:
		return brand
	case map[string]any:
		return LinkedData(brand).str("name")
	}
	return ""
}

func modelName(v any) string {
	switch model := v.(type) {
	case string:
		return model
	case map[string]any:
		node := LinkedData(model)
		if name := node.str("name"); name != "" {
			return name
		}
		return node.str("model")
	}
	return ""
}

func firstString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstOffer(v any) LinkedData {
	switch offers := v.(type) {
	case map[string]any:
		return LinkedData(offers)
	case []any:
		for _, item := range offers {
			if m, ok := item.(map[string]any); ok {
				return LinkedData(m)
			}
		}
	}
	return nil
}

// ItemListURLs collects the URLs of list elements from ItemList nodes.
// When onlyProducts is set, elements must carry a Product @type either on the
// element or its nested item.
func ItemListURLs(nodes []LinkedData, onlyProducts bool) []string {
	var urls []string
	for _, list := range NodesOfType(nodes, "ItemList") {
		elements, ok := list["itemListElement"].([]any)
		if !ok {
			continue
		}
		for _, raw := range elements {
			element, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			node := LinkedData(element)
			item, _ := element["item"].(map[string]any)

			url := node.str("url")
			if url == "" && item != nil {
				itemNode := LinkedData(item)
				url = itemNode.str("url")
				if url == "" {
					url = itemNode.str("@id")
				}
			}
			if url == "" {
				continue
			}
			if onlyProducts && !node.HasType("Product") && !(item != nil && LinkedData(item).HasType("Product")) {
				continue
			}
			urls = append(urls, url)
		}
	}
	return urls
}

// ProductNodeURLs returns the url/@id of every Product node, used as a
// secondary link source on listing pages.
func ProductNodeURLs(nodes []LinkedData) []string {
	var urls []string
	for _, n := range NodesOfType(nodes, "Product") {
		url := n.str("url")
		if url == "" {
			url = n.str("@id")
		}
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// BreadcrumbTrail returns the name/url pairs of a BreadcrumbList node in
// order. Entries missing either part are dropped.
func BreadcrumbTrail(nodes []LinkedData) (names, urls []string) {
	list := FirstOfType(nodes, "BreadcrumbList")
	if list == nil {
		return nil, nil
	}
	elements, ok := list["itemListElement"].([]any)
	if !ok {
		return nil, nil
	}
	for _, raw := range elements {
		element, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		node := LinkedData(element)
		name := node.str("name")
		url := node.str("item")
		if url == "" {
			if item, ok := element["item"].(map[string]any); ok {
				itemNode := LinkedData(item)
				url = itemNode.str("@id")
				if name == "" {
					name = itemNode.str("name")
				}
			}
		}
		if name == "" || url == "" {
			continue
		}
		names = append(names, name)
		urls = append(urls, url)
	}
	return names, urls
}

func trimFloat(f float64) string {
	b, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	s := string(b)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

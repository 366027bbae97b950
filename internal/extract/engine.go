package extract

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// PageDocument bundles the parsed views of a fetched page that the extractor
// tiers share: the goquery DOM, the flattened JSON-LD nodes, and a lazily
// computed visible-text rendering.
type PageDocument struct {
	URL        string
	Doc        *goquery.Document
	LinkedData []LinkedData

	visibleOnce sync.Once
	visibleText string
}

// NewPageDocument parses body into a PageDocument.
func NewPageDocument(url string, body []byte) (*PageDocument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &PageDocument{
		URL:        url,
		Doc:        doc,
		LinkedData: ParseLinkedData(doc),
	}, nil
}

// VisibleText returns the page text with script and style content removed.
// Used only by the regex fallback tier; heuristic tiers stay scoped to
// semantically likely regions instead.
func (p *PageDocument) VisibleText() string {
	p.visibleOnce.Do(func() {
		clone := p.Doc.Clone()
		clone.Find("script, style, noscript").Remove()
		p.visibleText = CleanText(clone.Text())
	})
	return p.visibleText
}

// Title returns the <title> text, cleaned.
func (p *PageDocument) Title() string {
	return CleanText(p.Doc.Find("title").First().Text())
}

// MetaContent returns the first non-empty content attribute among meta tags
// matching any of the given property or name values.
func (p *PageDocument) MetaContent(names ...string) string {
	for _, name := range names {
		for _, attr := range []string{"property", "name"} {
			sel := fmt.Sprintf(`meta[%s=%q]`, attr, name)
			if v, ok := p.Doc.Find(sel).First().Attr("content"); ok {
				if v = CleanText(v); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// FieldExtractor is one tier of the fallback chain. Implementations must only
// call RawRecord.Set, which enforces the precedence rule.
type FieldExtractor interface {
	Name() string
	Extract(page *PageDocument, rec *RawRecord)
}

// Engine applies the tier chain in precedence order.
type Engine struct {
	tiers []FieldExtractor
}

// NewEngine builds the default four-tier chain.
func NewEngine() *Engine {
	return &Engine{
		tiers: []FieldExtractor{
			structuredExtractor{},
			microdataExtractor{},
			heuristicExtractor{},
			regexExtractor{},
		},
	}
}

// Extract runs every tier over the page and returns the populated raw record.
func (e *Engine) Extract(page *PageDocument) *RawRecord {
	rec := NewRawRecord(page.URL)
	for _, tier := range e.tiers {
		tier.Extract(page, rec)
	}
	return rec
}

// stripSiteSuffix removes a trailing "| shopname" chunk commonly appended to
// titles and og:title values.
func stripSiteSuffix(title string) string {
	if idx := strings.LastIndex(title, "|"); idx > 0 {
		head := CleanText(title[:idx])
		tail := CleanText(title[idx+1:])
		if head != "" && len(tail) <= 24 && !strings.ContainsAny(tail, "0123456789") {
			return head
		}
	}
	return title
}

package crawl

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Title vocabulary of consent walls, bot interstitials and block pages.
// Matched case-insensitively against the document title.
var blockedTitleTerms = []string{
	"toestemming",
	"consent",
	"cookie",
	"verify",
	"verific",
	"access denied",
	"blocked",
	"captcha",
	"robot",
	"attention required",
}

// Status codes that mean the origin refused us rather than the page missing.
var blockedStatusCodes = map[int]struct{}{
	403: {},
	429: {},
	503: {},
}

// DefaultMinUsableBytes is the body size below which a 200 response is
// treated as an empty shell that needs rendering.
const DefaultMinUsableBytes = 2048

// Classifier applies the fixed rule order: blocked status, blocked title,
// size threshold, usable. Pure; the same response always classifies the same.
type Classifier struct {
	minUsableBytes int
}

// NewClassifier builds a classifier. minUsableBytes <= 0 selects the default.
func NewClassifier(minUsableBytes int) *Classifier {
	if minUsableBytes <= 0 {
		minUsableBytes = DefaultMinUsableBytes
	}
	return &Classifier{minUsableBytes: minUsableBytes}
}

// Classify returns the quality verdict for the page.
func (c *Classifier) Classify(page Page) PageClass {
	if _, blocked := blockedStatusCodes[page.StatusCode]; blocked {
		return ClassBlocked
	}
	if titleLooksBlocked(page.Body) {
		return ClassBlocked
	}
	if len(page.Body) < c.minUsableBytes {
		return ClassEmpty
	}
	return ClassUsable
}

func titleLooksBlocked(body []byte) bool {
	title := strings.ToLower(documentTitle(body))
	if title == "" {
		return false
	}
	for _, term := range blockedTitleTerms {
		if strings.Contains(title, term) {
			return true
		}
	}
	return false
}

// documentTitle streams tokens until the <title> text, avoiding a full DOM
// parse on pages that only need a verdict.
func documentTitle(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	z := html.NewTokenizer(bytes.NewReader(body))
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(z.Text()))
			}
		case html.EndTagToken:
			if inTitle {
				return ""
			}
		}
	}
}

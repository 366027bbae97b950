package crawl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func usableBody() []byte {
	return []byte("<html><head><title>Shure SM58 kopen</title></head><body>" +
		strings.Repeat("<p>product details</p>", 200) + "</body></html>")
}

func TestClassify(t *testing.T) {
	classifier := NewClassifier(0)

	cases := []struct {
		name string
		page Page
		want PageClass
	}{
		{name: "forbidden status", page: Page{StatusCode: 403, Body: usableBody()}, want: ClassBlocked},
		{name: "rate limited status", page: Page{StatusCode: 429, Body: usableBody()}, want: ClassBlocked},
		{name: "unavailable status", page: Page{StatusCode: 503, Body: usableBody()}, want: ClassBlocked},
		{
			name: "consent wall title",
			page: Page{StatusCode: 200, Body: []byte("<html><head><title>Even je toestemming</title></head><body>" +
				strings.Repeat("x", 4096) + "</body></html>")},
			want: ClassBlocked,
		},
		{
			name: "captcha title",
			page: Page{StatusCode: 200, Body: []byte("<html><head><title>Attention Required! | Cloudflare</title></head><body>" +
				strings.Repeat("x", 4096) + "</body></html>")},
			want: ClassBlocked,
		},
		{
			name: "tiny shell body",
			page: Page{StatusCode: 200, Body: []byte("<html><head><title>Winkel</title></head><body></body></html>")},
			want: ClassEmpty,
		},
		{name: "usable page", page: Page{StatusCode: 200, Body: usableBody()}, want: ClassUsable},
		{name: "not found is not blocked", page: Page{StatusCode: 404, Body: usableBody()}, want: ClassUsable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, classifier.Classify(tc.page))
			require.Equal(t, tc.want, classifier.Classify(tc.page), "classification must be deterministic")
		})
	}
}

func TestClassifierThreshold(t *testing.T) {
	classifier := NewClassifier(10)
	page := Page{StatusCode: 200, Body: []byte("<html><head><title>ok</title></head><body>hi</body></html>")}
	require.Equal(t, ClassUsable, classifier.Classify(page))

	strict := NewClassifier(1 << 20)
	require.Equal(t, ClassEmpty, strict.Classify(page))
}

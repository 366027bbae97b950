package crawl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases scheme and host",
			in:   "HTTPS://WWW.Example.NL/Microfoons",
			want: "https://www.example.nl/Microfoons",
		},
		{
			name: "drops default https port",
			in:   "https://www.example.nl:443/a",
			want: "https://www.example.nl/a",
		},
		{
			name: "drops fragment",
			in:   "https://www.example.nl/a#reviews",
			want: "https://www.example.nl/a",
		},
		{
			name: "strips tracking keys and sorts the rest",
			in:   "https://www.example.nl/l/mics?utm_source=nieuwsbrief&b=2&gclid=abc&a=1&fbclid=x",
			want: "https://www.example.nl/l/mics?a=1&b=2",
		},
		{
			name: "strips bltgh and promo",
			in:   "https://www.example.nl/p/sm58?bltgh=abc123&promo=zomer",
			want: "https://www.example.nl/p/sm58",
		},
		{
			name: "keeps meaningful query",
			in:   "https://www.example.nl/l/mics?page=3",
			want: "https://www.example.nl/l/mics?page=3",
		},
		{
			name: "trims trailing slash",
			in:   "https://www.example.nl/microfoons/",
			want: "https://www.example.nl/microfoons",
		},
		{
			name: "bare host gets a root path",
			in:   "https://www.example.nl",
			want: "https://www.example.nl/",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Canonicalize(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)

			again, err := Canonicalize(got)
			require.NoError(t, err)
			require.Equal(t, got, again, "canonicalization must be idempotent")
		})
	}
}

func TestCanonicalizeRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"mailto:sales@example.nl",
		"javascript:void(0)",
		"/relative/only",
		"ftp://example.nl/file",
	} {
		_, err := Canonicalize(in)
		require.Error(t, err, in)
	}
}

func TestResolve(t *testing.T) {
	got, err := Resolve("https://www.example.nl/l/mics?page=2", "/p/shure-sm58?gclid=zzz")
	require.NoError(t, err)
	require.Equal(t, "https://www.example.nl/p/shure-sm58", got)

	got, err = Resolve("https://www.example.nl/l/mics/", "sub/category")
	require.NoError(t, err)
	require.Equal(t, "https://www.example.nl/l/mics/sub/category", got)
}

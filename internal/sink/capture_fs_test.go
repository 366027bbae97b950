package sink

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/odmbench/harvester/internal/crawl"
)

func TestFSCaptureSave(t *testing.T) {
	c, err := NewFSCapture(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	page := crawl.Page{
		URL:        "https://www.example.nl/p/sm58",
		FinalURL:   "https://www.example.nl/p/sm58",
		StatusCode: 403,
		Body:       []byte("<html><title>Access Denied</title></html>"),
		Tier:       crawl.TierRendered,
	}

	locator, err := c.Save(context.Background(), page, "blocked")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(locator, ".html"))
	require.Contains(t, locator, "blocked")

	body, err := os.ReadFile(locator)
	require.NoError(t, err)
	require.Equal(t, page.Body, body)

	metaPath := strings.TrimSuffix(locator, ".html") + ".json"
	raw, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	var meta captureMeta
	require.NoError(t, json.Unmarshal(raw, &meta))
	require.Equal(t, page.URL, meta.URL)
	require.Equal(t, 403, meta.StatusCode)
	require.Equal(t, "rendered", meta.Tier)
	require.Equal(t, "blocked", meta.Reason)
	require.Equal(t, len(page.Body), meta.Bytes)
}

func TestFSCaptureRejectsEmptyBody(t *testing.T) {
	c, err := NewFSCapture(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	_, err = c.Save(context.Background(), crawl.Page{URL: "https://a.nl"}, "empty")
	require.Error(t, err)
}

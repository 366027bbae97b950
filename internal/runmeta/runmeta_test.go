package runmeta

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/odmbench/harvester/internal/crawl"
)

func TestNewRun(t *testing.T) {
	cfg := crawl.Config{
		Seeds:           []string{"https://www.example.nl/l/mics"},
		AllowedHosts:    []string{"www.example.nl"},
		Workers:         4,
		MaxListingPages: 10,
	}
	started := time.Date(2026, 8, 31, 9, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	run := New(cfg, started)

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	require.Equal(t, started.UTC(), run.StartedAt)
	require.Equal(t, cfg.Seeds, run.Seeds)
	require.Equal(t, 4, run.Settings["workers"])
	require.Equal(t, false, run.Settings["render_enabled"])
	require.Nil(t, run.FinishedAt)

	other := New(cfg, started)
	require.NotEqual(t, run.ID, other.ID)
}

func TestRunFinish(t *testing.T) {
	run := New(crawl.Config{Seeds: []string{"s"}}, time.Now())
	done := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	run.Finish(done)
	require.NotNil(t, run.FinishedAt)
	require.Equal(t, done, *run.FinishedAt)
}

package crawl

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFrontierDeduplicates(t *testing.T) {
	f := NewFrontier(0)
	require.True(t, f.Add(Entry{CanonicalURL: "https://a.nl/1"}))
	require.False(t, f.Add(Entry{CanonicalURL: "https://a.nl/1"}))
	require.True(t, f.Seen("https://a.nl/1"))
	require.False(t, f.Seen("https://a.nl/2"))
}

func TestFrontierPriorityFirst(t *testing.T) {
	f := NewFrontier(0)
	require.True(t, f.Add(Entry{CanonicalURL: "https://a.nl/regular"}))
	require.True(t, f.Add(Entry{CanonicalURL: "https://a.nl/priority", Priority: true}))

	entry, ok := f.Next(context.Background())
	require.True(t, ok)
	require.Equal(t, "https://a.nl/priority", entry.CanonicalURL)

	entry, ok = f.Next(context.Background())
	require.True(t, ok)
	require.Equal(t, "https://a.nl/regular", entry.CanonicalURL)
}

func TestFrontierBudget(t *testing.T) {
	f := NewFrontier(2)
	require.True(t, f.Add(Entry{CanonicalURL: "https://a.nl/1"}))
	require.True(t, f.Add(Entry{CanonicalURL: "https://a.nl/2"}))
	require.False(t, f.Add(Entry{CanonicalURL: "https://a.nl/3"}))

	scheduled, queued := f.Stats()
	require.Equal(t, 2, scheduled)
	require.Equal(t, 2, queued)
}

func TestFrontierDrainsWhenIdle(t *testing.T) {
	f := NewFrontier(0)
	require.True(t, f.Add(Entry{CanonicalURL: "https://a.nl/1"}))

	_, ok := f.Next(context.Background())
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := f.Next(context.Background())
		require.False(t, ok)
	}()

	f.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frontier did not close after last entry finished")
	}
}

func TestFrontierContextCancel(t *testing.T) {
	f := NewFrontier(0)
	require.True(t, f.Add(Entry{CanonicalURL: "https://a.nl/1"}))
	_, ok := f.Next(context.Background())
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := f.Next(ctx)
		require.False(t, ok)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Next did not observe context cancellation")
	}
	f.Done()
}

func TestFrontierConcurrentWorkers(t *testing.T) {
	f := NewFrontier(0)
	const entries = 50
	for i := 0; i < entries; i++ {
		require.True(t, f.Add(Entry{CanonicalURL: "https://a.nl/" + string(rune('a'+i%26)) + string(rune('0'+i/26))}))
	}

	var mu sync.Mutex
	got := map[string]int{}
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				entry, ok := f.Next(context.Background())
				if !ok {
					return
				}
				mu.Lock()
				got[entry.CanonicalURL]++
				mu.Unlock()
				f.Done()
			}
		}()
	}
	wg.Wait()

	require.Len(t, got, entries)
	for url, count := range got {
		require.Equal(t, 1, count, "entry %s delivered more than once", url)
	}
}

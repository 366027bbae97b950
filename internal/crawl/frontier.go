package crawl

import (
	"context"
	"sync"
)

// Frontier is the crawl work queue. It deduplicates on canonical URL,
// serves priority entries first, enforces the page budget, and knows when the
// crawl is finished: queues drained and no entry still in flight.
type Frontier struct {
	mu        sync.Mutex
	cond      *sync.Cond
	priority  []Entry
	regular   []Entry
	visited   map[string]struct{}
	inflight  int
	scheduled int
	budget    int
	closed    bool
}

// NewFrontier builds a frontier with the given page budget. budget <= 0
// means unbounded.
func NewFrontier(budget int) *Frontier {
	f := &Frontier{
		visited: make(map[string]struct{}),
		budget:  budget,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Add schedules an entry unless its canonical URL was seen before or the page
// budget is spent. Reports whether the entry was accepted.
func (f *Frontier) Add(entry Entry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if f.budget > 0 && f.scheduled >= f.budget {
		return false
	}
	if _, seen := f.visited[entry.CanonicalURL]; seen {
		return false
	}
	f.visited[entry.CanonicalURL] = struct{}{}
	f.scheduled++

	if entry.Priority {
		f.priority = append(f.priority, entry)
	} else {
		f.regular = append(f.regular, entry)
	}
	f.cond.Signal()
	return true
}

// Seen reports whether the canonical URL was ever scheduled.
func (f *Frontier) Seen(canonicalURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.visited[canonicalURL]
	return ok
}

// Next blocks until an entry is available and returns it. The second return
// is false when the frontier is exhausted or the context ended. Every entry
// returned by Next must be matched by a Done call.
func (f *Frontier) Next(ctx context.Context) (Entry, bool) {
	stop := context.AfterFunc(ctx, func() {
		f.mu.Lock()
		f.cond.Broadcast()
		f.mu.Unlock()
	})
	defer stop()

	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		if ctx.Err() != nil || f.closed {
			return Entry{}, false
		}
		if len(f.priority) > 0 {
			entry := f.priority[0]
			f.priority = f.priority[1:]
			f.inflight++
			return entry, true
		}
		if len(f.regular) > 0 {
			entry := f.regular[0]
			f.regular = f.regular[1:]
			f.inflight++
			return entry, true
		}
		if f.inflight == 0 {
			f.closed = true
			f.cond.Broadcast()
			return Entry{}, false
		}
		f.cond.Wait()
	}
}

// Done marks one in-flight entry as finished. When the last in-flight entry
// finishes with nothing queued, the frontier closes and all waiters return.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inflight > 0 {
		f.inflight--
	}
	if f.inflight == 0 && len(f.priority) == 0 && len(f.regular) == 0 {
		f.closed = true
	}
	f.cond.Broadcast()
}

// Close shuts the frontier down; pending entries are discarded.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
}

// Stats returns the number of scheduled entries so far.
func (f *Frontier) Stats() (scheduled, queued int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduled, len(f.priority) + len(f.regular)
}

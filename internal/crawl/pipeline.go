package crawl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/odmbench/harvester/internal/extract"
	"github.com/odmbench/harvester/internal/identity"
	"github.com/odmbench/harvester/internal/normalize"
	"github.com/odmbench/harvester/internal/policy"
)

// Pipeline drives a harvest run: frontier scheduling, fetching, render
// escalation, extraction, normalization, and record emission.
type Pipeline struct {
	cfg        Config
	logger     *zap.Logger
	fetcher    Fetcher
	renderer   Renderer
	sink       RecordSink
	capture    Capture
	retry      RetryPolicy
	classifier *Classifier
	frontier   *Frontier
	extractor  *extract.Engine
	normalizer *normalize.Normalizer
	filter     *identity.Filter
	vocab      policy.Vocabulary
	hosts      policy.HostAllowlist
	runID      string
	categoryOK normalize.CategoryURLPredicate
	onOutcome  func(Outcome)

	escalated sync.Map

	emitMu  sync.Mutex
	emitted map[uint64]struct{}
}

// PipelineOption customizes pipeline construction.
type PipelineOption func(*Pipeline)

// WithRetryPolicy replaces the default exponential policy.
func WithRetryPolicy(p RetryPolicy) PipelineOption {
	return func(pl *Pipeline) { pl.retry = p }
}

// WithVocabulary replaces the default keyword vocabulary.
func WithVocabulary(v policy.Vocabulary) PipelineOption {
	return func(pl *Pipeline) { pl.vocab = v }
}

// WithCategoryURLPredicate replaces the category URL shape check used for
// link scheduling and breadcrumb validation.
func WithCategoryURLPredicate(pred normalize.CategoryURLPredicate) PipelineOption {
	return func(pl *Pipeline) {
		if pred != nil {
			pl.categoryOK = pred
		}
	}
}

// WithOutcomeHook registers a callback invoked after each processed entry.
func WithOutcomeHook(fn func(Outcome)) PipelineOption {
	return func(pl *Pipeline) { pl.onOutcome = fn }
}

// NewPipeline wires a harvest pipeline. renderer and capture may be nil;
// escalation and diagnostics are then skipped.
func NewPipeline(
	cfg Config,
	logger *zap.Logger,
	fetcher Fetcher,
	renderer Renderer,
	sink RecordSink,
	capture Capture,
	runID string,
	opts ...PipelineOption,
) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}

	categoryOK := normalize.DefaultCategoryURL
	if cfg.CategoryMarker != "" {
		categoryOK = normalize.CategoryURLWithMarker(cfg.CategoryMarker)
	}

	p := &Pipeline{
		cfg:        cfg,
		logger:     logger,
		fetcher:    fetcher,
		renderer:   renderer,
		sink:       sink,
		capture:    capture,
		retry:      NewExponentialRetryPolicy(),
		classifier: NewClassifier(cfg.MinUsableBytes),
		frontier:   NewFrontier(cfg.MaxPages),
		extractor:  extract.NewEngine(),
		vocab:      policy.DefaultVocabulary(),
		hosts:      policy.NewHostAllowlist(cfg.AllowedHosts),
		runID:      runID,
		categoryOK: categoryOK,
		emitted:    make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.normalizer = normalize.New(normalize.WithCategoryURLPredicate(p.categoryOK))
	p.filter = identity.NewFilter(p.vocab)
	return p, nil
}

// Run seeds the frontier and processes it with the configured worker pool.
// It returns once the frontier drains or the context ends.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, seed := range p.cfg.Seeds {
		canonical, err := Canonicalize(seed)
		if err != nil {
			return fmt.Errorf("seed %q: %w", seed, err)
		}
		p.frontier.Add(Entry{
			URL:          canonical,
			CanonicalURL: canonical,
			Kind:         KindListing,
			Priority:     p.vocab.IsPriority(canonical),
		})
	}

	if p.cfg.MaxRunTime > 0 {
		// Deadline closes the frontier instead of the context, so entries
		// already being processed still finish and emit.
		timer := time.AfterFunc(p.cfg.MaxRunTime, func() {
			p.logger.Info("run deadline reached, draining frontier")
			p.frontier.Close()
		})
		defer timer.Stop()
	}

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx)
		}()
	}
	wg.Wait()

	scheduled, _ := p.frontier.Stats()
	p.logger.Info("harvest finished",
		zap.String("run_id", p.runID),
		zap.Int("scheduled", scheduled),
		zap.Int("emitted", p.emittedCount()),
	)
	return ctx.Err()
}

func (p *Pipeline) work(ctx context.Context) {
	for {
		entry, ok := p.frontier.Next(ctx)
		if !ok {
			return
		}
		outcome := p.process(ctx, entry)
		p.frontier.Done()
		if p.onOutcome != nil {
			p.onOutcome(outcome)
		}
	}
}

func (p *Pipeline) process(ctx context.Context, entry Entry) Outcome {
	outcome := Outcome{Entry: entry}

	page, err := p.fetchWithRetry(ctx, entry)
	if err != nil {
		TotalFetchErrors.Inc()
		outcome.FetchErr = err
		p.logger.Warn("fetch failed",
			zap.String("url", entry.CanonicalURL),
			zap.Error(err),
		)
		return outcome
	}

	class := p.classifier.Classify(page)
	if class != ClassUsable {
		page, class = p.escalate(ctx, entry, page, class)
	}
	outcome.Class = class
	outcome.Tier = page.Tier
	outcome.Duration = page.Duration
	outcome.FetchedAt = page.FetchedAt
	PagesByClass.WithLabelValues(string(class)).Inc()

	if class != ClassUsable {
		p.capturePage(ctx, page, string(class))
		p.logger.Warn("page unusable",
			zap.String("url", entry.CanonicalURL),
			zap.String("class", string(class)),
			zap.Int("status_code", page.StatusCode),
			zap.String("tier", string(page.Tier)),
		)
		return outcome
	}

	doc, err := extract.NewPageDocument(entry.CanonicalURL, page.Body)
	if err != nil {
		outcome.FetchErr = fmt.Errorf("parse page: %w", err)
		p.logger.Warn("parse failed", zap.String("url", entry.CanonicalURL), zap.Error(err))
		return outcome
	}

	kind := ClassifyKind(doc.Doc, doc.LinkedData)
	outcome.Kind = kind
	PagesByKind.WithLabelValues(string(kind)).Inc()

	switch kind {
	case KindListing:
		outcome.Links = p.processListing(ctx, entry, page, doc)
	case KindProduct:
		outcome.Emitted, outcome.Rejected = p.processProduct(ctx, entry, page, doc)
	}
	return outcome
}

func (p *Pipeline) fetchWithRetry(ctx context.Context, entry Entry) (Page, error) {
	var page Page
	var err error
	for attempt := 0; ; attempt++ {
		TotalFetches.Inc()
		page, err = p.fetcher.Fetch(ctx, entry.CanonicalURL)
		status := page.StatusCode
		if err == nil && status < 500 {
			return page, nil
		}
		if !p.retry.ShouldRetry(err, status, attempt) {
			break
		}
		select {
		case <-ctx.Done():
			return Page{}, ctx.Err()
		case <-time.After(p.retry.Backoff(attempt)):
		}
	}
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// escalate re-fetches a blocked or empty page through the browser renderer.
// Each canonical URL escalates at most once per run.
func (p *Pipeline) escalate(ctx context.Context, entry Entry, page Page, class PageClass) (Page, PageClass) {
	if p.renderer == nil {
		return page, class
	}
	if _, already := p.escalated.LoadOrStore(entry.CanonicalURL, struct{}{}); already {
		return page, class
	}

	TotalRenders.Inc()
	rendered, err := p.renderer.Render(ctx, entry.CanonicalURL)
	if err != nil {
		p.logger.Warn("render failed",
			zap.String("url", entry.CanonicalURL),
			zap.Error(err),
		)
		return page, class
	}
	renderedClass := p.classifier.Classify(rendered)
	if renderedClass != ClassUsable {
		return rendered, renderedClass
	}
	p.logger.Debug("render recovered page",
		zap.String("url", entry.CanonicalURL),
		zap.String("initial_class", string(class)),
	)
	return rendered, ClassUsable
}

func (p *Pipeline) processListing(ctx context.Context, entry Entry, page Page, doc *extract.PageDocument) int {
	links := ExtractLinks(doc, entry.CanonicalURL, p.categoryOK)
	if links.Total() == 0 {
		p.capturePage(ctx, page, "linkless_listing")
		p.logger.Warn("listing yielded no links", zap.String("url", entry.CanonicalURL))
		return 0
	}

	for _, raw := range links.Products {
		p.schedule(Entry{
			URL:          raw,
			CanonicalURL: raw,
			Depth:        entry.Depth,
			Kind:         KindProduct,
			Priority:     entry.Priority,
		})
	}
	if entry.Depth < p.cfg.MaxDepth {
		for _, raw := range links.Categories {
			p.schedule(Entry{
				URL:          raw,
				CanonicalURL: raw,
				Depth:        entry.Depth + 1,
				Kind:         KindListing,
				Priority:     p.vocab.IsPriority(raw),
			})
		}
	}
	if links.NextPage != "" && PageNumber(links.NextPage) <= p.cfg.MaxListingPages {
		p.schedule(Entry{
			URL:          links.NextPage,
			CanonicalURL: links.NextPage,
			Depth:        entry.Depth,
			Kind:         KindListing,
			Priority:     entry.Priority,
		})
	}
	return links.Total()
}

// schedule adds an entry after host and accessory checks. Duplicates and
// budget overruns are dropped silently by the frontier.
func (p *Pipeline) schedule(entry Entry) {
	if !p.hosts.Allows(entry.CanonicalURL) {
		return
	}
	if term := p.vocab.AccessoryInURL(entry.CanonicalURL); term != "" {
		return
	}
	p.frontier.Add(entry)
}

func (p *Pipeline) processProduct(ctx context.Context, entry Entry, page Page, doc *extract.PageDocument) (emitted bool, rejected string) {
	raw := p.extractor.Extract(doc)
	rec := p.normalizer.Normalize(raw, p.runID, page.FetchedAt)
	identity.AssignKeys(&rec)

	ok, reason := p.filter.Check(&rec)
	if !ok {
		RecordsRejected.WithLabelValues(reason).Inc()
		p.logger.Debug("record rejected",
			zap.String("url", entry.CanonicalURL),
			zap.String("reason", reason),
		)
		return false, reason
	}

	p.emitMu.Lock()
	if _, dup := p.emitted[rec.ListingKey]; dup {
		p.emitMu.Unlock()
		return false, ""
	}
	p.emitted[rec.ListingKey] = struct{}{}
	p.emitMu.Unlock()

	if err := p.sink.Write(ctx, rec); err != nil {
		p.logger.Error("sink write failed",
			zap.String("url", entry.CanonicalURL),
			zap.Error(err),
		)
		return false, ""
	}
	RecordsEmitted.Inc()
	p.logger.Info("record emitted",
		zap.String("url", entry.CanonicalURL),
		zap.String("canonical_name", rec.CanonicalName),
		zap.Uint64("listing_key", rec.ListingKey),
	)
	return true, ""
}

func (p *Pipeline) capturePage(ctx context.Context, page Page, reason string) {
	if p.capture == nil || len(page.Body) == 0 {
		return
	}
	locator, err := p.capture.Save(ctx, page, reason)
	if err != nil {
		p.logger.Warn("capture failed", zap.String("url", page.URL), zap.Error(err))
		return
	}
	CapturesSaved.Inc()
	p.logger.Debug("page captured",
		zap.String("url", page.URL),
		zap.String("reason", reason),
		zap.String("locator", locator),
	)
}

func (p *Pipeline) emittedCount() int {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()
	return len(p.emitted)
}

// Snapshot is a point-in-time view of run progress.
type Snapshot struct {
	RunID     string `json:"run_id"`
	Scheduled int    `json:"scheduled"`
	Queued    int    `json:"queued"`
	Emitted   int    `json:"emitted"`
}

// Progress reports the current frontier and emission counters.
func (p *Pipeline) Progress() Snapshot {
	scheduled, queued := p.frontier.Stats()
	return Snapshot{
		RunID:     p.runID,
		Scheduled: scheduled,
		Queued:    queued,
		Emitted:   p.emittedCount(),
	}
}

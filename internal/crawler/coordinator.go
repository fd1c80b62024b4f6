package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/linkharvest/internal/config"
	"github.com/nao1215/linkharvest/internal/extract"
	"github.com/nao1215/linkharvest/internal/fetch"
	"github.com/nao1215/linkharvest/internal/model"
	"github.com/nao1215/linkharvest/internal/sink"
)

// ClientFactory creates the shared fetch client for one run.
// A factory failure is the run's only fatal error.
type ClientFactory func() (*fetch.Client, error)

// Coordinator drives one crawl batch: one fetch+parse hop per seed URL,
// results aggregated into a shared sink.
type Coordinator struct {
	// newClient builds the shared connection context at run start.
	newClient ClientFactory

	// extractor is shared by all units; it is stateless.
	extractor extract.Extractor

	// out receives every non-empty batch of discovered links.
	out sink.Sink

	// concurrency bounds the number of in-flight units.
	concurrency int

	// logger is handed down to the processor and used for run-level events.
	logger *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithConcurrency bounds the number of seed URLs processed at once.
// Values below one are ignored.
func WithConcurrency(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithCoordinatorLogger sets the run logger.
// If not set, slog.Default() is used.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithClientFactory replaces how the shared fetch client is built.
// The default factory creates a fetch.Client with default options;
// production callers pass a factory carrying their fetch options, and
// tests inject failing factories to exercise the setup-error path.
func WithClientFactory(factory ClientFactory) CoordinatorOption {
	return func(c *Coordinator) {
		c.newClient = factory
	}
}

// NewCoordinator creates a Coordinator writing to out.
func NewCoordinator(extractor extract.Extractor, out sink.Sink, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		newClient:   func() (*fetch.Client, error) { return fetch.NewClient() },
		extractor:   extractor,
		out:         out,
		concurrency: config.DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// CrawlAll processes every seed URL exactly once and waits for all of them
// before returning.
//
// It creates the shared fetch client, fans out one unit per seed with at
// most the configured number in flight, and tears the client down when the
// last unit completes. Per-URL failures are contained inside the units and
// collected into the returned RunReport; the only error CrawlAll itself
// returns is a failure to set up the shared client, which aborts the run
// before any unit is scheduled.
func (c *Coordinator) CrawlAll(ctx context.Context, seeds []string) (*model.RunReport, error) {
	report := &model.RunReport{
		Seeds:     len(seeds),
		StartedAt: time.Now(),
	}

	client, err := c.newClient()
	if err != nil {
		return nil, fmt.Errorf("failed to set up fetch client: %w", err)
	}
	defer client.Close()

	processor := NewProcessor(client, c.extractor, c.logger)

	c.logger.Info("starting crawl",
		"seeds", len(seeds),
		"concurrency", c.concurrency,
	)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, url := range seeds {
		url := url
		g.Go(func() error {
			links, failure := processor.Process(ctx, url)
			if failure != nil {
				mu.Lock()
				report.Failures = append(report.Failures, *failure)
				mu.Unlock()
				// The failure is contained; never cancel siblings.
				return nil
			}

			mu.Lock()
			report.Fetched++
			mu.Unlock()

			if links.Len() == 0 {
				return nil
			}

			if err := c.out.WriteBatch(url, links.Sorted()); err != nil {
				c.logger.Error("failed to write results",
					"url", url,
					"error", err,
				)
				mu.Lock()
				report.Failures = append(report.Failures, model.Failure{
					URL:    url,
					Kind:   model.FailureSinkWrite,
					Detail: err.Error(),
				})
				mu.Unlock()
				return nil
			}

			c.logger.Info("wrote results",
				"url", url,
				"count", links.Len(),
			)
			mu.Lock()
			report.Links += links.Len()
			mu.Unlock()
			return nil
		})
	}

	// Units never return errors, so Wait only observes completion.
	_ = g.Wait()

	report.Elapsed = time.Since(report.StartedAt)
	c.logger.Info("crawl complete",
		"seeds", report.Seeds,
		"fetched", report.Fetched,
		"links", report.Links,
		"failures", report.FailureCount(),
		"elapsed", report.Elapsed,
	)

	return report, nil
}

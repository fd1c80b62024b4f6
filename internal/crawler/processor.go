package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/linkharvest/internal/extract"
	"github.com/nao1215/linkharvest/internal/fetch"
	"github.com/nao1215/linkharvest/internal/model"
)

// Fetcher performs one GET request and returns the page body as text.
// *fetch.Client is the production implementation; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Processor handles one seed URL: fetch, then extract.
// It guarantees total failure isolation: no failure of any kind
// propagates past Process.
type Processor struct {
	// fetcher performs the single GET per URL.
	fetcher Fetcher

	// extractor finds links in the fetched page.
	extractor extract.Extractor

	// logger receives the per-URL diagnostics.
	logger *slog.Logger
}

// NewProcessor creates a Processor.
// If logger is nil, slog.Default() is used.
func NewProcessor(fetcher Fetcher, extractor extract.Extractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Process fetches url and extracts its links.
//
// It never fails outward: a fetch error or any unexpected internal failure
// is logged, reported through the returned Failure, and converted to an
// empty link set. A nil Failure means the page fetched and parsed
// successfully, possibly with zero links.
func (p *Processor) Process(ctx context.Context, url string) (links model.LinkSet, failure *model.Failure) {
	links = model.NewLinkSet()

	// A panic below this point is a bug in the pipeline, but one URL's
	// bug must not take down its siblings.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("unexpected failure while processing page",
				"url", url,
				"panic", fmt.Sprint(r),
			)
			links = model.NewLinkSet()
			failure = &model.Failure{
				URL:    url,
				Kind:   model.FailureInternal,
				Detail: fmt.Sprint(r),
			}
		}
	}()

	body, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		failure = classifyFetchError(url, err)
		p.logger.Error("fetch failed",
			"url", url,
			"kind", string(failure.Kind),
			"error", err,
		)
		return links, failure
	}

	links = p.extractor.Extract(body, url)
	p.logger.Info("extracted links",
		"url", url,
		"count", links.Len(),
	)
	return links, nil
}

// classifyFetchError maps a fetch error onto the run report's taxonomy.
func classifyFetchError(url string, err error) *model.Failure {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return &model.Failure{
			URL:    url,
			Kind:   model.FailureHTTPStatus,
			Detail: fmt.Sprintf("status %d", statusErr.StatusCode),
		}
	}

	var transportErr *fetch.TransportError
	if errors.As(err, &transportErr) {
		return &model.Failure{
			URL:    url,
			Kind:   model.FailureTransport,
			Detail: transportErr.Err.Error(),
		}
	}

	// Not part of the fetcher's contract; treat as internal.
	return &model.Failure{
		URL:    url,
		Kind:   model.FailureInternal,
		Detail: err.Error(),
	}
}

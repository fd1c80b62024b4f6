package extract

import (
	"log/slog"
	"net/url"

	"github.com/nao1215/linkharvest/internal/model"
)

// Extractor finds hyperlink targets in the text of one page.
// Implementations must be safe for concurrent use: one Extractor instance
// is shared by every in-flight page processor.
type Extractor interface {
	// Extract returns the set of absolute URLs referenced by hyperlink
	// markup in body, resolved against originURL. It never fails; pages
	// without links (or with an unparsable origin) yield an empty set.
	Extract(body, originURL string) model.LinkSet
}

// resolveRef resolves one href value against the parsed origin URL.
// Absolute URLs pass through unchanged; scheme-relative and path-relative
// values are joined against the origin per RFC 3986 reference resolution.
func resolveRef(origin *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return origin.ResolveReference(ref).String(), nil
}

// parseOrigin parses the origin URL, logging and signalling failure.
// Seeds are validated at load time, so this only trips on callers that
// bypass the seed loader.
func parseOrigin(originURL string, logger *slog.Logger) (*url.URL, bool) {
	origin, err := url.Parse(originURL)
	if err != nil {
		logger.Warn("cannot parse origin URL, returning empty link set",
			"url", originURL,
			"error", err,
		)
		return nil, false
	}
	return origin, true
}

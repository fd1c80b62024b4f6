package extract

import (
	"log/slog"
	"regexp"

	"github.com/nao1215/linkharvest/internal/model"
)

// hrefPattern matches double-quoted href attribute values anywhere in the
// page text. The scan is syntactic: it does not parse markup, so hrefs in
// comments or scripts match too, and single-quoted hrefs do not. That
// tolerance is part of the extractor's contract.
var hrefPattern = regexp.MustCompile(`href="(.*?)"`)

// PatternExtractor extracts links by scanning for the href="..." pattern.
// This is the default extractor.
type PatternExtractor struct {
	// logger receives one diagnostic event per dropped href value.
	logger *slog.Logger
}

// NewPatternExtractor creates a PatternExtractor.
// If logger is nil, slog.Default() is used.
func NewPatternExtractor(logger *slog.Logger) *PatternExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternExtractor{logger: logger}
}

// Extract scans body for href attribute values and resolves each against
// originURL. Values that fail to resolve are logged and dropped; they never
// abort extraction of the remaining links.
func (e *PatternExtractor) Extract(body, originURL string) model.LinkSet {
	found := model.NewLinkSet()

	origin, ok := parseOrigin(originURL, e.logger)
	if !ok {
		return found
	}

	for _, match := range hrefPattern.FindAllStringSubmatch(body, -1) {
		href := match[1]
		abs, err := resolveRef(origin, href)
		if err != nil {
			e.logger.Debug("dropping unresolvable href",
				"origin", originURL,
				"href", href,
				"error", err,
			)
			continue
		}
		found.Add(abs)
	}

	return found
}

package extract

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/linkharvest/internal/model"
)

// TokenExtractor extracts links by tokenizing the page as HTML and reading
// href attributes off anchor tags. Compared to PatternExtractor it ignores
// hrefs inside comments and scripts and handles any attribute quoting, at
// the cost of running a real tokenizer over the page.
//
// Design decision: We tokenize rather than build a full DOM because link
// extraction needs no tree structure, and the tokenizer never fails on
// malformed markup; it simply stops at end of input, which matches the
// "worst case: empty set" contract.
type TokenExtractor struct {
	logger *slog.Logger
}

// NewTokenExtractor creates a TokenExtractor.
// If logger is nil, slog.Default() is used.
func NewTokenExtractor(logger *slog.Logger) *TokenExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenExtractor{logger: logger}
}

// Extract tokenizes body and resolves the href of every anchor tag against
// originURL. Unresolvable values are logged and dropped.
func (e *TokenExtractor) Extract(body, originURL string) model.LinkSet {
	found := model.NewLinkSet()

	origin, ok := parseOrigin(originURL, e.logger)
	if !ok {
		return found
	}

	z := html.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// End of input or unrecoverable markup; either way we are done.
			return found
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if len(name) != 1 || name[0] != 'a' || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					abs, err := resolveRef(origin, string(val))
					if err != nil {
						e.logger.Debug("dropping unresolvable href",
							"origin", originURL,
							"href", string(val),
							"error", err,
						)
						break
					}
					found.Add(abs)
					break
				}
				if !more {
					break
				}
			}
		}
	}
}

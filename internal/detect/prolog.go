package detect

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

// prologPattern matches an XML 1.x declaration with optional encoding and
// standalone attributes, in that order.
var prologPattern = regexp.MustCompile(
	`<\?xml\s+version=["'](1\.[0-9])["']\s*(encoding=["']([^"']+)["'])?\s*(standalone=["'](yes|no)["'])?\s*\?>`,
)

// ParseProlog finds an XML declaration anywhere in text.
// It reports false if there is none.
func ParseProlog(text string) (*domain.PrologInfo, bool) {
	m := prologPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return &domain.PrologInfo{
		Version:          m[1],
		DeclaredEncoding: m[3],
		Standalone:       domain.Standalone(m[5]),
		Raw:              strings.TrimSpace(m[0]),
	}, true
}

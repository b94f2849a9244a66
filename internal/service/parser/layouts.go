package parser

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

// timestampLayouts is tried in order. Slash dates are day-first, matching the
// clock exports.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2/1/06 15:04:05",
	"2/1/06 15:04",
	"2006-01-02 3:04:05 PM",
	"2006-01-02 3:04 PM",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
}

// parseTimestamp collapses whitespace and tries every layout.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// identityCache resolves raw IDs and warns once per unresolved value per
// artifact.
type identityCache struct {
	resolver identity.Resolver
	artifact string
	seen     map[string]string
}

func newIdentityCache(resolver identity.Resolver, artifact string) *identityCache {
	return &identityCache{
		resolver: resolver,
		artifact: artifact,
		seen:     make(map[string]string),
	}
}

func (c *identityCache) resolve(raw string, line int, warnings *warning.List) string {
	if id, ok := c.seen[raw]; ok {
		return id
	}
	id, ok := c.resolver.Resolve(raw)
	if !ok {
		warnings.Add(warning.CodeUnresolvedIdentity, c.artifact, line, "identifier %q has no alias; kept as %q", raw, id)
	}
	c.seen[raw] = id
	return id
}

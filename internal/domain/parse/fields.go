package parse

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Field labels appear in model output as "**Label**: value" on a
// single line. Matching is case-insensitive and tolerates a missing
// colon.
var (
	fieldPatternMu sync.Mutex
	fieldPatterns  = map[string]*regexp.Regexp{}
)

func fieldPattern(label string) *regexp.Regexp {
	fieldPatternMu.Lock()
	defer fieldPatternMu.Unlock()
	re, ok := fieldPatterns[label]
	if !ok {
		re = regexp.MustCompile(`(?i)\*\*` + regexp.QuoteMeta(label) + `\*\*:?[ \t]*(.+)`)
		fieldPatterns[label] = re
	}
	return re
}

// extractField returns the value of a labeled field within a block, or
// "" when the label is absent.
func extractField(block, label string) string {
	m := fieldPattern(label).FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// splitList splits a comma-separated field value into trimmed items.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseScore parses a numeric field, returning def for anything that
// is not a plain integer.
func parseScore(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return n
}

// parseYes treats only an explicit "yes" as true.
func parseYes(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "yes")
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

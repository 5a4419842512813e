package listing

import "strings"

// MaxKeywords caps the merged keyword list on a canonical record.
const MaxKeywords = 10

// MergeKeywords merges keyword values from multiple sources into a single
// de-duplicated list capped at MaxKeywords. Duplicates are matched
// case-insensitively; the first-seen spelling wins. Sources may be
// []string, []any of strings, or a comma-separated string.
func MergeKeywords(sources ...any) []string {
	merged := make([]string, 0, MaxKeywords)
	seen := make(map[string]struct{})

	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" || len(merged) >= MaxKeywords {
			return
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		merged = append(merged, kw)
	}

	for _, src := range sources {
		switch v := src.(type) {
		case []string:
			for _, kw := range v {
				add(kw)
			}
		case []any:
			for _, e := range v {
				if s, ok := e.(string); ok {
					add(s)
				}
			}
		case string:
			for _, kw := range strings.Split(v, ",") {
				add(kw)
			}
		}
	}

	return merged
}

// collectKeywordSources gathers every known keyword-bearing field from an
// AI payload, in variant-list order.
func collectKeywordSources(data map[string]any) []any {
	sources := make([]any, 0, len(keywordFields))
	for _, f := range keywordFields {
		if v, ok := data[f]; ok && v != nil {
			sources = append(sources, v)
		}
	}
	return sources
}

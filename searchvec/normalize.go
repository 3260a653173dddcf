package searchvec

import "strings"

// Normalize trims every value, drops empty / whitespace-only entries
// and deduplicates by exact (case-sensitive) string equality. The
// result has set semantics: callers must not depend on its order.
func Normalize(values []string) []string {
	var out []string

	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		if _, dup := seen[v]; dup {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// KeywordBag flattens scalar and list inputs into a single keyword
// sequence used as the tier D index contribution. Values are trimmed
// and empty entries dropped but, unlike Normalize, duplicates are
// preserved: repeated keywords are harmless for index weighting.
func KeywordBag(scalars []string, lists ...[]string) []string {
	out := make([]string, 0, len(scalars))

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}

		out = append(out, v)
	}

	for _, v := range scalars {
		add(v)
	}

	for _, list := range lists {
		for _, v := range list {
			add(v)
		}
	}

	return out
}

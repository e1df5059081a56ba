package suggestions

import (
	"sort"
	"strings"
)

// Search returns the values containing query, case-insensitively. Prefix
// matches come first; ties keep their configured order.
func Search(values []string, query string, limit int, opts Options) []string {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(values) <= limit {
				return append([]string{}, values...)
			}
			return append([]string{}, values[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedValue, 0, len(values))
	for _, value := range values {
		lower := strings.ToLower(value)
		if !strings.Contains(lower, q) {
			continue
		}
		matches = append(matches, matchedValue{
			name:     value,
			isPrefix: strings.HasPrefix(lower, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.name)
	}
	return out
}

func SearchOptions(values []string, query string, limit int, opts Options) []Option {
	results := Search(values, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, value := range results {
		out = append(out, Option{Value: value, Label: value})
	}
	return out
}

type matchedValue struct {
	name     string
	isPrefix bool
}

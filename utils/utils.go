package utils

import (
	"sort"
	"strings"
)

// UniqueSorted drops empty and duplicate strings and sorts the remainder.
func UniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// SplitList splits a joined list and trims each item, dropping empties.
func SplitList(joined string, sep string) []string {
	var out []string
	for _, item := range strings.Split(joined, sep) {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

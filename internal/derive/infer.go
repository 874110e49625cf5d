package derive

import (
	"strconv"
	"strings"
)

// InferDefault picks the most frequent non-empty candidate. Ties go to the
// smaller numeric key; when either side is not numeric the lexically
// smaller one wins. ok is false when there is nothing to pick from.
func InferDefault(candidates []string) (value string, ok bool) {
	counts := map[string]int{}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		counts[c]++
	}

	best, bestCount := "", 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && lessKey(v, best)) {
			best, bestCount = v, n
		}
	}
	return best, bestCount > 0
}

// FirstMatch returns the first non-empty candidate.
func FirstMatch(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c, true
		}
	}
	return "", false
}

func lessKey(a, b string) bool {
	na, errA := numericKey(a)
	nb, errB := numericKey(b)
	if errA == nil && errB == nil && na != nb {
		return na < nb
	}
	return a < b
}

// numericKey reads the leading integer of a key, so "2022-2023" sorts by
// 2022 and "3" by 3.
func numericKey(s string) (int, error) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return strconv.Atoi(s[:end])
}

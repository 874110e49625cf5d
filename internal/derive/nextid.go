// Package derive holds the best-effort default inference used by the
// forms: next ids, majority picks, academic years, semester expansion.
// Nothing here is authoritative; every value can be overridden.
package derive

import (
	"fmt"
	"regexp"
	"strconv"
)

const defaultIDWidth = 3

// NextID returns PREFIX_(max+1) over the existing ids that match
// PREFIX_<digits>, zero-padded to the widest suffix seen (at least 3).
// With no matching ids it returns PREFIX_001.
//
// The result is advisory: two concurrent creates can compute the same id
// and the backend decides which one wins.
func NextID(prefix string, existing []string) string {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `_(\d+)$`)

	maxN, width, found := 0, defaultIDWidth, false
	for _, id := range existing {
		m := re.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = true
		if n > maxN {
			maxN = n
		}
		if len(m[1]) > width {
			width = len(m[1])
		}
	}

	if !found {
		return fmt.Sprintf("%s_%0*d", prefix, defaultIDWidth, 1)
	}
	return fmt.Sprintf("%s_%0*d", prefix, width, maxN+1)
}

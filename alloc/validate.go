// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package alloc

import (
	"fmt"
	"strconv"
	"strings"
)

// minParseRatio is the share of cells that must parse as numbers before a
// column is usable as a vote count.
const minParseRatio = 0.5

// ParseCount coerces one raw cell into a number. Thousands-separator commas
// and stray whitespace are stripped first. Unparseable cells are missing,
// not zero.
func ParseCount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ValidateVoteField checks that a column's raw values are usable as a
// numeric, non-negative vote count. The result is advisory: the upload flow
// may still fall back to manual column selection on failure.
func ValidateVoteField(values []string) (bool, string) {
	var valid int
	minSeen := 0.0
	for _, raw := range values {
		v, ok := ParseCount(raw)
		if !ok {
			continue
		}
		if valid == 0 || v < minSeen {
			minSeen = v
		}
		valid++
	}

	total := len(values)
	if valid == 0 {
		return false, "no numeric values found"
	}
	if float64(valid) < float64(total)*minParseRatio {
		return false, fmt.Sprintf("only %d of %d values are numeric", valid, total)
	}
	if minSeen < 0 {
		return false, fmt.Sprintf("negative value %g found; vote counts must be non-negative", minSeen)
	}
	return true, fmt.Sprintf("%d of %d values are numeric", valid, total)
}

// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package alloc

import "strings"

// canonicalVoteFields are exact column names known to carry the vote-count
// base, highest priority first. The historical "45% PVC COLLECTION" sheets
// outrank generic vote/turnout spellings.
var canonicalVoteFields = []string{
	"45% PVC COLLECTION",
	"45% OF PVC COLLECTED",
	"VOTES CAST",
	"TOTAL VOTES CAST",
	"VOTES",
	"TOTAL VOTES",
	"ACCREDITED VOTERS",
	"VOTER TURNOUT",
	"TURNOUT",
}

// voteKeywords mark a column as vote-bearing on substring match.
var voteKeywords = []string{
	"vote", "accreditation", "cast", "ballot", "turn", "accredited",
}

// nonVoteTerms exclude known identity and registration columns from the
// tier-3 heuristic. Substring match on the normalized name.
var nonVoteTerms = []string{
	"s/no", "s/n", "sno", "serial", "state", "lga", "ward", "delim",
	"regist", "pvc", "balance",
}

// nonVoteExact excludes short codes that substring matching cannot handle.
var nonVoteExact = []string{"ra", "no", "sn", "id"}

// countingTerms suggest a numeric column in the tier-3 heuristic.
var countingTerms = []string{"number", "count", "total", "no", "num"}

// DetectVoteField picks the single column that supplies the vote-count base
// for an import. Three tiers, first hit wins:
//
//  1. exact match against canonicalVoteFields, in priority order
//  2. first column containing a vote keyword, in input order
//  3. first non-excluded column containing a counting term, in input order
//
// Matching is case-insensitive and ignores surrounding whitespace. The
// matched column is returned in its original input spelling. Returns false
// when nothing matches or columns is empty.
func DetectVoteField(columns []string) (string, bool) {
	norm := make([]string, len(columns))
	for i, c := range columns {
		norm[i] = strings.ToLower(strings.TrimSpace(c))
	}

	for _, want := range canonicalVoteFields {
		target := strings.ToLower(want)
		for i, c := range norm {
			if c == target {
				return columns[i], true
			}
		}
	}

	for i, c := range norm {
		for _, kw := range voteKeywords {
			if strings.Contains(c, kw) {
				return columns[i], true
			}
		}
	}

	for i, c := range norm {
		if isNonVoteColumn(c) {
			continue
		}
		for _, term := range countingTerms {
			if strings.Contains(c, term) {
				return columns[i], true
			}
		}
	}

	return "", false
}

func isNonVoteColumn(normalized string) bool {
	for _, term := range nonVoteTerms {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	for _, exact := range nonVoteExact {
		if normalized == exact {
			return true
		}
	}
	return false
}

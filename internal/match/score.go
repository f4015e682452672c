// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Score ranks catalog entries against request by keyword overlap and returns
// at most topN filenames. It is deterministic and has no side effects.
//
// Each filename contributes a token set (".pdf" stripped, underscores read
// as spaces, split on whitespace, lowercased). A form's score is the summed
// length of its tokens that occur anywhere in the lowercased request, so long
// specific words outweigh short generic ones. Forms scoring zero are dropped
// and ties keep catalog order. When nothing scores, the first topN catalog
// entries are returned.
func Score(request string, catalog []string, topN int) []string {
	if topN <= 0 || len(catalog) == 0 {
		return nil
	}
	req := strings.ToLower(request)

	type scored struct {
		name  string
		score int
	}
	var ranked []scored
	for _, name := range catalog {
		s := 0
		for _, tok := range tokens(name) {
			if strings.Contains(req, tok) {
				s += utf8.RuneCountInString(tok)
			}
		}
		if s > 0 {
			ranked = append(ranked, scored{name: name, score: s})
		}
	}

	if len(ranked) == 0 {
		return head(catalog, topN)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]string, 0, min(topN, len(ranked)))
	for _, r := range ranked {
		if len(out) == topN {
			break
		}
		out = append(out, r.name)
	}
	return out
}

// tokens returns the distinct lowercased words of a form filename.
func tokens(filename string) []string {
	stem := filename
	if strings.HasSuffix(strings.ToLower(stem), ".pdf") {
		stem = stem[:len(stem)-len(".pdf")]
	}
	stem = strings.ReplaceAll(stem, "_", " ")

	seen := make(map[string]bool)
	var out []string
	for _, f := range strings.Fields(strings.ToLower(stem)) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// head returns a copy of the first n entries of list.
func head(list []string, n int) []string {
	n = min(n, len(list))
	out := make([]string, n)
	copy(out, list[:n])
	return out
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match ranks the downloaded forms against a free-text request.
//
// A Suggester (normally a language model) is asked for the best filenames.
// Its answer is parsed line by line and checked against the catalog so that
// only real filenames reach the caller. When the Suggester fails or comes
// back short, deterministic keyword scoring (Score) supplies the result.
// Match never returns an error: every failure ends in a fallback result.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/pdiddy/formfinder/pkg/types"
)

// Suggester produces a free-text answer for a prompt. Implementations are
// expected to return one filename per line.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

// SuggesterFunc adapts a function to the Suggester interface.
type SuggesterFunc func(ctx context.Context, prompt string) (string, error)

// Suggest calls f.
func (f SuggesterFunc) Suggest(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Matcher combines a Suggester with catalog validation and fallback scoring.
type Matcher struct {
	// Suggester may be nil, in which case every match uses fallback scoring.
	Suggester Suggester

	// Policy applies when fewer than topN suggestions survive validation.
	// The zero value behaves as types.PolicyStrict.
	Policy types.Policy

	// Timeout bounds the Suggester call. Zero means no added deadline.
	Timeout time.Duration
}

// New returns a Matcher using s and the policy and timeout from cfg.
func New(s Suggester, cfg types.MatchConfig) *Matcher {
	return &Matcher{
		Suggester: s,
		Policy:    cfg.Policy,
		Timeout:   cfg.AIConfig.Timeout,
	}
}

// Match returns up to topN catalog filenames for request, best first.
//
// An empty catalog returns a types.SourceNone result without calling the
// Suggester. Otherwise the Suggester's validated answer is used when it
// yields topN filenames. A failed call, a panic inside the Suggester, or a
// short answer switches to Score; under types.PolicyBlend a short answer
// keeps its valid picks and Score fills the remaining slots.
func (m *Matcher) Match(ctx context.Context, request string, catalog []string, topN int) types.MatchResult {
	request = strings.TrimSpace(request)
	result := types.MatchResult{Request: request, Source: types.SourceNone}
	if len(catalog) == 0 {
		return result
	}
	if topN <= 0 {
		topN = 1
	}

	picks, err := m.suggest(ctx, request, catalog, topN)
	if err != nil {
		return fallback(result, catalog, topN, nil, fmt.Sprintf("match service unavailable: %v", err))
	}
	if len(picks) < topN {
		reason := fmt.Sprintf("match service returned %d usable of %d requested filenames", len(picks), topN)
		if m.Policy == types.PolicyBlend {
			return fallback(result, catalog, topN, picks, reason)
		}
		return fallback(result, catalog, topN, nil, reason)
	}

	result.Forms = picks[:topN]
	result.Source = types.SourceModel
	return result
}

// suggest asks the Suggester for topN filenames and returns the ones that
// validate against catalog. A panic in the Suggester is returned as an error.
func (m *Matcher) suggest(ctx context.Context, request string, catalog []string, topN int) (picks []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			picks, err = nil, fmt.Errorf("suggester panic: %v", r)
		}
	}()

	if m.Suggester == nil {
		return nil, errors.New("no suggester configured")
	}

	prompt, err := renderPrompt(request, catalog, topN)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	raw, err := m.Suggester.Suggest(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return Validate(ParseResponse(raw, topN), catalog), nil
}

// fallback fills result from Score. With no picks the result is exactly
// Score's ranking. Otherwise picks come first, then scored forms, then the
// rest of the catalog in order, until topN slots are filled.
func fallback(result types.MatchResult, catalog []string, topN int, picks []string, reason string) types.MatchResult {
	slog.Debug("using fallback scoring", "reason", reason, "kept", len(picks))
	result.Reason = reason

	if len(picks) == 0 {
		result.Forms = Score(result.Request, catalog, topN)
		result.Source = types.SourceFallback
		return result
	}

	forms := slices.Clone(picks)
	rest := append(Score(result.Request, catalog, len(catalog)), catalog...)
	for _, name := range rest {
		if len(forms) == topN {
			break
		}
		if !slices.Contains(forms, name) {
			forms = append(forms, name)
		}
	}
	result.Forms = forms
	result.Source = types.SourceBlend
	return result
}

// ParseResponse splits a raw model answer into trimmed, non-empty lines and
// keeps at most the first topN.
func ParseResponse(raw string, topN int) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if len(out) == topN {
			break
		}
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Validate maps candidates onto catalog entries. A candidate equal to a
// catalog entry is taken as is. Any other candidate resolves to the first
// catalog entry, in catalog order, that it contains or is contained by,
// ignoring case. Each catalog entry is used at most once; candidates that
// resolve to nothing are dropped.
func Validate(candidates, catalog []string) []string {
	accepted := make(map[string]bool)
	var out []string

	for _, cand := range candidates {
		if slices.Contains(catalog, cand) {
			if !accepted[cand] {
				accepted[cand] = true
				out = append(out, cand)
			}
			continue
		}

		lc := strings.ToLower(cand)
		resolved := ""
		for _, entry := range catalog {
			if accepted[entry] {
				continue
			}
			le := strings.ToLower(entry)
			if strings.Contains(lc, le) || strings.Contains(le, lc) {
				resolved = entry
				break
			}
		}
		if resolved == "" {
			slog.Debug("discarding unknown suggestion", "candidate", cand)
			continue
		}
		accepted[resolved] = true
		out = append(out, resolved)
	}
	return out
}

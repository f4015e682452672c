// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the formfinder pipeline:
// downloaded forms, the catalog contract between fetch and match, and match
// results.
package types

// DefaultFormsDir is the flat directory, relative to the working directory,
// that fetch writes into and match lists. Both stages must agree on it.
const DefaultFormsDir = "downloaded_forms"

// FormFile describes one PDF saved by the fetch stage.
type FormFile struct {
	// Filename is the on-disk name, derived from LinkText by sanitization.
	Filename string `json:"filename" yaml:"filename"`

	// LinkText is the anchor text the filename was derived from.
	LinkText string `json:"link_text" yaml:"link_text"`

	// SourceURL is the absolute URL the PDF was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`
}

// MatchSource records which path produced a MatchResult.
type MatchSource string

const (
	// SourceModel means the language model's answer passed validation.
	SourceModel MatchSource = "model"
	// SourceFallback means keyword scoring produced the result.
	SourceFallback MatchSource = "fallback"
	// SourceBlend means validated model picks were topped up by keyword scoring.
	SourceBlend MatchSource = "blend"
	// SourceNone means there was nothing to match against.
	SourceNone MatchSource = "none"
)

// MatchResult is a ranked shortlist of catalog filenames. Every entry in
// Forms is a member of the catalog it was matched against; Forms[0] is the
// top recommendation.
type MatchResult struct {
	Request string      `json:"request" yaml:"request"`
	Forms   []string    `json:"forms" yaml:"forms"`
	Source  MatchSource `json:"source" yaml:"source"`

	// Reason explains why fallback scoring was used. Empty for model results.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Top returns the first recommendation, or "" when Forms is empty.
func (r MatchResult) Top() string {
	if len(r.Forms) == 0 {
		return ""
	}
	return r.Forms[0]
}

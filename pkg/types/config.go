package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds each HTTP request (the page fetch and every PDF download).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "formfinder/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageURL is the finance-forms page scraped for PDF links.
	PageURL string `json:"page_url" yaml:"page_url"`

	// FormsDir is the flat directory PDFs are written to.
	FormsDir string `json:"forms_dir" yaml:"forms_dir"`

	// DownloadDelay is the minimum spacing between consecutive PDF downloads.
	// Zero disables pacing.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`
}

// AIConfig holds settings for the language-model call made by the match stage.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds a single model call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Mode selects how many suggestions a match returns.
type Mode string

const (
	ModeSingle    Mode = "single"
	ModeShortlist Mode = "shortlist"
)

// TopN returns the number of suggestions for the mode.
func (m Mode) TopN() int {
	if m == ModeSingle {
		return 1
	}
	return 3
}

// ParseMode validates a mode name. An empty string selects ModeShortlist.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeShortlist:
		return ModeShortlist, nil
	case ModeSingle:
		return ModeSingle, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeSingle, ModeShortlist)
	}
}

// Policy decides what happens when the model returns fewer valid filenames
// than requested.
type Policy string

const (
	// PolicyStrict discards partial model answers and uses fallback scoring
	// for the full result.
	PolicyStrict Policy = "strict"
	// PolicyBlend keeps the validated model picks and fills the remaining
	// slots from fallback scoring.
	PolicyBlend Policy = "blend"
)

// ParsePolicy validates a policy name. An empty string selects PolicyStrict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyBlend:
		return PolicyBlend, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want %q or %q)", s, PolicyStrict, PolicyBlend)
	}
}

// MatchConfig holds settings for the match stage.
type MatchConfig struct {
	AIConfig `yaml:",inline"`

	// FormsDir is the directory listed to build the catalog.
	FormsDir string `json:"forms_dir" yaml:"forms_dir"`

	Mode   Mode   `json:"mode" yaml:"mode"`
	Policy Policy `json:"policy" yaml:"policy"`
}

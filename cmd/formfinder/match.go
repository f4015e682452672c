// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/formfinder/internal/catalog"
	"github.com/pdiddy/formfinder/internal/match"
	"github.com/pdiddy/formfinder/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match [request...]",
	Short: "Suggest the downloaded forms that best fit a request",
	Long: `Match reads a plain-language description of the document you need (from
the arguments, or one line from standard input) and ranks the downloaded
forms against it. Claude picks the forms when an API key is available;
otherwise, or when its answer does not name real forms, keyword scoring
ranks them instead.

Modes: "single" returns the best form, "shortlist" returns three.
Policies: "strict" replaces a short model answer entirely with keyword
scoring; "blend" keeps the model's valid picks and fills the rest.`,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.String("mode", string(types.ModeShortlist), "single or shortlist")
	f.String("policy", string(types.PolicyStrict), "strict or blend")
	f.String("model", match.DefaultModel, "Claude model identifier")
	f.Duration("ai-timeout", defaultTimeout, "timeout for the model call")

	bindFlag("mode", f.Lookup("mode"))
	bindFlag("policy", f.Lookup("policy"))
	bindFlag("ai.model", f.Lookup("model"))
	bindFlag("ai.timeout", f.Lookup("ai-timeout"))

	rootCmd.AddCommand(matchCmd)
}

// newSuggester builds the model backend. Tests replace it.
var newSuggester = func(cfg types.AIConfig) match.Suggester {
	return &match.ClaudeBackend{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Client: &http.Client{},
	}
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := matchConfig()
	if err != nil {
		return err
	}
	return matchForms(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), noticeWriter(cmd), args, cfg, newSuggester(cfg.AIConfig))
}

// matchForms runs one interactive match. The result goes to out; the prompt
// and notices go to notes. Every data condition (no forms, empty request,
// fallback) ends in a message and a nil error.
func matchForms(ctx context.Context, in io.Reader, out, notes io.Writer, args []string, cfg types.MatchConfig, s match.Suggester) error {
	empty := types.MatchResult{Forms: []string{}, Source: types.SourceNone}

	names, err := catalog.List(cfg.FormsDir, notes)
	if err != nil {
		fmt.Fprintf(notes, "Could not read forms: %v\n", err)
		names = nil
	}
	if len(names) == 0 {
		fmt.Fprintln(notes, "No forms available. Run \"formfinder fetch\" first to download them.")
		return writeOutput(out, empty, func() {})
	}

	request := strings.TrimSpace(strings.Join(args, " "))
	if request == "" {
		request, err = readRequest(in, notes)
		if err != nil {
			return err
		}
	}
	if request == "" {
		fmt.Fprintln(notes, "No request given.")
		return writeOutput(out, empty, func() {})
	}

	m := match.New(s, cfg)
	result := m.Match(ctx, request, names, cfg.Mode.TopN())

	return writeOutput(out, result, func() {
		printMatch(out, result)
	})
}

// readRequest prompts on out and reads one line from in.
func readRequest(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Describe the form you need: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading request: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printMatch(w io.Writer, r types.MatchResult) {
	if r.Source == types.SourceFallback || r.Source == types.SourceBlend {
		fmt.Fprintf(w, "Note: ranked by keyword matching (%s).\n", r.Reason)
	}
	if len(r.Forms) == 0 {
		fmt.Fprintln(w, "No matching forms found.")
		return
	}
	fmt.Fprintf(w, "\nSuggested forms for %q:\n", r.Request)
	for i, name := range r.Forms {
		marker := ""
		if i == 0 {
			marker = "  (recommended)"
		}
		fmt.Fprintf(w, "%2d. %s%s\n", i+1, name, marker)
	}
}

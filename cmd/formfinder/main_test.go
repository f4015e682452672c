// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/formfinder/internal/match"
	"github.com/pdiddy/formfinder/pkg/types"
)

// resetFlags puts every flag of cmd and its subcommands back to its default.
// rootCmd and viper are package globals, so each run must leave them clean.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs rootCmd with args and stdin, returning what it wrote
// to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func stubSuggester(t *testing.T, answer string) {
	t.Helper()
	orig := newSuggester
	newSuggester = func(types.AIConfig) match.Suggester {
		return match.SuggesterFunc(func(context.Context, string) (string, error) {
			return answer, nil
		})
	}
	t.Cleanup(func() { newSuggester = orig })
}

func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/forms/":
			fmt.Fprint(w, `<a href="/files/t.pdf">Travel Reimbursement</a><a href="/files/p.pdf">Petty Cash</a>`)
		case strings.HasPrefix(r.URL.Path, "/files/"):
			fmt.Fprint(w, "%PDF-1.4")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFetchCommandYAMLOutput(t *testing.T) {
	ts := newPageServer(t)
	dir := filepath.Join(t.TempDir(), "forms")

	stdout, stderr, err := executeCommand(t, "",
		"fetch", "--page-url", ts.URL+"/forms/", "--forms-dir", dir, "--format", "yaml")
	require.NoError(t, err)

	var forms []types.FormFile
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &forms), "stdout must be pure YAML:\n%s", stdout)
	require.Len(t, forms, 2)
	assert.Equal(t, "Travel_Reimbursement.pdf", forms[0].Filename)
	assert.Equal(t, "Petty_Cash.pdf", forms[1].Filename)

	assert.NotContains(t, stdout, "downloading:")
	assert.Contains(t, stderr, "downloading: Travel_Reimbursement.pdf")
	assert.Contains(t, stderr, "Fetch summary:")
}

func TestFetchCommandTextOutput(t *testing.T) {
	ts := newPageServer(t)
	dir := filepath.Join(t.TempDir(), "forms")

	stdout, _, err := executeCommand(t, "", "fetch", "--page-url", ts.URL+"/forms/", "--forms-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "downloading: Petty_Cash.pdf")
	assert.Contains(t, stdout, " 1. Travel_Reimbursement.pdf")
}

func TestFetchCommandPageFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	tests := []struct {
		name   string
		format string
		// notices is "stdout" or "stderr": where the failure message lands.
		notices string
	}{
		{"text", "text", "stdout"},
		{"yaml", "yaml", "stderr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "forms")
			stdout, stderr, err := executeCommand(t, "",
				"fetch", "--page-url", ts.URL, "--forms-dir", dir, "--format", tt.format)
			require.NoError(t, err, "a page failure is reported, not returned")

			notices := stdout
			if tt.notices == "stderr" {
				notices = stderr
			}
			assert.Contains(t, notices, "Failed to access the forms page")
			assert.Contains(t, notices, "503")
			assert.Contains(t, notices, "No forms downloaded.")

			if tt.format == "yaml" {
				var forms []types.FormFile
				require.NoError(t, yaml.Unmarshal([]byte(stdout), &forms))
				assert.Empty(t, forms)
			}
		})
	}
}

func TestMatchCommandYAMLOutput(t *testing.T) {
	dir := formsDirWith(t, "Budget_Transfer.pdf", "Petty_Cash.pdf", "Travel_Reimbursement.pdf")
	stubSuggester(t, "Travel_Reimbursement.pdf")

	stdout, stderr, err := executeCommand(t, "travel expenses\n",
		"match", "--forms-dir", dir, "--mode", "single", "--format", "yaml")
	require.NoError(t, err)

	var result types.MatchResult
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &result), "stdout must be pure YAML:\n%s", stdout)
	assert.Equal(t, "travel expenses", result.Request)
	assert.Equal(t, []string{"Travel_Reimbursement.pdf"}, result.Forms)
	assert.Equal(t, types.SourceModel, result.Source)

	assert.NotContains(t, stdout, "Describe the form you need")
	assert.Contains(t, stderr, "Describe the form you need")
}

func TestMatchCommandYAMLNoForms(t *testing.T) {
	stubSuggester(t, "")
	dir := filepath.Join(t.TempDir(), "missing")

	stdout, stderr, err := executeCommand(t, "", "match", "--forms-dir", dir, "--format", "yaml", "budget")
	require.NoError(t, err)

	var result types.MatchResult
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, types.SourceNone, result.Source)
	assert.Empty(t, result.Forms)
	assert.Contains(t, stderr, "formfinder fetch")
}

func TestConfigFlagHelpNamesSearchedFile(t *testing.T) {
	usage := rootCmd.PersistentFlags().Lookup("config").Usage
	assert.Contains(t, usage, "./formfinder.yaml")
	assert.Contains(t, usage, "~/.config/formfinder/formfinder.yaml")
	assert.NotContains(t, usage, "config.yaml")
}

func TestFetchHelpDescribesLinkText(t *testing.T) {
	assert.Contains(t, fetchCmd.Long, "Petty_Cash_Request.pdf")
	assert.Contains(t, fetchCmd.Long, "Petty_CashRequest.pdf")
}

func TestMain(m *testing.M) {
	// Keep a developer's real .secrets/ and formfinder.yaml out of the runs.
	dir, err := os.MkdirTemp("", "formfinder-cmd")
	if err != nil {
		panic(err)
	}
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/formfinder/internal/match"
	"github.com/pdiddy/formfinder/pkg/types"
)

func formsDirWith(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4"), 0o644))
	}
	return dir
}

func countingSuggester(answer string, err error, calls *int) match.Suggester {
	return match.SuggesterFunc(func(context.Context, string) (string, error) {
		*calls++
		return answer, err
	})
}

func TestMatchFormsEmptyCatalog(t *testing.T) {
	calls := 0
	cfg := types.MatchConfig{FormsDir: filepath.Join(t.TempDir(), "downloaded_forms"), Mode: types.ModeShortlist}

	var out bytes.Buffer
	err := matchForms(context.Background(), strings.NewReader("travel\n"), &out, &out, nil, cfg, countingSuggester("x", nil, &calls))
	require.NoError(t, err)

	assert.Contains(t, out.String(), `Run "formfinder fetch" first`)
	assert.Zero(t, calls)
}

func TestMatchFormsReadsRequestFromStdin(t *testing.T) {
	calls := 0
	dir := formsDirWith(t, "Petty_Cash_Request.pdf", "Travel_Reimbursement.pdf")
	cfg := types.MatchConfig{FormsDir: dir, Mode: types.ModeSingle}

	var out bytes.Buffer
	err := matchForms(context.Background(), strings.NewReader("I need to reimburse my travel expenses\n"), &out, &out, nil, cfg,
		countingSuggester("", errors.New("offline"), &calls))
	require.NoError(t, err)

	got := out.String()
	assert.Equal(t, 1, calls)
	assert.Contains(t, got, "Describe the form you need: ")
	assert.Contains(t, got, "Note: ranked by keyword matching")
	assert.Contains(t, got, " 1. Travel_Reimbursement.pdf  (recommended)")
	assert.NotContains(t, got, "Petty_Cash_Request.pdf")
}

func TestMatchFormsArgsAndModelAnswer(t *testing.T) {
	calls := 0
	dir := formsDirWith(t, "A_Form.pdf", "B_Form.pdf", "C_Form.pdf", "D_Form.pdf")
	cfg := types.MatchConfig{FormsDir: dir, Mode: types.ModeShortlist}

	var out bytes.Buffer
	err := matchForms(context.Background(), strings.NewReader(""), &out, &out, []string{"something", "specific"}, cfg,
		countingSuggester("D_Form.pdf\nB_Form.pdf\nA_Form.pdf", nil, &calls))
	require.NoError(t, err)

	got := out.String()
	assert.NotContains(t, got, "Describe the form")
	assert.NotContains(t, got, "Note:")
	assert.Contains(t, got, `Suggested forms for "something specific"`)
	assert.Contains(t, got, " 1. D_Form.pdf  (recommended)\n 2. B_Form.pdf\n 3. A_Form.pdf\n")
}

func TestMatchFormsEmptyRequest(t *testing.T) {
	calls := 0
	dir := formsDirWith(t, "A_Form.pdf")
	cfg := types.MatchConfig{FormsDir: dir, Mode: types.ModeSingle}

	var out bytes.Buffer
	err := matchForms(context.Background(), strings.NewReader("   \n"), &out, &out, nil, cfg, countingSuggester("", nil, &calls))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No request given.")
	assert.Zero(t, calls)
}

func TestReadRequestWithoutNewline(t *testing.T) {
	got, err := readRequest(strings.NewReader("  budget transfer  "), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "budget transfer", got)
}

func TestPrintNumbered(t *testing.T) {
	var buf bytes.Buffer
	printNumbered(&buf, "Downloaded forms", []string{"A.pdf", "B.pdf"})
	assert.Equal(t, "\nDownloaded forms (2 files):\n 1. A.pdf\n 2. B.pdf\n", buf.String())

	buf.Reset()
	printNumbered(&buf, "Downloaded forms", nil)
	assert.Equal(t, "No downloaded forms found.\n", buf.String())
}

// Package fetch scrapes the finance-forms page for PDF links and saves each
// PDF under a filename derived from its link text.
//
// Downloads run one at a time. A failed link is reported and skipped; only a
// failure to load the page itself stops the run.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/formfinder/internal/httputil"
	"github.com/pdiddy/formfinder/pkg/types"
)

// DefaultPageURL is the finance-forms page scraped when none is configured.
const DefaultPageURL = "https://business.fhda.edu/finance-forms/"

// FetchError reports that the forms page itself could not be loaded.
// StatusCode is zero when no HTTP response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching forms page %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching forms page %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// BatchResult holds the outcome of one fetch run.
type BatchResult struct {
	// Forms lists the successfully written forms in discovery order.
	Forms []types.FormFile

	Downloaded int
	Failed     int

	// Collisions counts links whose filename had already been written
	// earlier in the same run.
	Collisions int
}

// Total returns the number of PDF links attempted.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Failed
}

// HasFailures reports whether any download failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Filenames returns the written filenames in discovery order.
func (r BatchResult) Filenames() []string {
	names := make([]string, 0, len(r.Forms))
	for _, f := range r.Forms {
		names = append(names, f.Filename)
	}
	return names
}

// Forms loads cfg.PageURL, finds its PDF links and downloads each into
// cfg.FormsDir. Progress lines are written to w.
//
// A page that cannot be loaded yields an empty result and a *FetchError.
// Individual download failures are counted in the result and never returned
// as an error. A second link that maps to an already-written filename
// overwrites it; the collision is reported on w.
func Forms(ctx context.Context, client *http.Client, cfg types.FetchConfig, w io.Writer) (BatchResult, error) {
	var result BatchResult

	base, err := url.Parse(cfg.PageURL)
	if err != nil {
		return result, &FetchError{URL: cfg.PageURL, Err: fmt.Errorf("parsing page URL: %w", err)}
	}

	links, err := pageLinks(ctx, client, base, cfg)
	if err != nil {
		return result, err
	}
	slog.Debug("pdf links discovered", "page", cfg.PageURL, "count", len(links))

	if err := os.MkdirAll(cfg.FormsDir, 0o755); err != nil {
		return result, fmt.Errorf("creating directory %s: %w", cfg.FormsDir, err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.DownloadDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.DownloadDelay), 1)
	}

	// Keyed by lowercased filename so Form.pdf and form.pdf count as a
	// collision on case-insensitive filesystems.
	written := make(map[string]string)
	for _, link := range links {
		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("waiting to download %s: %w", link.URL, err)
		}

		name := Filename(link.Text)
		destPath := filepath.Join(cfg.FormsDir, name)

		fmt.Fprintf(w, "downloading: %s\n", name)
		slog.Debug("downloading form", "url", link.URL, "file", name)

		if err := downloadFile(ctx, client, link.URL, destPath, cfg.HTTPConfig); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", link.URL, err)
			result.Failed++
			continue
		}

		key := strings.ToLower(name)
		if prev, ok := written[key]; ok {
			fmt.Fprintf(w, "  warning: %s overwrote %s (both saved as %s)\n", link.URL, prev, name)
			result.Collisions++
		}
		written[key] = link.URL

		result.Downloaded++
		result.Forms = append(result.Forms, types.FormFile{
			Filename:  name,
			LinkText:  link.Text,
			SourceURL: link.URL,
		})
	}

	fmt.Fprintf(w, "\nFetch summary: %d downloaded, %d failed (total: %d)\n",
		result.Downloaded, result.Failed, result.Total())
	return result, nil
}

// pageLinks fetches the forms page and extracts its PDF links.
func pageLinks(ctx context.Context, client *http.Client, base *url.URL, cfg types.FetchConfig) ([]Link, error) {
	ctx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	resp, err := httputil.Get(ctx, client, cfg.PageURL, cfg.UserAgent, "text/html")
	if err != nil {
		fe := &FetchError{URL: cfg.PageURL, Err: err}
		var se *httputil.StatusError
		if errors.As(err, &se) {
			fe.StatusCode = se.StatusCode
		}
		return nil, fe
	}
	defer resp.Body.Close()

	links, err := ExtractPDFLinks(resp.Body, base)
	if err != nil {
		return nil, &FetchError{URL: cfg.PageURL, Err: err}
	}
	return links, nil
}

// downloadFile fetches url to destPath through a temporary file in the same
// directory, replacing any existing file on success.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.HTTPConfig) error {
	ctx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	resp, err := httputil.Get(ctx, client, url, cfg.UserAgent, "application/pdf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
)

// matchPromptTmpl asks the model to pick catalog filenames for a request.
var matchPromptTmpl = template.Must(template.New("match").Parse(`You help staff find the right finance form. A user described the document they need:

"{{.Request}}"

These are the only forms available, one filename per line:
{{range .Catalog}}{{.}}
{{end}}
Choose the {{.TopN}} filename{{if gt .TopN 1}}s{{end}} from the list above that best match the request, ranked from most to least likely.
Reply with exactly {{.TopN}} line{{if gt .TopN 1}}s{{end}}, one filename per line, copied exactly as listed. Do not number the lines and do not add any other text.
`))

// renderPrompt executes the match prompt template.
func renderPrompt(request string, catalog []string, topN int) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Request string
		Catalog []string
		TopN    int
	}{Request: request, Catalog: catalog, TopN: topN}
	if err := matchPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

// ErrNoAPIKey is returned by ClaudeBackend when it has no key to send.
var ErrNoAPIKey = errors.New("no Anthropic API key configured")

// ClaudeBackend answers prompts through the Claude Messages API.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Suggest sends prompt as a single user message and returns the text of the
// reply. Text blocks are joined with newlines.
func (c *ClaudeBackend) Suggest(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", ErrNoAPIKey
	}
	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	bodyBytes, err := json.Marshal(claudeRequest{
		Model:     model,
		MaxTokens: 512,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var texts []string
	for _, block := range cResp.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return strings.Join(texts, "\n"), nil
}

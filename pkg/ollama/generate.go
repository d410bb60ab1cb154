package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// GenerateRequest describes a completion call.
type GenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Options map[string]any `json:"options,omitempty"`
	Stream  bool           `json:"stream"`
}

// GenerateResponse is one chunk of a streamed completion, or the whole
// response for a single-shot call.
type GenerateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// StreamFunc receives completion chunks as they arrive.
type StreamFunc func(GenerateResponse)

// Generate sends a prompt to a model and returns the full response text.
// When fn is non-nil the call streams, invoking fn per chunk; otherwise it
// issues a single-shot request.
func (c *Client) Generate(ctx context.Context, greq GenerateRequest, fn StreamFunc) (string, error) {
	greq.Stream = fn != nil

	req, err := c.newRequest(ctx, http.MethodPost, "/api/generate", greq)
	if err != nil {
		return "", fmt.Errorf("ollama: generate: %w", err)
	}

	if fn == nil {
		var resp GenerateResponse
		if err := c.doJSON(req, &resp); err != nil {
			return "", fmt.Errorf("ollama: generate: %w", err)
		}

		return resp.Response, nil
	}

	var buf strings.Builder

	err = c.doStream(req, func(line []byte) error {
		var chunk GenerateResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return nil
		}

		if chunk.Response != "" {
			buf.WriteString(chunk.Response)
		}

		fn(chunk)

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: generate: %w", err)
	}

	return buf.String(), nil
}

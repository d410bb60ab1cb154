package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PullProgress is one streamed status update from a model download.
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
}

// PullFunc receives pull progress updates.
type PullFunc func(PullProgress)

// Pull downloads a model from the Ollama registry. fn, when non-nil,
// receives each streamed progress update. The call blocks until the download
// finishes or fails.
func (c *Client) Pull(ctx context.Context, name string, fn PullFunc) error {
	payload := map[string]any{"name": name, "stream": true}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/pull", payload)
	if err != nil {
		return fmt.Errorf("ollama: pull %s: %w", name, err)
	}

	err = c.doStream(req, func(line []byte) error {
		if fn == nil {
			return nil
		}

		var p PullProgress
		if err := json.Unmarshal(line, &p); err != nil {
			return nil // tolerate odd lines, matching the API's loose framing
		}

		fn(p)

		return nil
	})
	if err != nil {
		return fmt.Errorf("ollama: pull %s: %w", name, err)
	}

	return nil
}

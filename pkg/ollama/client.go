// Package ollama is a client for a local Ollama install. Listing, pulling,
// deleting, and generation go through the HTTP API; model creation and
// inspection shell out to the ollama CLI, which resolves local file blobs
// that the bare API endpoints do not.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	osexec "os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is where a stock Ollama install listens.
const DefaultBaseURL = "http://localhost:11434"

// InstallHint tells the user where to get Ollama when the binary is missing.
const InstallHint = "https://ollama.com/download"

// Model is one entry in the local model listing.
type Model struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
	ModifiedAt time.Time `json:"modified_at"`
}

// APIError is a non-2xx response from the Ollama HTTP API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ollama: unexpected status %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// Client talks to a local Ollama install.
type Client struct {
	BaseURL string       // API base URL (no trailing slash).
	Client  *http.Client // HTTP client; falls back to a default with a 10-minute timeout.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// New creates a Client for the given base URL. An empty URL falls back to
// DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Installed reports whether the ollama binary is resolvable on PATH.
func Installed() bool {
	_, err := osexec.LookPath("ollama")

	return err == nil
}

// httpClient returns the configured client or a cached default. Pulls can
// take a long time, hence the generous timeout.
func (c *Client) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}

	c.clientOnce.Do(func() {
		c.defaultClient = &http.Client{Timeout: 10 * time.Minute}
	})

	return c.defaultClient
}

// newRequest builds an *http.Request against the base URL with a JSON body.
func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// doJSON sends the request, checks for a 2xx status, and unmarshals the
// response body into dest. If dest is nil the body is discarded after the
// status check.
func (c *Client) doJSON(req *http.Request, dest any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)

		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// doStream sends the request and feeds each NDJSON line of the response to
// fn. A line carrying an "error" field aborts the stream.
func (c *Client) doStream(req *http.Request, fn func(line []byte) error) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)

		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(line, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("ollama: %s", apiErr.Error)
		}

		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}

	return nil
}

// List returns the models known to the local install.
func (c *Client) List(ctx context.Context) ([]Model, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("ollama: list: %w", err)
	}

	var resp struct {
		Models []Model `json:"models"`
	}

	if err := c.doJSON(req, &resp); err != nil {
		return nil, fmt.Errorf("ollama: list: %w", err)
	}

	return resp.Models, nil
}

// Has reports whether name is present in the local listing. An untagged name
// also matches its tagged variants, so "researcher" matches
// "researcher:latest".
func (c *Client) Has(ctx context.Context, name string) (bool, error) {
	models, err := c.List(ctx)
	if err != nil {
		return false, err
	}

	for _, m := range models {
		if m.Name == name || strings.HasPrefix(m.Name, name+":") {
			return true, nil
		}
	}

	return false, nil
}

// Delete removes a model from the local install.
func (c *Client) Delete(ctx context.Context, name string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/delete", map[string]string{"name": name})
	if err != nil {
		return fmt.Errorf("ollama: delete %s: %w", name, err)
	}

	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("ollama: delete %s: %w", name, err)
	}

	return nil
}

// Create registers a new named model from a Modelfile via the ollama CLI.
func (c *Client) Create(ctx context.Context, name, modelfilePath string) error {
	cmd := osexec.CommandContext(ctx, "ollama", "create", name, "-f", modelfilePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		out := strings.TrimSpace(stdout.String() + stderr.String())

		return fmt.Errorf("ollama: create %s: %w\n%s", name, err, out)
	}

	return nil
}

// Show returns the key/value info the ollama CLI prints for a model.
func (c *Client) Show(ctx context.Context, name string) (map[string]string, error) {
	cmd := osexec.CommandContext(ctx, "ollama", "show", name)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ollama: show %s: %w\n%s", name, err, strings.TrimSpace(stderr.String()))
	}

	return parseShowOutput(stdout.String()), nil
}

// parseShowOutput extracts "key: value" lines from ollama show output.
func parseShowOutput(out string) map[string]string {
	info := make(map[string]string)

	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key != "" && value != "" {
			info[key] = value
		}
	}

	return info
}
